package main

import (
	"io"
	"os"
	"strings"

	"github.com/chabad360/oscwire/osc"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newDecodeCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "decode [HEX...]",
		Short: "Decode one OSC packet and print it",
		Long: `Decodes a single packet and prints one line per message, with bundle
elements indented under their bundle.

The packet is read as raw bytes from --file, or as hex digits from the
arguments, or as hex digits from stdin when there are no arguments. White
space inside the hex is ignored.`,
		Example: `  oscctl decode 2f61000000002c690000000007
  oscctl decode --file packet.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPacket(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}

			p, err := osc.ParsePacket(data)
			if err != nil {
				return err
			}
			return printPacket(cmd.OutOrStdout(), p, 0)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the raw packet from this file")

	return cmd
}

func readPacket(stdin io.Reader, file string, args []string) ([]byte, error) {
	if file != "" {
		if len(args) > 0 {
			return nil, errors.New("give either --file or hex arguments, not both")
		}
		data, err := os.ReadFile(file)
		return data, errors.Wrap(err, "read packet")
	}

	text := strings.Join(args, "")
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		text = string(b)
	}

	data, err := decodeHex(text)
	return data, errors.Wrap(err, "decode hex")
}
