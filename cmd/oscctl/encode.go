package main

import (
	"encoding/hex"
	"fmt"

	"github.com/chabad360/oscwire/osc"
	"github.com/spf13/cobra"
)

func newEncodeCommand() *cobra.Command {
	var (
		raw     bool
		bundle  bool
		timetag string
	)

	cmd := &cobra.Command{
		Use:   "encode ADDRESS [ARG...]",
		Short: "Encode a message and print it as hex",
		Long:  "Encodes one message, optionally wrapped in a bundle.\n\n" + argumentHelp,
		Example: `  oscctl encode /s_new i:1001 s:freq f:440
  oscctl encode --timetag now /a [ i:1 i:2 ] T`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPacket(args, bundle, timetag)
			if err != nil {
				return err
			}
			data, err := osc.MarshalPacket(p)
			if err != nil {
				return err
			}

			if raw {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "write the binary packet instead of hex")
	addBundleFlags(cmd, &bundle, &timetag)

	return cmd
}

func addBundleFlags(cmd *cobra.Command, bundle *bool, timetag *string) {
	cmd.Flags().BoolVarP(bundle, "bundle", "b", false, "wrap the message in an immediate bundle")
	cmd.Flags().StringVarP(timetag, "timetag", "t", "", "wrap the message in a bundle with this time tag")
}
