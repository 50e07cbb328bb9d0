package main

import (
	"fmt"

	"github.com/chabad360/oscwire/osc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSendCommand(a *app) *cobra.Command {
	var (
		bundle  bool
		timetag string
	)

	cmd := &cobra.Command{
		Use:   "send ADDRESS [ARG...]",
		Short: "Send a message over UDP",
		Long:  "Sends one message, optionally wrapped in a bundle, to --send.addr.\n\n" + argumentHelp,
		Example: `  oscctl send --send.addr 127.0.0.1:57110 /s_new s:default i:1001
  oscctl send -b /cue/1/start`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPacket(args, bundle, timetag)
			if err != nil {
				return err
			}

			client, err := osc.Dial(a.cfg.Send.Addr)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Send(p); err != nil {
				return err
			}
			a.log.Info("sent packet",
				zap.Stringer("packet", p.(fmt.Stringer)),
				zap.String("to", a.cfg.Send.Addr),
				zap.Stringer("from", client.LocalAddr()))
			return nil
		},
	}

	addBundleFlags(cmd, &bundle, &timetag)

	return cmd
}
