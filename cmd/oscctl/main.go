// Command oscctl decodes, encodes, sends and receives Open Sound Control
// packets.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/chabad360/oscwire/internal/config"
	"github.com/chabad360/oscwire/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger

	// onListen, when set, is called with the bound address once listen is
	// accepting packets.
	onListen func(net.Addr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(&app{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "oscctl:", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oscctl",
		Short: "Work with Open Sound Control packets",
		Long: `oscctl decodes and encodes OSC 1.0 packets and sends or receives them
over UDP. Settings come from flags, OSCCTL_* environment variables and an
optional YAML file given with --config.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log, logger.WithOutput(cmd.ErrOrStderr()), logger.WithName("oscctl"))
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newEncodeCommand())
	cmd.AddCommand(newSendCommand(a))
	cmd.AddCommand(newListenCommand(a))

	return cmd
}
