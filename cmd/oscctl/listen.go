package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chabad360/oscwire/internal/metrics"
	"github.com/chabad360/oscwire/osc"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newListenCommand(a *app) *cobra.Command {
	var methods []string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive packets over UDP and print them",
		Long: `Listens on --listen.addr and prints every packet it receives. With
--method, messages are dispatched by address pattern and only those reaching
one of the given method addresses are printed.

When --metrics.addr is set, Prometheus metrics are served on /metrics.`,
		Example: `  oscctl listen --listen.addr :8765
  oscctl listen -m /synth/1/freq -m /synth/2/freq --metrics.addr :9100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listen(cmd.Context(), cmd.OutOrStdout(), methods)
		},
	}

	cmd.Flags().StringArrayVarP(&methods, "method", "m", nil, "method address to dispatch to, repeatable")

	return cmd
}

func (a *app) listen(ctx context.Context, out io.Writer, methods []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	p := &packetPrinter{w: out}
	handler, err := a.handler(p, methods)
	if err != nil {
		return err
	}

	conn, err := net.ListenPacket("udp", a.cfg.Listen.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", a.cfg.Listen.Addr)
	}
	defer conn.Close()

	server := &osc.Server{
		Addr:        a.cfg.Listen.Addr,
		Handler:     handler,
		ReadTimeout: a.cfg.Listen.ReadTimeout,
		Logger:      a.log,
		Metrics:     collector,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx, conn)
	})

	if addr := a.cfg.Metrics.Addr; addr != "" {
		hs := &http.Server{
			Addr:              addr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.log.Info("serving metrics", zap.String("addr", addr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	if a.onListen != nil {
		a.onListen(conn.LocalAddr())
	}
	return g.Wait()
}

// handler prints every packet, or with methods, only the messages a
// Dispatcher routes to them.
func (a *app) handler(p *packetPrinter, methods []string) (osc.HandlerFunc, error) {
	if len(methods) == 0 {
		return p.printFrom, nil
	}

	d := &osc.Dispatcher{Logger: a.log}
	for _, m := range methods {
		m := m
		err := d.AddMethodFunc(m, func(msg *osc.Message) {
			p.printMethod(m, msg)
		})
		if err != nil {
			return nil, err
		}
	}
	return d.Dispatch, nil
}

// packetPrinter serializes output from concurrent handlers.
type packetPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *packetPrinter) printFrom(packet osc.Packet, addr net.Addr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, addr.String()+" ")
	_ = printPacket(p.w, packet, 0)
}

func (p *packetPrinter) printMethod(method string, msg *osc.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, method+" <- "+msg.String()+"\n")
}
