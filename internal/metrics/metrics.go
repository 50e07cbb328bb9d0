// Package metrics exports oscctl's packet counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/chabad360/oscwire/osc"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "osc"

// Collector counts packets seen by an osc.Server. It implements osc.Metrics.
type Collector struct {
	received      prometheus.Counter
	receivedBytes prometheus.Counter
	decoded       *prometheus.CounterVec
	rejected      *prometheus.CounterVec
}

var _ osc.Metrics = (*Collector)(nil)

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_received_total",
			Help:      "Datagrams read from the socket.",
		}),
		receivedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Bytes read from the socket.",
		}),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_decoded_total",
			Help:      "Packets decoded successfully, by packet type.",
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_rejected_total",
			Help:      "Packets that failed to decode, by error kind.",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{c.received, c.receivedBytes, c.decoded, c.rejected} {
		if err := reg.Register(col); err != nil {
			return nil, errors.Wrap(err, "register osc metrics")
		}
	}
	return c, nil
}

// PacketReceived counts one datagram of size bytes.
func (c *Collector) PacketReceived(size int) {
	c.received.Inc()
	c.receivedBytes.Add(float64(size))
}

// PacketDecoded counts p under its packet type.
func (c *Collector) PacketDecoded(p osc.Packet) {
	c.decoded.WithLabelValues(packetType(p)).Inc()
}

// PacketRejected counts err under osc.ErrorKind.
func (c *Collector) PacketRejected(err error) {
	c.rejected.WithLabelValues(osc.ErrorKind(err)).Inc()
}

func packetType(p osc.Packet) string {
	switch p.(type) {
	case *osc.Message:
		return "message"
	case *osc.Bundle:
		return "bundle"
	default:
		return "other"
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}
