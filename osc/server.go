package osc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// HandlerFunc handles a packet received from addr.
type HandlerFunc func(packet Packet, addr net.Addr)

// Metrics receives the Server's packet counters.
type Metrics interface {
	PacketReceived(size int)
	PacketDecoded(p Packet)
	PacketRejected(err error)
}

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets and bundles and hands them to Handler.
type Server struct {
	Addr        string
	Handler     HandlerFunc
	ReadTimeout time.Duration
	Logger      *zap.Logger
	Metrics     Metrics

	mu   sync.Mutex
	conn net.PacketConn
}

// ListenAndServe listens on the UDP address addr and passes every packet to
// handler.
func ListenAndServe(addr string, handler HandlerFunc) error {
	s := &Server{Addr: addr, Handler: handler}
	return s.ListenAndServe(context.Background())
}

// ListenAndServe retrieves incoming OSC packets and dispatches the retrieved
// OSC packets until ctx is done or Close is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "osc: listen on %s", s.Addr)
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches retrieved OSC packets. Packets that fail to decode are logged
// and dropped. It returns nil once ctx is done or the server is closed.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	if s.Handler == nil {
		return errors.New("osc: server has no handler")
	}

	s.mu.Lock()
	s.conn = c
	s.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	log := s.logger()
	log.Info("osc server started", zap.Stringer("addr", c.LocalAddr()))

	for {
		p, a, err := s.ReceivePacketFromConn(c)
		if err != nil {
			var pe *ParseError
			switch {
			case ctx.Err() != nil, s.closed():
				log.Info("osc server stopped", zap.Stringer("addr", c.LocalAddr()))
				return nil
			case errors.As(err, &pe):
				log.Debug("dropping malformed packet",
					zap.Stringer("from", a),
					zap.String("kind", ErrorKind(err)),
					zap.Int("offset", pe.Offset),
					zap.Error(err))
				continue
			case isTimeout(err):
				continue
			}
			return errors.Wrap(err, "osc: read")
		}
		go s.serve(p, a)
	}
}

func (s *Server) serve(p Packet, a net.Addr) {
	defer recoverer(s.logger(), a)
	s.Handler(p, a)
}

// ReceivePacketFromConn reads a single packet from c and decodes it.
func (s *Server) ReceivePacketFromConn(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	buf := getReadBuffer()
	defer readPool.Put(buf)

	n, a, err := c.ReadFrom(buf.B)
	if err != nil {
		return nil, a, err
	}
	if s.Metrics != nil {
		s.Metrics.PacketReceived(n)
	}

	p, err := ParsePacketN(buf.B, n)
	if s.Metrics != nil {
		if err != nil {
			s.Metrics.PacketRejected(err)
		} else {
			s.Metrics.PacketDecoded(p)
		}
	}
	return p, a, err
}

// WriteTo encodes p and sends it to addr over the server's connection.
func (s *Server) WriteTo(p Packet, addr string) (int, error) {
	s.mu.Lock()
	c := s.conn
	s.mu.Unlock()
	if c == nil {
		return 0, errors.New("osc: server is not running")
	}

	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return 0, err
	}

	data, err := MarshalPacket(p)
	if err != nil {
		return 0, err
	}
	return c.WriteTo(data, a)
}

// Close stops a running server.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Server) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn == nil
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// recoverer logs a panic raised while handling a packet from a.
func recoverer(log *zap.Logger, a net.Addr) {
	if err := recover(); err != nil {
		log.Error("panic while handling packet",
			zap.Stringer("from", a),
			zap.Any("panic", err),
			zap.Stack("stack"))
	}
}
