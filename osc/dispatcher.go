package osc

import (
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher handles the dispatching of received OSC Packets to Methods for their given Address.
// Its Dispatch method can be used as a Server's HandlerFunc.
type Dispatcher struct {
	Logger *zap.Logger

	mu      sync.RWMutex
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if !strings.HasPrefix(addr, "/") {
		return errors.Wrapf(ErrInvalidAddress, "AddMethod: %q", addr)
	}
	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return errors.New("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \"")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}
	if _, ok := d.methods[addr]; ok {
		return errors.Newf("AddMethod: OSC Method %s exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch dispatches OSC Packets. Messages are delivered to every Method whose
// address matches the message's address pattern. Bundles are delivered once
// their time tag expires.
func (d *Dispatcher) Dispatch(packet Packet, a net.Addr) {
	switch p := packet.(type) {
	default:
		d.logger().Warn("dispatch: invalid packet", zap.Stringer("from", a))

	case *Message:
		r, err := getRegEx(p.Address)
		if err != nil {
			d.logger().Warn("dispatch: invalid address pattern",
				zap.String("address", p.Address), zap.Stringer("from", a), zap.Error(err))
			return
		}

		d.mu.RLock()
		matched := make([]Method, 0, 1)
		for addr, method := range d.methods {
			if r.MatchString(addr) {
				matched = append(matched, method)
			}
		}
		d.mu.RUnlock()

		for _, method := range matched {
			method.HandleMessage(p)
		}

	case *Bundle:
		time.AfterFunc(p.Timetag.ExpiresIn(), func() {
			defer recoverer(d.logger(), a)
			for _, elem := range p.Elements {
				d.Dispatch(elem, a)
			}
		})
	}
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// getRegEx returns a regexp.Regexp matching the addresses selected by the
// OSC address pattern. '*' and '?' never match across a '/'.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteByte('^')

	inGroup := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		case c == '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end == -1 {
				return nil, errors.Newf("unterminated '[' in %q", pattern)
			}
			class := pattern[i+1 : i+end]
			sb.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				sb.WriteByte('^')
				class = class[1:]
			}
			for j := 0; j < len(class); j++ {
				if class[j] == '-' && j > 0 && j < len(class)-1 {
					sb.WriteByte('-')
					continue
				}
				sb.WriteString(regexp.QuoteMeta(class[j : j+1]))
			}
			sb.WriteByte(']')
			i += end
		case c == '{':
			inGroup = true
			sb.WriteString("(?:")
		case c == '}' && inGroup:
			inGroup = false
			sb.WriteByte(')')
		case c == ',' && inGroup:
			sb.WriteByte('|')
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	if inGroup {
		return nil, errors.Newf("unterminated '{' in %q", pattern)
	}

	sb.WriteByte('$')
	return regexp.Compile(sb.String())
}
