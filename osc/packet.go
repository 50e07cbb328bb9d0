package osc

import (
	"encoding"

	"github.com/cockroachdb/errors"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// AppendBinary appends the encoded packet to b.
	AppendBinary(b []byte) ([]byte, error)
}

// ParsePacket parses the given data and returns either a *Message or a
// *Bundle. Data starting with "#bundle" is parsed as a bundle, anything else
// as a message. On failure the error is a *ParseError and no packet is
// returned.
//
// The returned packet doesn't reference data, so the caller may reuse it.
func ParsePacket(data []byte) (Packet, error) {
	return parsePacket(data, 0, 0)
}

// ParsePacketN parses the first n bytes of data, as handed over by a
// transport that fills a larger buffer.
func ParsePacketN(data []byte, n int) (Packet, error) {
	if n < 0 || n > len(data) {
		return nil, newParseError(ErrInvalidLength, 0)
	}
	return parsePacket(data[:n], 0, 0)
}

// MarshalPacket encodes p.
func MarshalPacket(p Packet) ([]byte, error) {
	switch t := p.(type) {
	case *Message:
		return t.MarshalBinary()
	case *Bundle:
		return t.MarshalBinary()
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "packet %T", p)
	}
}

// parsePacket dispatches on the bundle marker. base is the offset of data
// in the top level buffer and depth the number of enclosing bundles.
func parsePacket(data []byte, base, depth int) (Packet, error) {
	if isBundle(data) {
		b, err := parseBundle(data, base, depth)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	m, err := parseMessage(data, base)
	if err != nil {
		return nil, err
	}
	return m, nil
}
