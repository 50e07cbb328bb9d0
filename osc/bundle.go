package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	bundleTagString = "#bundle"
)

// bundleMarker is bundleTagString as a padded OSC string.
var bundleMarker = []byte(bundleTagString + "\x00")

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle with the Immediate time tag holding the
// given elements.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: Immediate, Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle. Use this function to create a new OSC Bundle.
func NewBundleWithTime(time time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: elems}
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
// Unlike ParsePacket, it fails with ErrMalformedBundleMarker if data isn't a
// bundle.
func NewBundleFromData(data []byte) (*Bundle, error) {
	return parseBundle(data, 0, 0)
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return errors.Wrapf(ErrUnsupportedType, "bundle element %T: only Bundle and Message are supported", pck)

	case *Bundle:
		if t == nil {
			return errors.Wrap(ErrUnsupportedType, "nil bundle")
		}
		b.Elements = append(b.Elements, t)

	case *Message:
		if t == nil {
			return errors.Wrap(ErrUnsupportedType, "nil message")
		}
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// String implements the fmt.Stringer interface. It prints the time tag and
// the number of elements, not the elements themselves.
func (b *Bundle) String() string {
	if b == nil {
		return ""
	}
	if b.Timetag.IsImmediate() {
		return fmt.Sprintf("%s immediate (%d elements)", bundleTagString, len(b.Elements))
	}
	return fmt.Sprintf("%s %s (%d elements)", bundleTagString, b.Timetag.Time().UTC().Format(time.RFC3339Nano), len(b.Elements))
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return marshal(b.AppendBinary)
}

// AppendBinary appends the encoded bundle to dst with the following format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) AppendBinary(dst []byte) ([]byte, error) {
	return b.appendBinary(dst, 0)
}

func (b *Bundle) appendBinary(dst []byte, depth int) ([]byte, error) {
	if b == nil {
		return dst, errors.Wrap(ErrUnsupportedType, "nil bundle")
	}
	if depth > MaxNestingDepth {
		return dst, errors.Wrapf(ErrNestingTooDeep, "bundle nested %d levels", depth)
	}

	dst = append(dst, bundleMarker...)
	dst = binary.BigEndian.AppendUint64(dst, uint64(b.Timetag))

	for _, elem := range b.Elements {
		// Reserve the size of the element and fill it in afterwards
		sizePos := len(dst)
		dst = append(dst, 0, 0, 0, 0)

		var err error
		switch e := elem.(type) {
		case *Message:
			dst, err = e.AppendBinary(dst)
		case *Bundle:
			dst, err = e.appendBinary(dst, depth+1)
		default:
			err = errors.Wrapf(ErrUnsupportedType, "bundle element %T", elem)
		}
		if err != nil {
			return dst, err
		}

		binary.BigEndian.PutUint32(dst[sizePos:], uint32(len(dst)-sizePos-bit32Size))
	}

	return dst, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	bundle, err := parseBundle(data, 0, 0)
	if err != nil {
		return err
	}
	*b = *bundle
	return nil
}

func isBundle(data []byte) bool {
	return bytes.HasPrefix(data, bundleMarker)
}

// parseBundle decodes a bundle occupying all of data. base is the offset of
// data within the top level buffer and depth the number of enclosing bundles.
func parseBundle(data []byte, base, depth int) (*Bundle, error) {
	if depth > MaxNestingDepth {
		return nil, newParseError(ErrNestingTooDeep, base)
	}

	// Check the '#bundle' OSC string
	if !isBundle(data) {
		return nil, newParseError(ErrMalformedBundleMarker, base)
	}
	off := len(bundleMarker)

	tt, n, err := parseUint64(data[off:])
	if err != nil {
		return nil, newParseError(err, base+off)
	}
	off += n

	b := &Bundle{Timetag: Timetag(tt)}

	// Read until the end of the buffer
	for off < len(data) {
		size, n, err := parseInt32(data[off:])
		if err != nil {
			return nil, newParseError(err, base+off)
		}
		if size < 0 || size%bit32Size != 0 {
			return nil, newParseError(ErrInvalidLength, base+off)
		}
		off += n

		if int(size) > len(data)-off {
			return nil, newParseError(ErrTruncatedInput, base+off)
		}

		p, err := parsePacket(data[off:off+int(size)], base+off, depth+1)
		if err != nil {
			return nil, err
		}
		b.Elements = append(b.Elements, p)
		off += int(size)
	}

	return b, nil
}
