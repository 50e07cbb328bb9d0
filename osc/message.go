package osc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// NewMessageFromData returns a new Message decoded from data.
func NewMessageFromData(data []byte) (*Message, error) {
	return parseMessage(data, 0)
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Append appends the given arguments to the arguments list. Nothing is
// appended if any of the arguments has no type tag.
func (m *Message) Append(args ...interface{}) error {
	if _, err := appendTypeTags(nil, args, 0); err != nil {
		return err
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Equals reports whether m and other have the same address and arguments.
func (m *Message) Equals(other *Message) bool {
	return reflect.DeepEqual(m, other)
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(m.Address)
	if len(tags) <= 1 {
		return buf.String()
	}

	buf.WriteByte(' ')
	buf.WriteString(tags)
	writeArguments(buf, m.Arguments)

	return buf.String()
}

func writeArguments(buf *bytebufferpool.ByteBuffer, args []interface{}) {
	for _, arg := range args {
		switch arg := arg.(type) {
		case nil:
			buf.WriteString(" Nil")

		case []byte:
			fmt.Fprintf(buf, " blob(%d)", len(arg))

		case string, Symbol:
			fmt.Fprintf(buf, " %q", arg)

		case Timetag:
			fmt.Fprintf(buf, " %d", arg.TimeTag())

		case []interface{}:
			buf.WriteString(" [")
			writeArguments(buf, arg)
			buf.WriteString(" ]")

		default:
			fmt.Fprintf(buf, " %v", arg)
		}
	}
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	return marshal(m.AppendBinary)
}

// AppendBinary appends the encoded message to b. The layout is:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) AppendBinary(b []byte) ([]byte, error) {
	if m == nil {
		return b, errors.Wrap(ErrUnsupportedType, "nil message")
	}
	if !strings.HasPrefix(m.Address, "/") {
		return b, errors.Wrapf(ErrInvalidAddress, "%q", m.Address)
	}

	b, err := appendPaddedString(b, m.Address)
	if err != nil {
		return b, err
	}

	// Type tag string starts with ",", even without arguments
	start := len(b)
	b = append(b, byte(typeTagSeparator))
	if b, err = appendTypeTags(b, m.Arguments, 0); err != nil {
		return b, err
	}
	n := len(b) - start + 1
	b = appendPadding(b, 1+padBytesNeeded(n))

	return appendArguments(b, m.Arguments)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	msg, err := parseMessage(data, 0)
	if err != nil {
		return err
	}
	*m = *msg
	return nil
}

// parseMessage decodes a message occupying all of data. base is the offset of
// data within the top level buffer.
func parseMessage(data []byte, base int) (*Message, error) {
	if len(data) == 0 {
		return nil, newParseError(ErrTruncatedInput, base)
	}
	if data[0] != '/' {
		return nil, newParseError(ErrInvalidAddress, base)
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return nil, newParseError(err, base)
	}

	msg := &Message{Address: addr}

	// Messages without a type tag string carry no arguments.
	if n == len(data) || data[n] != byte(typeTagSeparator) {
		return msg, nil
	}

	typetags, tn, err := parsePaddedString(data[n:])
	if err != nil {
		return nil, newParseError(err, base+n)
	}

	off := n + tn
	args, used, err := parseArguments(typetags, base+n, data[off:], base+off)
	if err != nil {
		return nil, err
	}
	off += used

	if off != len(data) {
		return nil, newParseError(ErrInvalidLength, base+off)
	}

	msg.Arguments = args
	return msg, nil
}

// parseArguments decodes one argument per tag in typetags from data.
// tagsBase and dataBase are the offsets of the type tag string and of data in
// the top level buffer.
func parseArguments(typetags string, tagsBase int, data []byte, dataBase int) ([]interface{}, int, error) {
	var (
		args  []interface{}
		stack [][]interface{}
		n     int
	)

	for i := 1; i < len(typetags); i++ {
		tag := TypeTag(typetags[i])

		switch tag {
		case TypeArrayBegin:
			if len(stack) >= MaxNestingDepth {
				return nil, 0, newTagError(ErrNestingTooDeep, tagsBase+i, tag, i)
			}
			stack = append(stack, args)
			args = make([]interface{}, 0)
			continue

		case TypeArrayEnd:
			if len(stack) == 0 {
				return nil, 0, newTagError(ErrUnbalancedArray, tagsBase+i, tag, i)
			}
			parent := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			args = append(parent, args)
			continue
		}

		codec, ok := lookupArgumentCodec(tag)
		if !ok {
			return nil, 0, newTagError(ErrUnknownArgumentType, tagsBase+i, tag, i)
		}

		arg, c, err := codec.DecodeArgument(data[n:])
		if err != nil {
			return nil, 0, newTagError(err, dataBase+n, tag, i)
		}
		args = append(args, arg)
		n += c
	}

	if len(stack) != 0 {
		return nil, 0, newTagError(ErrUnbalancedArray, tagsBase+len(typetags), TypeArrayBegin, len(typetags))
	}

	return args, n, nil
}
