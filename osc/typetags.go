package osc

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
)

// TypeTag is a single character of an OSC type tag string.
type TypeTag byte

const (
	TypeInt32      TypeTag = 'i'
	TypeFloat32    TypeTag = 'f'
	TypeString     TypeTag = 's'
	TypeBlob       TypeTag = 'b'
	TypeUint32     TypeTag = 'u'
	TypeInt64      TypeTag = 'h'
	TypeFloat64    TypeTag = 'd'
	TypeTimeTag    TypeTag = 't'
	TypeSymbol     TypeTag = 'S'
	TypeChar       TypeTag = 'c'
	TypeRGBA       TypeTag = 'r'
	TypeMIDI       TypeTag = 'm'
	TypeTrue       TypeTag = 'T'
	TypeFalse      TypeTag = 'F'
	TypeNil        TypeTag = 'N'
	TypeInfinitum  TypeTag = 'I'
	TypeArrayBegin TypeTag = '['
	TypeArrayEnd   TypeTag = ']'
	TypeInvalid    TypeTag = 0

	typeTagSeparator TypeTag = ','
)

// TypeTagger is implemented by argument values that carry their own type
// tag. Custom argument types registered with RegisterArgumentCodec must
// implement it so the encoder can tag them.
type TypeTagger interface {
	TypeTag() TypeTag
}

// ArgumentCodec decodes and encodes the payload of one argument type.
type ArgumentCodec interface {
	// DecodeArgument decodes one argument from the start of data and reports
	// how many bytes it consumed.
	DecodeArgument(data []byte) (arg interface{}, n int, err error)
	// AppendArgument appends the wire form of arg to b.
	AppendArgument(b []byte, arg interface{}) ([]byte, error)
}

// ArgumentCodecFuncs adapts a pair of functions to the ArgumentCodec
// interface.
type ArgumentCodecFuncs struct {
	Decode func(data []byte) (interface{}, int, error)
	Append func(b []byte, arg interface{}) ([]byte, error)
}

func (f ArgumentCodecFuncs) DecodeArgument(data []byte) (interface{}, int, error) {
	return f.Decode(data)
}

func (f ArgumentCodecFuncs) AppendArgument(b []byte, arg interface{}) ([]byte, error) {
	return f.Append(b, arg)
}

var (
	registryMu sync.RWMutex
	registry   = map[TypeTag]ArgumentCodec{
		TypeInt32:   word32Codec(func(u uint32) int32 { return int32(u) }, func(i int32) uint32 { return uint32(i) }),
		TypeUint32:  word32Codec(func(u uint32) uint32 { return u }, func(u uint32) uint32 { return u }),
		TypeFloat32: word32Codec(math.Float32frombits, math.Float32bits),
		TypeChar:    word32Codec(func(u uint32) Char { return Char(u) }, func(c Char) uint32 { return uint32(c) }),
		TypeRGBA:    word32Codec(rgbaFromUint32, RGBA.packed),
		TypeMIDI:    word32Codec(midiFromUint32, MIDI.packed),
		TypeInt64:   word64Codec(func(u uint64) int64 { return int64(u) }, func(i int64) uint64 { return uint64(i) }),
		TypeFloat64: word64Codec(math.Float64frombits, math.Float64bits),
		TypeTimeTag: word64Codec(func(u uint64) Timetag { return Timetag(u) }, func(t Timetag) uint64 { return uint64(t) }),
		TypeString:  stringCodec(func(s string) string { return s }, func(s string) string { return s }),
		TypeSymbol:  stringCodec(func(s string) Symbol { return Symbol(s) }, func(s Symbol) string { return string(s) }),
		TypeBlob: ArgumentCodecFuncs{
			Decode: func(data []byte) (interface{}, int, error) {
				return parseBlob(data)
			},
			Append: func(b []byte, arg interface{}) ([]byte, error) {
				blob, ok := arg.([]byte)
				if !ok {
					return b, unsupportedType(arg)
				}
				return appendBlob(b, blob)
			},
		},
		TypeTrue:      emptyCodec(true),
		TypeFalse:     emptyCodec(false),
		TypeNil:       emptyCodec(nil),
		TypeInfinitum: emptyCodec(Infinitum{}),
	}
)

// RegisterArgumentCodec adds or replaces the codec for tag. It is meant to be
// called during program initialization, before packets are decoded.
func RegisterArgumentCodec(tag TypeTag, codec ArgumentCodec) error {
	switch tag {
	case TypeInvalid, typeTagSeparator, TypeArrayBegin, TypeArrayEnd:
		return errors.Newf("osc: type tag %q is reserved", rune(tag))
	}
	if codec == nil {
		return errors.Newf("osc: nil codec for type tag %q", rune(tag))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = codec
	return nil
}

func lookupArgumentCodec(tag TypeTag) (ArgumentCodec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[tag]
	return c, ok
}

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported. Arrays
// ([]interface{}) have no single tag and also return TypeInvalid.
func ToTypeTag(arg interface{}) TypeTag {
	switch t := arg.(type) {
	case bool:
		if t {
			return TypeTrue
		}
		return TypeFalse
	case nil:
		return TypeNil
	case int32:
		return TypeInt32
	case uint32:
		return TypeUint32
	case float32:
		return TypeFloat32
	case string:
		return TypeString
	case []byte:
		return TypeBlob
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	case Timetag:
		return TypeTimeTag
	case TypeTagger:
		return t.TypeTag()
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string for the given arguments,
// including the leading ','.
func GetTypeTag(args []interface{}) (string, error) {
	tt, err := appendTypeTags([]byte{byte(typeTagSeparator)}, args, 0)
	if err != nil {
		return "", err
	}
	return string(tt), nil
}

// appendTypeTags appends one tag per argument, wrapping arrays in '[' ']'.
func appendTypeTags(b []byte, args []interface{}, depth int) ([]byte, error) {
	for _, arg := range args {
		if arr, ok := arg.([]interface{}); ok {
			if depth >= MaxNestingDepth {
				return b, errors.Wrapf(ErrNestingTooDeep, "array nested %d levels", depth+1)
			}
			var err error
			b = append(b, byte(TypeArrayBegin))
			if b, err = appendTypeTags(b, arr, depth+1); err != nil {
				return b, err
			}
			b = append(b, byte(TypeArrayEnd))
			continue
		}

		tag := ToTypeTag(arg)
		if tag == TypeInvalid {
			return b, unsupportedType(arg)
		}
		b = append(b, byte(tag))
	}
	return b, nil
}

// appendArguments appends the payload of each argument, in order.
func appendArguments(b []byte, args []interface{}) ([]byte, error) {
	for _, arg := range args {
		var err error
		if arr, ok := arg.([]interface{}); ok {
			if b, err = appendArguments(b, arr); err != nil {
				return b, err
			}
			continue
		}

		tag := ToTypeTag(arg)
		codec, ok := lookupArgumentCodec(tag)
		if !ok {
			return b, unsupportedType(arg)
		}
		if b, err = codec.AppendArgument(b, arg); err != nil {
			return b, err
		}
	}
	return b, nil
}

func unsupportedType(arg interface{}) error {
	return errors.Wrapf(ErrUnsupportedType, "%T", arg)
}

func word32Codec[T any](from func(uint32) T, to func(T) uint32) ArgumentCodec {
	return ArgumentCodecFuncs{
		Decode: func(data []byte) (interface{}, int, error) {
			u, n, err := parseUint32(data)
			if err != nil {
				return nil, 0, err
			}
			return from(u), n, nil
		},
		Append: func(b []byte, arg interface{}) ([]byte, error) {
			v, ok := arg.(T)
			if !ok {
				return b, unsupportedType(arg)
			}
			return binary.BigEndian.AppendUint32(b, to(v)), nil
		},
	}
}

func word64Codec[T any](from func(uint64) T, to func(T) uint64) ArgumentCodec {
	return ArgumentCodecFuncs{
		Decode: func(data []byte) (interface{}, int, error) {
			u, n, err := parseUint64(data)
			if err != nil {
				return nil, 0, err
			}
			return from(u), n, nil
		},
		Append: func(b []byte, arg interface{}) ([]byte, error) {
			v, ok := arg.(T)
			if !ok {
				return b, unsupportedType(arg)
			}
			return binary.BigEndian.AppendUint64(b, to(v)), nil
		},
	}
}

func stringCodec[T any](from func(string) T, to func(T) string) ArgumentCodec {
	return ArgumentCodecFuncs{
		Decode: func(data []byte) (interface{}, int, error) {
			s, n, err := parsePaddedString(data)
			if err != nil {
				return nil, 0, err
			}
			return from(s), n, nil
		},
		Append: func(b []byte, arg interface{}) ([]byte, error) {
			v, ok := arg.(T)
			if !ok {
				return b, unsupportedType(arg)
			}
			return appendPaddedString(b, to(v))
		},
	}
}

// emptyCodec handles the tags whose value is carried by the tag alone.
func emptyCodec(v interface{}) ArgumentCodec {
	return ArgumentCodecFuncs{
		Decode: func([]byte) (interface{}, int, error) { return v, 0, nil },
		Append: func(b []byte, _ interface{}) ([]byte, error) { return b, nil },
	}
}
