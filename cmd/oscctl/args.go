package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chabad360/oscwire/osc"
	"github.com/cockroachdb/errors"
)

const argumentHelp = `Arguments are written TAG:VALUE, one per word:

  i:-3        int32            u:4000000000  uint32
  h:1         int64            f:440         float32
  d:0.5       float64          s:freq        string
  S:sym       symbol           c:A           char
  b:0a0b0c    blob (hex)       r:ff0000ff    RGBA (hex)
  m:00903c7f  MIDI (hex)       t:now         time tag (now, immediate,
                                             RFC 3339 or a raw uint64)
  T  true     F  false         N  nil        I  infinitum

A lone [ starts an array and a lone ] ends it.`

// parseArguments turns command line words into message arguments.
func parseArguments(words []string) ([]interface{}, error) {
	stack := [][]interface{}{{}}
	for i, w := range words {
		switch w {
		case "[":
			stack = append(stack, []interface{}{})
			continue
		case "]":
			if len(stack) == 1 {
				return nil, errors.Newf("argument %d: ']' without '['", i+1)
			}
			arr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = append(stack[len(stack)-1], arr)
			continue
		}

		arg, err := parseArgument(w)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		stack[len(stack)-1] = append(stack[len(stack)-1], arg)
	}
	if len(stack) != 1 {
		return nil, errors.Newf("%d unclosed '['", len(stack)-1)
	}
	return stack[0], nil
}

func parseArgument(w string) (interface{}, error) {
	switch w {
	case "T":
		return true, nil
	case "F":
		return false, nil
	case "N":
		return nil, nil
	case "I":
		return osc.Infinitum{}, nil
	}

	tag, v, ok := strings.Cut(w, ":")
	if !ok || len(tag) != 1 {
		return nil, errors.Newf("%q: want TAG:VALUE", w)
	}

	switch osc.TypeTag(tag[0]) {
	case osc.TypeInt32:
		n, err := strconv.ParseInt(v, 0, 32)
		return int32(n), errors.Wrap(err, "int32")
	case osc.TypeUint32:
		n, err := strconv.ParseUint(v, 0, 32)
		return uint32(n), errors.Wrap(err, "uint32")
	case osc.TypeInt64:
		n, err := strconv.ParseInt(v, 0, 64)
		return n, errors.Wrap(err, "int64")
	case osc.TypeFloat32:
		f, err := strconv.ParseFloat(v, 32)
		return float32(f), errors.Wrap(err, "float32")
	case osc.TypeFloat64:
		f, err := strconv.ParseFloat(v, 64)
		return f, errors.Wrap(err, "float64")
	case osc.TypeString:
		return v, nil
	case osc.TypeSymbol:
		return osc.Symbol(v), nil
	case osc.TypeChar:
		r, size := utf8.DecodeRuneInString(v)
		if r == utf8.RuneError || size != len(v) {
			return nil, errors.Newf("char %q: want exactly one character", v)
		}
		return osc.Char(r), nil
	case osc.TypeBlob:
		b, err := decodeHex(v)
		return b, errors.Wrap(err, "blob")
	case osc.TypeTimeTag:
		return parseTimetag(v)
	case osc.TypeRGBA:
		b, err := decodeWord(v)
		if err != nil {
			return nil, errors.Wrap(err, "rgba")
		}
		return osc.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
	case osc.TypeMIDI:
		b, err := decodeWord(v)
		if err != nil {
			return nil, errors.Wrap(err, "midi")
		}
		return osc.MIDI{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]}, nil
	default:
		return nil, errors.Newf("%q: unknown type tag %q", w, tag)
	}
}

func parseTimetag(v string) (osc.Timetag, error) {
	switch v {
	case "now":
		return osc.NewTimetag(), nil
	case "immediate":
		return osc.Immediate, nil
	}
	if n, err := strconv.ParseUint(v, 0, 64); err == nil {
		return osc.Timetag(n), nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return 0, errors.Newf("time tag %q: want now, immediate, RFC 3339 or a number", v)
	}
	return osc.NewTimetagFromTime(t), nil
}

// decodeHex decodes hex digits, ignoring white space and an optional 0x
// prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func decodeWord(s string) ([]byte, error) {
	b, err := decodeHex(strings.TrimPrefix(s, "#"))
	if err != nil {
		return nil, err
	}
	if len(b) != 4 {
		return nil, errors.Newf("%q: want 8 hex digits", s)
	}
	return b, nil
}

// buildPacket makes a message from an address and argument words, wrapped
// in a bundle when bundle is true or timetag is set.
func buildPacket(words []string, bundle bool, timetag string) (osc.Packet, error) {
	args, err := parseArguments(words[1:])
	if err != nil {
		return nil, err
	}
	msg := osc.NewMessage(words[0], args...)
	if !bundle && timetag == "" {
		return msg, nil
	}

	b := osc.NewBundle(msg)
	if timetag != "" {
		if b.Timetag, err = parseTimetag(timetag); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// printPacket writes p to w, one line per message, indenting bundle elements.
func printPacket(w io.Writer, p osc.Packet, depth int) error {
	indent := strings.Repeat("  ", depth)
	switch p := p.(type) {
	case *osc.Message:
		_, err := fmt.Fprintf(w, "%s%s\n", indent, p)
		return err
	case *osc.Bundle:
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, p); err != nil {
			return err
		}
		for _, e := range p.Elements {
			if err := printPacket(w, e, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Newf("unknown packet type %T", p)
	}
}
