package osc

import "fmt"

// Symbol is an OSC symbol ('S'). On the wire it is identical to a string.
type Symbol string

func (Symbol) TypeTag() TypeTag { return TypeSymbol }

// Char is a single character ('c'), sent as a 32-bit big-endian value.
type Char rune

func (Char) TypeTag() TypeTag { return TypeChar }

func (c Char) String() string { return string(rune(c)) }

// RGBA is a 32-bit color ('r').
type RGBA struct {
	R, G, B, A uint8
}

func (RGBA) TypeTag() TypeTag { return TypeRGBA }

func (c RGBA) packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func rgbaFromUint32(u uint32) RGBA {
	return RGBA{R: uint8(u >> 24), G: uint8(u >> 16), B: uint8(u >> 8), A: uint8(u)}
}

func (c RGBA) String() string {
	return fmt.Sprintf("#%08x", c.packed())
}

// MIDI is a 4 byte MIDI message ('m'): port id, status byte and two data
// bytes.
type MIDI struct {
	Port, Status, Data1, Data2 uint8
}

func (MIDI) TypeTag() TypeTag { return TypeMIDI }

func (m MIDI) packed() uint32 {
	return uint32(m.Port)<<24 | uint32(m.Status)<<16 | uint32(m.Data1)<<8 | uint32(m.Data2)
}

func midiFromUint32(u uint32) MIDI {
	return MIDI{Port: uint8(u >> 24), Status: uint8(u >> 16), Data1: uint8(u >> 8), Data2: uint8(u)}
}

// Infinitum is the OSC 'I' argument (also known as impulse or bang). It has
// no payload.
type Infinitum struct{}

func (Infinitum) TypeTag() TypeTag { return TypeInfinitum }

func (Infinitum) String() string { return "Infinitum" }
