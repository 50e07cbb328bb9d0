package osc

import (
	"encoding/binary"
	"time"
)

const (
	// Immediate is the special time tag value meaning "immediately": 63 zero
	// bits followed by a one in the least significant bit.
	Immediate = Timetag(1)

	secondsFrom1900To1970 = 2208988800
	nanosPerSecond        = uint64(time.Second)
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
//
// The codec only ever copies the raw bits; the time.Time helpers below are for
// callers that schedule on bundle time tags.
type Timetag uint64

// NewTimetag returns a time tag for the current time.
func NewTimetag() Timetag {
	return NewTimetagFromTime(time.Now())
}

// NewImmediateTimetag returns the Immediate time tag.
func NewImmediateTimetag() Timetag {
	return Immediate
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(timeStamp time.Time) Timetag {
	return timeToTimetag(timeStamp)
}

// IsImmediate reports whether t is exactly the Immediate value.
func (t Timetag) IsImmediate() bool {
	return t == Immediate
}

// Time returns the time.
func (t Timetag) Time() time.Time {
	return timetagToTime(t)
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// TimeTag returns the time tag value
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() ([]byte, error) {
	return t.AppendBinary(make([]byte, 0, bit64Size))
}

// AppendBinary appends the 8 byte big-endian form of t to b.
func (t Timetag) AppendBinary(b []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint64(b, uint64(t)), nil
}

// UnmarshalBinary reads t from exactly 8 bytes.
func (t *Timetag) UnmarshalBinary(data []byte) error {
	if len(data) != bit64Size {
		return newParseError(ErrInvalidLength, 0)
	}
	*t = Timetag(binary.BigEndian.Uint64(data))
	return nil
}

// SetTime sets the value of the OSC time tag.
func (t *Timetag) SetTime(time time.Time) {
	*t = timeToTimetag(time)
}

// ExpiresIn calculates the duration until the current time is the same as
// the value of the time tag. It returns zero if the value of the time tag is
// in the past or Immediate.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= Immediate {
		return 0
	}

	d := time.Until(timetagToTime(t))
	if d <= 0 {
		return 0
	}

	return d
}

// timeToTimetag converts the given time to an OSC time tag.
func timeToTimetag(t time.Time) Timetag {
	secs := uint64(t.Unix() + secondsFrom1900To1970)
	frac := (uint64(t.Nanosecond()) << 32) / nanosPerSecond
	return Timetag(secs<<32 | frac)
}

// timetagToTime converts the given timetag to a time object.
func timetagToTime(t Timetag) time.Time {
	nanos := (uint64(t.FractionalSecond()) * nanosPerSecond) >> 32
	return time.Unix(int64(t.SecondsSinceEpoch())-secondsFrom1900To1970, int64(nanos))
}
