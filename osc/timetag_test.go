package osc

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unixEpoch is 1970-01-01 as an OSC time tag.
const unixEpoch = Timetag(secondsFrom1900To1970 << 32)

func TestNewImmediateTimetag(t *testing.T) {
	tt := NewImmediateTimetag()
	if i := tt.ExpiresIn(); i != 0 {
		t.Errorf("NewImmediateTimetag() = %d, want 1", tt)
	}
	assert.True(t, tt.IsImmediate())
	assert.Equal(t, Timetag(1), tt)
}

func TestNewTimetag(t *testing.T) {
	ti := time.Now()
	tt := NewTimetag()
	if i := tt.ExpiresIn(); i != 0 {
		t.Errorf("NewTimetag() = %d, want %d", tt, NewTimetagFromTime(ti))
	}
	assert.False(t, tt.IsImmediate())
}

func TestNewTimetagFromTime(t *testing.T) {
	tt := NewTimetagFromTime(time.Now().Add(time.Second))
	if i := tt.ExpiresIn(); i.Round(100*time.Millisecond) != time.Second {
		t.Errorf("NewTimetag() = %d, want %d", i.Round(time.Second), time.Second)
	}
}

func TestTimetag_ExpiresIn(t *testing.T) {
	tests := []struct {
		name string
		t    Timetag
		want time.Duration
	}{
		{"one_second", NewTimetagFromTime(time.Now().Add(time.Second)), time.Second},
		{"immediate", NewImmediateTimetag(), 0},
		{"zero", Timetag(0), 0},
		{"late", NewTimetagFromTime(time.Now().Add(-time.Second)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.ExpiresIn(); got.Round(100*time.Millisecond) != tt.want {
				t.Errorf("ExpiresIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimetag_FractionalSecond(t *testing.T) {
	tests := []struct {
		name string
		t    Timetag
		want uint32
	}{
		{"zero", 0, 0},
		{"immediate", Immediate, 1},
		{"half", unixEpoch | 0x80000000, 0x80000000},
		{"max", Timetag(^uint64(0)), 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.FractionalSecond(); got != tt.want {
				t.Errorf("FractionalSecond() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimetag_SecondsSinceEpoch(t *testing.T) {
	tests := []struct {
		name string
		t    Timetag
		want uint32
	}{
		{"zero", 0, 0},
		{"immediate", Immediate, 0},
		{"unix_epoch", unixEpoch, secondsFrom1900To1970},
		{"max", Timetag(^uint64(0)), 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.SecondsSinceEpoch(); got != tt.want {
				t.Errorf("SecondsSinceEpoch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimetag_SetTime(t *testing.T) {
	var tt Timetag
	tt.SetTime(time.Unix(0, int64(500*time.Millisecond)))
	assert.Equal(t, unixEpoch|0x80000000, tt)
}

func TestTimetag_Time(t *testing.T) {
	tests := []struct {
		name string
		t    Timetag
		want time.Time
	}{
		{"unix_epoch", unixEpoch, time.Unix(0, 0)},
		{"half_second", unixEpoch | 0x80000000, time.Unix(0, int64(500*time.Millisecond))},
		{"one_day_later", unixEpoch + Timetag(86400)<<32, time.Unix(86400, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.Time(); !got.Equal(tt.want) {
				t.Errorf("Time() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_timeToTimetag(t *testing.T) {
	type args struct {
		t time.Time
	}
	tests := []struct {
		name string
		args args
		want Timetag
	}{
		{"unix_epoch", args{time.Unix(0, 0)}, unixEpoch},
		{"quarter_second", args{time.Unix(0, int64(250*time.Millisecond))}, unixEpoch | 0x40000000},
		{"ntp_epoch", args{time.Unix(-secondsFrom1900To1970, 0)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeToTimetag(tt.args.t); got != tt.want {
				t.Errorf("timeToTimetag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_timetagToTime_RoundTrip(t *testing.T) {
	now := time.Now()
	got := timetagToTime(timeToTimetag(now))
	assert.WithinDuration(t, now, got, time.Nanosecond)
}

func TestTimetag_Binary(t *testing.T) {
	tt := Timetag(0x0102030405060708)
	data, err := tt.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data)

	var got Timetag
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, tt, got)

	err = got.UnmarshalBinary(data[:7])
	assert.True(t, errors.Is(err, ErrInvalidLength), "got %v", err)
}
