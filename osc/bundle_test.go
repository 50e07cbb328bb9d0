package osc

import (
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestBundle_MarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = %q, want %q", got, tt.raw)
			}
		})
	}
}

func TestBundle_UnmarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Bundle)
			if err := m.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(m, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", m, tt.obj)
			}
		})
	}
}

func TestBundle_Append(t *testing.T) {
	b := NewBundleWithTime(time.Now())
	require.NoError(t, b.Append(NewMessage("/a")))
	require.NoError(t, b.Append(NewBundle()))
	require.Len(t, b.Elements, 2)

	require.Error(t, b.Append((*Message)(nil)))
	require.Error(t, b.Append((*Bundle)(nil)))
	require.Error(t, b.Append(nil))
	require.Len(t, b.Elements, 2)
}

func TestBundle_String(t *testing.T) {
	require.Equal(t, "#bundle immediate (1 elements)", NewBundle(NewMessage("/a")).String())
	require.Equal(t, "#bundle 1970-01-01T00:00:00.5Z (0 elements)", (&Bundle{Timetag: unixEpoch | 0x80000000}).String())
	require.Equal(t, "", (*Bundle)(nil).String())
}

func TestNewBundleFromData_NotABundle(t *testing.T) {
	_, err := NewBundleFromData([]byte("/test" + nulls(3) + "," + nulls(3)))
	require.True(t, errors.Is(err, ErrMalformedBundleMarker), "got %v", err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 0, pe.Offset)

	_, err = NewBundleFromData([]byte("#bundlX" + nulls(9)))
	require.True(t, errors.Is(err, ErrMalformedBundleMarker), "got %v", err)
}

func TestBundle_MarshalBinaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		bundle *Bundle
		want   error
	}{
		{"nil_element", &Bundle{Elements: []Packet{nil}}, ErrUnsupportedType},
		{"nil_message", &Bundle{Elements: []Packet{(*Message)(nil)}}, ErrUnsupportedType},
		{"bad_message", NewBundle(NewMessage("nope")), ErrInvalidAddress},
		{"too_deep", nestedBundle(MaxNestingDepth + 1), ErrNestingTooDeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.bundle.MarshalBinary()
			require.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestBundle_NestingLimit(t *testing.T) {
	b := nestedBundle(MaxNestingDepth)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	got, err := ParsePacket(data)
	require.NoError(t, err)
	require.Equal(t, b, got)

	// Hand-build one more level around the encoded bundle.
	deeper := []byte("#bundle" + nulls(1) + nulls(7) + "\x01")
	deeper = append(deeper, byte(len(data)>>24), byte(len(data)>>16), byte(len(data)>>8), byte(len(data)))
	deeper = append(deeper, data...)

	_, err = ParsePacket(deeper)
	require.True(t, errors.Is(err, ErrNestingTooDeep), "got %v", err)
	require.True(t, errors.Is(err, ErrTruncatedInput), "nesting errors are truncation class")
}

// nestedBundle returns a message wrapped in depth+1 bundles, so the innermost
// bundle sits depth levels below the outermost.
func nestedBundle(depth int) *Bundle {
	b := NewBundle(NewMessage("/leaf", int32(depth)))
	for i := 0; i < depth; i++ {
		b = NewBundle(b)
	}
	return b
}

func BenchmarkBundleMarshalBinary(b *testing.B) {
	bundle := NewBundle(temp, temp, NewBundle(temp))
	var buf []byte
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf, _ = bundle.MarshalBinary()
	}
	result = buf
}
