package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	bit32Size = 4
	bit64Size = 8
)

////
// De/Encoding functions
////

// The parse functions read one primitive from the start of data and return
// the value and the number of bytes consumed. They return bare error kinds;
// the caller attaches the offset.

func parseUint32(data []byte) (uint32, int, error) {
	if len(data) < bit32Size {
		return 0, 0, ErrTruncatedInput
	}
	return binary.BigEndian.Uint32(data), bit32Size, nil
}

func parseInt32(data []byte) (int32, int, error) {
	u, n, err := parseUint32(data)
	return int32(u), n, err
}

func parseUint64(data []byte) (uint64, int, error) {
	if len(data) < bit64Size {
		return 0, 0, ErrTruncatedInput
	}
	return binary.BigEndian.Uint64(data), bit64Size, nil
}

func parseFloat32(data []byte) (float32, int, error) {
	u, n, err := parseUint32(data)
	return math.Float32frombits(u), n, err
}

func parseFloat64(data []byte) (float64, int, error) {
	u, n, err := parseUint64(data)
	return math.Float64frombits(u), n, err
}

// parsePaddedString reads a padded string from the given slice and returns
// the string and the number of bytes read, padding included.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, ErrTruncatedInput
	}

	n := pos + 1
	n += padBytesNeeded(n)
	if n > len(data) {
		return "", 0, ErrTruncatedInput
	}

	return string(data[:pos]), n, nil
}

// parseBlob parses an OSC blob from data. The returned slice is a copy;
// padding bytes are consumed but not returned.
func parseBlob(data []byte) ([]byte, int, error) {
	blobLen, n, err := parseInt32(data)
	if err != nil {
		return nil, 0, err
	}
	if blobLen < 0 {
		return nil, 0, ErrInvalidLength
	}

	data = data[n:]
	if int(blobLen) > len(data) {
		return nil, 0, ErrTruncatedInput
	}

	n += int(blobLen)
	n += padBytesNeeded(n)
	if n > bit32Size+len(data) {
		return nil, 0, ErrTruncatedInput
	}

	blob := make([]byte, blobLen)
	copy(blob, data)
	return blob, n, nil
}

// appendPaddedString appends str, its NUL terminator and the padding to b.
func appendPaddedString(b []byte, str string) ([]byte, error) {
	if strings.IndexByte(str, 0) != -1 {
		return b, errors.Wrapf(ErrInvalidArgument, "string %q contains a NUL byte", str)
	}

	b = append(b, str...)
	n := len(str) + 1
	return appendPadding(b, n+padBytesNeeded(n)-len(str)), nil
}

// appendBlob appends data as an OSC blob to b. If the length of data isn't
// 32-bit aligned, padding bytes are added.
func appendBlob(b []byte, data []byte) ([]byte, error) {
	if len(data) > math.MaxInt32 {
		return b, errors.Wrapf(ErrInvalidLength, "blob of %d bytes", len(data))
	}

	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return appendPadding(b, padBytesNeeded(len(data))), nil
}

// appendPadding appends n NUL bytes to b.
func appendPadding(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		b = append(b, 0)
	}
	return b
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
