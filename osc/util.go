package osc

import (
	"github.com/valyala/bytebufferpool"
)

////
// Utility and helper functions
////

const (
	// MaxPacketSize is the largest datagram the Server reads.
	MaxPacketSize = 65535

	// MaxNestingDepth bounds how deeply bundles and arrays may nest, both
	// when decoding and when encoding.
	MaxNestingDepth = 32
)

var (
	// encodePool holds scratch space for MarshalBinary.
	encodePool bytebufferpool.Pool
	// readPool holds datagram buffers for the Server.
	readPool bytebufferpool.Pool
)

// marshal runs appendFn on pooled scratch space and returns a copy the caller
// owns.
func marshal(appendFn func([]byte) ([]byte, error)) ([]byte, error) {
	buf := encodePool.Get()
	defer encodePool.Put(buf)

	var err error
	if buf.B, err = appendFn(buf.B[:0]); err != nil {
		return nil, err
	}

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

// getReadBuffer returns a pooled buffer of MaxPacketSize bytes.
func getReadBuffer() *bytebufferpool.ByteBuffer {
	buf := readPool.Get()
	if cap(buf.B) < MaxPacketSize {
		buf.B = make([]byte, MaxPacketSize)
	}
	buf.B = buf.B[:MaxPacketSize]
	return buf
}
