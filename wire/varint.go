// Package wire implements the binary primitives the streaming protocol is
// built from: Protobuf-compatible base-128 varints and zigzag-encoded signed
// varints. Every reader here is partial-buffer aware: it never panics and
// never consumes input on a short read, so a decoder can retry verbatim once
// more bytes have arrived.
package wire

import "github.com/modelingevolution/blazor-blaze-sub001/protoerr"

const (
	maxVarintBytes64 = 10 // ceil(64/7)
	maxVarintBytes32 = 5  // ceil(32/7)
)

// WriteVarint writes the base-128 varint encoding of v into the front of
// dst, which must have at least VarintSize(v) bytes of capacity, and
// returns the number of bytes written. It is the pre-sized counterpart to
// AppendVarint, mirroring encoding/binary.PutUvarint's contract.
func WriteVarint(dst []byte, v uint64) int {
	n := 0
	for v >= 0x80 {
		dst[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	dst[n] = byte(v)
	return n + 1
}

// AppendVarint appends the varint encoding of v to dst, returning the
// extended slice. This is the idiomatic append-style counterpart to
// WriteVarint for callers building up a buffer incrementally.
func AppendVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint32 appends the varint encoding of a uint32.
func AppendVarint32(dst []byte, v uint32) []byte {
	return AppendVarint(dst, uint64(v))
}

// ReadVarint reads a base-128 varint from the front of buf. It returns the
// number of bytes consumed and the decoded value. n == 0 means buf did not
// contain a complete varint; the caller must not advance its cursor and
// should retry once more bytes arrive. A value whose encoding would exceed
// maxBits fails with a *protoerr.ProtocolError of KindOverflow.
func ReadVarint(buf []byte, maxBits int) (n int, value uint64, err error) {
	var shift uint
	maxBytes := maxVarintBytes64
	if maxBits <= 32 {
		maxBytes = maxVarintBytes32
	}
	for i := 0; i < len(buf); i++ {
		if i >= maxBytes {
			return 0, 0, protoerr.New(protoerr.KindOverflow, "varint exceeds %d bits", maxBits)
		}
		b := buf[i]
		chunk := uint64(b & 0x7f)
		if shift >= 64 || (shift == 63 && chunk > 1) {
			return 0, 0, protoerr.New(protoerr.KindOverflow, "varint exceeds %d bits", maxBits)
		}
		value |= chunk << shift
		if b < 0x80 {
			if maxBits < 64 && value > (uint64(1)<<uint(maxBits)-1) {
				// Still a legal varint byte stream but the value does not
				// fit the target width.
				return 0, 0, protoerr.New(protoerr.KindOverflow, "varint value overflows %d bits", maxBits)
			}
			return i + 1, value, nil
		}
		shift += 7
	}
	return 0, 0, nil
}

// ReadVarintU32 reads a varint known to fit in 32 bits.
func ReadVarintU32(buf []byte) (n int, value uint32, err error) {
	n, v, err := ReadVarint(buf, 32)
	if err != nil || n == 0 {
		return n, 0, err
	}
	return n, uint32(v), nil
}

// VarintSize returns the number of bytes WriteVarint/AppendVarint would
// produce for v, without performing the encoding.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// ZigzagEncode32 maps a signed 32-bit value to an unsigned one so that
// small-magnitude values (positive or negative) encode as small varints.
func ZigzagEncode32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// ZigzagDecode32 is the inverse of ZigzagEncode32.
func ZigzagDecode32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// ZigzagEncode64 maps a signed 64-bit value to an unsigned one.
func ZigzagEncode64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// ZigzagDecode64 is the inverse of ZigzagEncode64.
func ZigzagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// WriteSignedVarint appends the zigzag+varint encoding of a signed 32-bit
// value, the composition read/write_signed_varint names in the base spec.
func WriteSignedVarint(dst []byte, v int32) []byte {
	return AppendVarint32(dst, ZigzagEncode32(v))
}

// ReadSignedVarint reads a zigzag-encoded signed 32-bit varint.
func ReadSignedVarint(buf []byte) (n int, value int32, err error) {
	n, u, err := ReadVarintU32(buf)
	if err != nil || n == 0 {
		return n, 0, err
	}
	return n, ZigzagDecode32(u), nil
}

// SignedVarintSize returns the encoded byte length of v under zigzag+varint.
func SignedVarintSize(v int32) int {
	return VarintSize(uint64(ZigzagEncode32(v)))
}
