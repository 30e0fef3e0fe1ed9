package wire

import (
	"math"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 20, 1<<32 - 1, math.MaxUint64}
	for _, v := range values {
		buf := AppendVarint(nil, v)
		if got := VarintSize(v); got != len(buf) {
			t.Errorf("VarintSize(%d) = %d, want %d", v, got, len(buf))
		}
		n, got, err := ReadVarint(buf, 64)
		if err != nil {
			t.Fatalf("ReadVarint(%d): %v", v, err)
		}
		if n != len(buf) || got != v {
			t.Errorf("ReadVarint round trip for %d: n=%d got=%d", v, n, got)
		}
	}
}

func TestVarintBoundarySizes(t *testing.T) {
	cases := []struct {
		v    uint64
		size int
	}{
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
	}
	for _, c := range cases {
		if got := VarintSize(c.v); got != c.size {
			t.Errorf("VarintSize(%d) = %d, want %d", c.v, got, c.size)
		}
	}
}

func TestVarintPartialBuffer(t *testing.T) {
	buf := AppendVarint(nil, 1<<20)
	for i := 0; i < len(buf); i++ {
		n, _, err := ReadVarint(buf[:i], 64)
		if err != nil {
			t.Fatalf("unexpected error on partial buffer: %v", err)
		}
		if n != 0 {
			t.Errorf("ReadVarint on %d/%d bytes consumed %d, want 0", i, len(buf), n)
		}
	}
}

func TestVarintOverflow(t *testing.T) {
	// Four continuation bytes and a final 0x10 encode 0x10FFFFFFF, which
	// overflows a 32-bit target.
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0x0f + 1}
	if _, _, err := ReadVarintU32(buf); err == nil {
		t.Fatal("expected overflow error for oversized 32-bit varint")
	}
}

func TestZigzagRoundTrip32(t *testing.T) {
	values := []int32{0, 1, -1, 2, -2, math.MaxInt32, math.MinInt32, 600, -600}
	for _, v := range values {
		u := ZigzagEncode32(v)
		if got := ZigzagDecode32(u); got != v {
			t.Errorf("zigzag round trip for %d: got %d", v, got)
		}
	}
}

func TestZigzagSmallMagnitudeIsSmall(t *testing.T) {
	// The whole point of zigzag is that -1 and 1 both cost one byte.
	if SignedVarintSize(1) != 1 || SignedVarintSize(-1) != 1 {
		t.Error("zigzag should map +-1 to a one-byte varint")
	}
	if SignedVarintSize(0) != 1 {
		t.Error("zigzag should map 0 to a one-byte varint")
	}
}

func TestSignedVarintRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 600, -600, 400, -400, 20, 30} {
		buf := WriteSignedVarint(nil, v)
		if got := SignedVarintSize(v); got != len(buf) {
			t.Errorf("SignedVarintSize(%d) = %d, want %d", v, got, len(buf))
		}
		n, got, err := ReadSignedVarint(buf)
		if err != nil || n != len(buf) || got != v {
			t.Errorf("ReadSignedVarint round trip for %d: n=%d got=%d err=%v", v, n, got, err)
		}
	}
}

func TestScenarioS1Varints(t *testing.T) {
	// The S1 circle centre bytes: A8 09 is the varint of 1192 = zz(596),
	// FA 05 is the varint of 762 = zz(381).
	x := WriteSignedVarint(nil, 596)
	if want := []byte{0xA8, 0x09}; !bytesEqual(x, want) {
		t.Errorf("zz(596) = % x, want % x", x, want)
	}
	y := WriteSignedVarint(nil, 381)
	if want := []byte{0xFA, 0x05}; !bytesEqual(y, want) {
		t.Errorf("zz(381) = % x, want % x", y, want)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
