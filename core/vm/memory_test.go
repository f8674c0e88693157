package vm

import (
	"bytes"
	"testing"
)

func TestMemorySetGetRoundTrip(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	data := []byte{1, 2, 3, 4}
	m.Set(32, data)
	got := m.Get(32, 4)
	if !bytes.Equal(got, data) {
		t.Fatalf("Get(32, 4) = %v, want %v", got, data)
	}
}

func TestMemorySet32RoundTrip(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	word := WordFromUint64(0xdeadbeef)
	m.Set32(0, word)
	got := WordFromBytes(m.Get(0, 32))
	if got.Cmp(word) != 0 {
		t.Fatalf("Set32/Get round trip = %v, want %v", got, word)
	}
}

func TestMemoryReadUntouchedIsZero(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	got := m.Get(40, 8)
	want := make([]byte, 8)
	if !bytes.Equal(got, want) {
		t.Fatalf("read of untouched memory = %v, want zeros", got)
	}
}

func TestMemoryResizeNeverShrinks(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	m.Resize(32)
	if m.Len() != 64 {
		t.Fatalf("Len after shrink attempt = %d, want 64", m.Len())
	}
}

func TestToWordSizeRounding(t *testing.T) {
	cases := []struct {
		size uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{31, 1},
		{32, 1},
		{33, 2},
		{64, 2},
	}
	for _, c := range cases {
		if got := toWordSize(c.size); got != c.want {
			t.Fatalf("toWordSize(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

// TestMemNeededZeroSize covers a zero-length access: it needs no memory
// at all regardless of offset, including an offset that would otherwise
// overflow.
func TestMemNeededZeroSize(t *testing.T) {
	offset := WordFromUint64(1 << 40)
	size := ZeroWord()
	needed, err := memNeeded(offset, size)
	if err != nil {
		t.Fatalf("memNeeded(_, 0): unexpected error %v", err)
	}
	if needed != 0 {
		t.Fatalf("memNeeded(_, 0) = %d, want 0", needed)
	}
}

func TestMemNeededOrdinary(t *testing.T) {
	offset := WordFromUint64(32)
	size := WordFromUint64(32)
	needed, err := memNeeded(offset, size)
	if err != nil {
		t.Fatalf("memNeeded: unexpected error %v", err)
	}
	if needed != 64 {
		t.Fatalf("memNeeded(32, 32) = %d, want 64", needed)
	}
}

// TestMemNeededOverflow covers offset+size both individually fitting in
// a uint64 but summing past it.
func TestMemNeededOverflow(t *testing.T) {
	offset := WordFromUint64(1)
	size := WordFromUint64(^uint64(0))
	if _, err := memNeeded(offset, size); err != ErrBadOperand {
		t.Fatalf("memNeeded overflow = %v, want ErrBadOperand", err)
	}
}
