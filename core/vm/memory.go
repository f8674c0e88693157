package vm

// Memory is the program's byte-addressable, word-rounded, zero-filled
// volatile buffer. It grows only through Resize: Program.expandMemory
// raises the tracked length to the word-rounded end of each access before
// the opcode runs, and the accessors below require their range to lie
// within the current length.
type Memory struct {
	store []byte
}

// NewMemory returns a new, empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current tracked length in bytes (always a multiple of 32).
func (m *Memory) Len() int {
	return len(m.store)
}

// Words returns the current tracked length in 32-byte words.
func (m *Memory) Words() uint64 {
	return uint64(len(m.store)) / 32
}

// Resize grows memory to size bytes, which must already be rounded up to
// a word boundary by the caller (Program.expandMemory computes the
// rounded size before calling Resize). Resize never shrinks: memory
// monotonicity is a core invariant.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	grown := make([]byte, size)
	copy(grown, m.store)
	m.store = grown
}

// Set writes value into memory at [offset, offset+len(value)). The
// caller must have already grown memory to cover this range.
func (m *Memory) Set(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	copy(m.store[offset:offset+uint64(len(value))], value)
}

// Set32 writes a 32-byte big-endian word at offset. The caller must have
// already grown memory to cover this range.
func (m *Memory) Set32(offset uint64, val DataWord) {
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Get returns a fresh copy of memory contents at [offset, offset+size).
// Bytes past the tracked length are not accessible here: callers must
// grow memory (via the gas-charged expansion path) before reading, so
// any in-range read always observes real, zero-initialised bytes.
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a direct slice reference into memory at
// [offset, offset+size), without copying.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

// toWordSize returns the number of 32-byte words needed to hold size
// bytes (size rounded up to a word, divided by 32), saturating rather
// than overflowing on pathological inputs.
func toWordSize(size uint64) uint64 {
	if size > (1<<64-1)-31 {
		return (1<<64 - 1) / 32
	}
	return (size + 31) / 32
}

// memNeeded returns the byte offset memory must be grown to cover an
// access of size bytes starting at offset, or 0 if size is zero (a
// zero-length access touches no memory, per spec).
func memNeeded(offset, size DataWord) (uint64, error) {
	if size.IsZero() {
		return 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, ErrBadOperand
	}
	off, sz := offset.Uint64(), size.Uint64()
	sum := off + sz
	if sum < off || sum < sz {
		return 0, ErrBadOperand
	}
	return sum, nil
}
