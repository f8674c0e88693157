package vm

import (
	"github.com/holiman/uint256"

	"github.com/ethlab/pvm/core/types"
)

// DataWord is the machine's only arithmetic type: a 256-bit word with
// modular wrap-around arithmetic. It is a named wrapper over
// uint256.Int rather than math/big.Int, trading arbitrary precision
// (which this machine never needs) for allocation-free, fixed-width
// operations.
type DataWord uint256.Int

// inner returns the *uint256.Int backing w. Every method on DataWord
// goes through this so the wrapper stays a thin name, not a reimplementation.
func (w *DataWord) inner() *uint256.Int { return (*uint256.Int)(w) }

// ZeroWord is the additive identity.
func ZeroWord() DataWord { return DataWord{} }

// OneWord is the multiplicative identity.
func OneWord() DataWord {
	var w DataWord
	w.inner().SetOne()
	return w
}

// WordFromUint64 constructs a DataWord from a small unsigned integer.
func WordFromUint64(v uint64) DataWord {
	var w DataWord
	w.inner().SetUint64(v)
	return w
}

// WordFromBytes constructs a DataWord by interpreting b as a big-endian
// unsigned integer, truncating to the low 32 bytes if b is longer.
func WordFromBytes(b []byte) DataWord {
	var w DataWord
	w.inner().SetBytes(b)
	return w
}

// WordFromAddress left-pads a 20-byte address into a 256-bit word.
func WordFromAddress(a types.Address) DataWord {
	return WordFromBytes(a.Bytes())
}

// Bytes32 returns the word's full 32-byte big-endian data view.
func (w DataWord) Bytes32() [32]byte {
	u := w.inner()
	return u.Bytes32()
}

// Bytes returns the word's big-endian data view with leading zero bytes
// stripped (the minimal encoding), matching uint256's Bytes().
func (w DataWord) Bytes() []byte {
	u := w.inner()
	return u.Bytes()
}

// Address returns the word's 20-byte suffix (address view): the low 20
// bytes of the 32-byte representation.
func (w DataWord) Address() types.Address {
	b := w.Bytes32()
	return types.BytesToAddress(b[12:])
}

// Uint64 returns the word truncated to the low 64 bits (unsigned
// numeric view for small values such as offsets and lengths).
func (w DataWord) Uint64() uint64 { return w.inner().Uint64() }

// IsUint64 reports whether w fits in 64 bits without truncation -- the
// boundary check callers must perform before trusting Uint64 as an
// offset or length (spec: "bad instruction operand" on overflow).
func (w DataWord) IsUint64() bool { return w.inner().IsUint64() }

// IsZero reports whether w is the zero word.
func (w DataWord) IsZero() bool { return w.inner().IsZero() }

// Sign returns -1, 0, or 1 for w interpreted as a signed two's-complement
// 256-bit integer.
func (w DataWord) Sign() int { return w.inner().Sign() }

// Cmp compares w and x as unsigned 256-bit integers.
func (w DataWord) Cmp(x DataWord) int { return w.inner().Cmp(x.inner()) }

// unary/binary helpers all follow the same shape: copy w into a fresh
// uint256.Int, call the corresponding uint256 method, and return the
// wrapped result. This keeps DataWord's arithmetic value-semantic (the
// spec's design note: an implementation using value semantics should
// copy on every op so DUP shares no aliasing with the original stack
// slot).

func binOp(w, x DataWord, f func(z, a, b *uint256.Int) *uint256.Int) DataWord {
	var z DataWord
	f(z.inner(), w.inner(), x.inner())
	return z
}

// Add returns w+x mod 2^256.
func (w DataWord) Add(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Add) }

// Sub returns w-x mod 2^256.
func (w DataWord) Sub(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Sub) }

// Mul returns w*x mod 2^256.
func (w DataWord) Mul(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Mul) }

// Div returns unsigned w/x, or zero if x is zero.
func (w DataWord) Div(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Div) }

// SDiv returns signed w/x (two's-complement), or zero if x is zero.
// SDIV(INT_MIN, -1) wraps back to INT_MIN rather than overflowing.
func (w DataWord) SDiv(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).SDiv) }

// Mod returns unsigned w%x, or zero if x is zero.
func (w DataWord) Mod(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Mod) }

// SMod returns signed w%x (two's-complement), or zero if x is zero.
func (w DataWord) SMod(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).SMod) }

// And returns the bitwise AND of w and x.
func (w DataWord) And(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).And) }

// Or returns the bitwise OR of w and x.
func (w DataWord) Or(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Or) }

// Xor returns the bitwise XOR of w and x.
func (w DataWord) Xor(x DataWord) DataWord { return binOp(w, x, (*uint256.Int).Xor) }

// Not returns the bitwise complement of w.
func (w DataWord) Not() DataWord {
	var z DataWord
	z.inner().Not(w.inner())
	return z
}

// Lsh returns w shifted left by n bits (n taken from a DataWord so a
// shift amount >= 256 correctly yields zero).
func (w DataWord) Lsh(n DataWord) DataWord {
	var z DataWord
	if !n.IsUint64() || n.Uint64() >= 256 {
		return ZeroWord()
	}
	z.inner().Lsh(w.inner(), uint(n.Uint64()))
	return z
}

// Rsh returns w shifted right by n bits, logical (zero-filling).
func (w DataWord) Rsh(n DataWord) DataWord {
	var z DataWord
	if !n.IsUint64() || n.Uint64() >= 256 {
		return ZeroWord()
	}
	z.inner().Rsh(w.inner(), uint(n.Uint64()))
	return z
}

// SRsh returns w shifted right by n bits, arithmetic (sign-filling): a
// shift of 256 or more yields all-zero bits for a non-negative w, or
// all-one bits (-1) for a negative w.
func (w DataWord) SRsh(n DataWord) DataWord {
	if !n.IsUint64() || n.Uint64() >= 256 {
		if w.Sign() < 0 {
			return OneWord().Not() // all-ones: -1
		}
		return ZeroWord()
	}
	var z DataWord
	z.inner().SRsh(w.inner(), uint(n.Uint64()))
	return z
}

// AddMod returns (w+x) mod m, with intermediate precision beyond 256
// bits (per uint256.AddMod), or zero if m is zero.
func (w DataWord) AddMod(x, m DataWord) DataWord {
	var z DataWord
	z.inner().AddMod(w.inner(), x.inner(), m.inner())
	return z
}

// MulMod returns (w*x) mod m, or zero if m is zero.
func (w DataWord) MulMod(x, m DataWord) DataWord {
	var z DataWord
	z.inner().MulMod(w.inner(), x.inner(), m.inner())
	return z
}

// Exp returns w**x mod 2^256.
func (w DataWord) Exp(x DataWord) DataWord {
	var z DataWord
	z.inner().Exp(w.inner(), x.inner())
	return z
}

// Lt returns 1 if w < x (unsigned), else 0.
func (w DataWord) Lt(x DataWord) DataWord { return boolWord(w.inner().Lt(x.inner())) }

// Gt returns 1 if w > x (unsigned), else 0.
func (w DataWord) Gt(x DataWord) DataWord { return boolWord(w.inner().Gt(x.inner())) }

// Slt returns 1 if w < x (signed), else 0.
func (w DataWord) Slt(x DataWord) DataWord { return boolWord(w.inner().Slt(x.inner())) }

// Sgt returns 1 if w > x (signed), else 0.
func (w DataWord) Sgt(x DataWord) DataWord { return boolWord(w.inner().Sgt(x.inner())) }

// Eq returns 1 if w == x, else 0.
func (w DataWord) Eq(x DataWord) DataWord { return boolWord(w.inner().Eq(x.inner())) }

// IsZeroWord returns 1 if w is zero, else 0 (the ISZERO opcode's push value).
func (w DataWord) IsZeroWord() DataWord { return boolWord(w.IsZero()) }

func boolWord(b bool) DataWord {
	if b {
		return OneWord()
	}
	return ZeroWord()
}

// Byte returns the i-th most-significant byte of w as a word (0 if i>=32),
// per spec: BYTE(i, x).
func (w DataWord) Byte(i DataWord) DataWord {
	if !i.IsUint64() || i.Uint64() >= 32 {
		return ZeroWord()
	}
	b := w.Bytes32()
	return WordFromUint64(uint64(b[i.Uint64()]))
}

// SignExtend replicates the sign bit at byte k of w across all higher
// bytes. If k >= 32, w is returned unchanged.
func (w DataWord) SignExtend(k DataWord) DataWord {
	if !k.IsUint64() || k.Uint64() >= 32 {
		return w
	}
	var z DataWord
	z.inner().ExtendSign(w.inner(), k.inner())
	return z
}
