package vm

import "testing"

func TestDivByZero(t *testing.T) {
	a := WordFromUint64(10)
	b := ZeroWord()
	if got := a.Div(b); !got.IsZero() {
		t.Fatalf("10 / 0 = %v, want 0", got)
	}
}

func TestModByZero(t *testing.T) {
	a := WordFromUint64(10)
	b := ZeroWord()
	if got := a.Mod(b); !got.IsZero() {
		t.Fatalf("10 %% 0 = %v, want 0", got)
	}
}

// TestSdivMinIntByNegOne covers the one SDIV case that overflows a
// signed 256-bit division: INT_MIN / -1 wraps back to INT_MIN rather
// than raising, matching EVM's silent wraparound arithmetic.
func TestSdivMinIntByNegOne(t *testing.T) {
	minInt := intMin256()
	negOne := ZeroWord().Not()

	got := minInt.SDiv(negOne)
	if got.Cmp(minInt) != 0 {
		t.Fatalf("INT_MIN / -1 = %v, want INT_MIN (wraparound)", got)
	}
}

func TestExpZeroToZero(t *testing.T) {
	base := ZeroWord()
	exponent := ZeroWord()
	got := base.Exp(exponent)
	if got.Cmp(OneWord()) != 0 {
		t.Fatalf("0 ** 0 = %v, want 1", got)
	}
}

func TestExpZeroToPositive(t *testing.T) {
	base := ZeroWord()
	exponent := WordFromUint64(5)
	got := base.Exp(exponent)
	if !got.IsZero() {
		t.Fatalf("0 ** 5 = %v, want 0", got)
	}
}

// TestSignExtendOutOfRange covers k >= 32: the value must come back
// unchanged.
func TestSignExtendOutOfRange(t *testing.T) {
	x := WordFromUint64(0xff)
	k := WordFromUint64(32)
	got := x.SignExtend(k)
	if got.Cmp(x) != 0 {
		t.Fatalf("SignExtend(k=32) = %v, want unchanged %v", got, x)
	}
}

// TestSignExtendLastValidByte covers k=31, the last byte SIGNEXTEND
// still treats as in-range: byte 31 is already the word's own sign
// byte, so extending at k=31 is a no-op for any value.
func TestSignExtendLastValidByte(t *testing.T) {
	x := ZeroWord().Not() // all-ones, i.e. -1
	k := WordFromUint64(31)
	got := x.SignExtend(k)
	if got.Cmp(x) != 0 {
		t.Fatalf("SignExtend(k=31) = %v, want unchanged %v", got, x)
	}

	y := WordFromUint64(12345)
	got = y.SignExtend(k)
	if got.Cmp(y) != 0 {
		t.Fatalf("SignExtend(k=31) on positive value = %v, want unchanged %v", got, y)
	}
}

func TestSignExtendNegativeByte(t *testing.T) {
	// 0x...ff at byte 0 (k=0), sign bit set: every higher byte becomes
	// 0xff too, i.e. the word reads as -1.
	x := WordFromUint64(0xff)
	k := ZeroWord()
	got := x.SignExtend(k)
	want := ZeroWord().Not()
	if got.Cmp(want) != 0 {
		t.Fatalf("SignExtend(0xff, k=0) = %v, want -1 (%v)", got, want)
	}
}

// intMin256 returns 2**255, the most negative value representable in
// 256-bit two's complement.
func intMin256() DataWord {
	one := OneWord()
	return one.Lsh(WordFromUint64(255))
}
