package vm

import "math"

// GasCost is the constant gas-cost schedule charged for each opcode.
// It is a per-engine record (not package-level globals) so
// tests can swap schedules without process-wide side effects.
type GasCost struct {
	Step uint64 // default per-step cost for opcodes with no bespoke rule

	Sload   uint64
	Balance uint64

	Sha3     uint64 // SHA3 base cost
	Sha3Word uint64 // SHA3, per 32-byte word of input

	Call   uint64 // CALL, CALLCODE base cost (forwarded gas is separate)
	Create uint64 // CREATE base cost

	LogBase  uint64 // LOG_GAS
	LogTopic uint64 // LOG_TOPIC_GAS, per topic
	LogData  uint64 // LOG_DATA_GAS, per byte

	ExpBase uint64 // EXP_GAS
	ExpByte uint64 // EXP_BYTE_GAS, per byte occupied by the exponent

	SstoreSet    uint64 // SSTORE: zero -> non-zero, or new non-zero
	SstoreReset  uint64 // RESET_SSTORE: non-zero -> non-zero
	SstoreRefund uint64 // REFUND_SSTORE: scheduled when non-zero -> zero

	Memory uint64 // MEMORY_GAS, the linear term of the expansion formula
	Copy   uint64 // COPY_GAS, per word of copy-class opcode data

	Transaction    uint64 // TRANSACTION: base cost charged at play() entry
	TxNoZeroData   uint64 // TX_NO_ZERO_DATA, per non-zero input byte
	TxZeroData     uint64 // TX_ZERO_DATA, per zero input byte
	Jumpdest       uint64
	SelfdestructRefund uint64

	// MemoryExpansionDivisor is the quadratic term's divisor in the
	// expansion formula; 1024 is this engine's own invariant.
	// NewBerlinGasCost sets the historically accurate EVM constant of 512
	// instead; that table applies only when passed as Config.GasTable.
	MemoryExpansionDivisor uint64
}

// DefaultGasCost returns the flat gas schedule this engine charges,
// with the memory-expansion divisor set to 1024.
func DefaultGasCost() *GasCost {
	return &GasCost{
		Step:    1,
		Sload:   50,
		Balance: 20,

		Sha3:     30,
		Sha3Word: 6,

		Call:   40,
		Create: 32000,

		LogBase:  375,
		LogTopic: 375,
		LogData:  8,

		ExpBase: 10,
		ExpByte: 10,

		SstoreSet:    20000,
		SstoreReset:  5000,
		SstoreRefund: 15000,

		Memory: 3,
		Copy:   3,

		Transaction:  21000,
		TxNoZeroData: 68,
		TxZeroData:   4,
		Jumpdest:     1,

		MemoryExpansionDivisor: 1024,
	}
}

// NewBerlinGasCost returns a gas schedule matching the real, post-Berlin
// EVM constants: a 512 memory
// expansion divisor and EIP-2929 cold/warm access pricing for
// SLOAD/BALANCE/CALL. It is never the default -- this engine's flat
// model is -- and ForkRules.Berlin does not select it; it applies only
// when passed as Config.GasTable.
func NewBerlinGasCost() *GasCost {
	c := DefaultGasCost()
	c.Sload = ColdSloadCost
	c.Balance = ColdAccountAccessCost
	c.Call = ColdAccountAccessCost
	c.MemoryExpansionDivisor = 512
	return c
}

// Berlin-era cold/warm access costs (EIP-2929). Only used when
// GasCost.Sload/.Balance/.Call
// are set from NewBerlinGasCost and the access-list tracker
// (access_list.go) is active.
const (
	ColdAccountAccessCost = 2600
	WarmStorageReadCost   = 100
	ColdSloadCost         = 2100
)

// safeAdd adds a and b, saturating at math.MaxUint64 instead of
// wrapping. By design, every dynamic-gas
// computation uses saturating arithmetic so an overflow always reads as
// "more gas than exists" and therefore always yields out-of-gas rather
// than wrapping to a small, exploitable value.
func safeAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

// safeMul multiplies a and b, saturating at math.MaxUint64 instead of
// wrapping.
func safeMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/a != b {
		return math.MaxUint64
	}
	return p
}

// memoryGasCost computes the quadratic memory expansion charge for
// growing from oldWords to newWords, using the
// engine's configured MemoryExpansionDivisor.
func (c *GasCost) memoryGasCost(oldWords, newWords uint64) uint64 {
	if newWords <= oldWords {
		return 0
	}
	linear := safeMul(c.Memory, newWords-oldWords)
	quadOld := safeMul(oldWords, oldWords) / c.MemoryExpansionDivisor
	quadNew := safeMul(newWords, newWords) / c.MemoryExpansionDivisor
	quad := uint64(0)
	if quadNew > quadOld {
		quad = quadNew - quadOld
	}
	return safeAdd(linear, quad)
}

// expByteCount returns the number of bytes needed to represent exponent
// (its minimal big-endian encoding length), used by EXP's dynamic gas.
func expByteCount(exponent DataWord) uint64 {
	b := exponent.Bytes32()
	n := 32
	for n > 0 && b[32-n] == 0 {
		n--
	}
	return uint64(n)
}
