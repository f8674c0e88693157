package vm

import "github.com/ethlab/pvm/core/types"

// CallKind distinguishes how a child Program was invoked, generalizing
// the classic MessageCall kind enum (CALL / STATELESS-for-CALLCODE) to the
// full family this engine supports.
type CallKind uint8

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

// ProgramInvoke is the immutable per-call environment a Program executes
// against: owner address, origin, caller, call value, input data, gas
// price, gas available, block context, call depth, and the two
// behavioral flags the outer driver inspects.
type ProgramInvoke struct {
	// Owner is the address whose storage this frame reads/writes --
	// the executing contract's own address (differs from CodeAddr under
	// DELEGATECALL/CALLCODE, where code runs borrowed but storage stays
	// the owner's).
	Owner types.Address
	// Origin is the externally-owned account that signed the top-level
	// transaction; unchanged across every nested frame.
	Origin types.Address
	// Caller is the immediate caller of this frame.
	Caller types.Address
	// CodeAddr is the address the executing code was loaded from
	// (differs from Owner under CALLCODE/DELEGATECALL).
	CodeAddr types.Address

	CallValue DataWord
	Input     []byte

	// Code, when non-nil, is the exact bytecode RunCall should execute
	// instead of looking CodeAddr up in the repository -- CREATE/CREATE2
	// need this since the init code being run has no account to read
	// from yet.
	Code []byte

	GasPrice DataWord
	GasAvail uint64

	Block BlockContext

	Depth int
	Kind  CallKind

	// ByTransaction is true only for the top-level entry from the
	// transaction processor; it gates the intrinsic-gas charge in play().
	ByTransaction bool
	// ByTestingSuite, if true, makes play() return immediately after
	// any intrinsic-gas charge, for conformance tests that pre-seed
	// state and only want to exercise a single step externally.
	ByTestingSuite bool

	// Static is true inside a STATICCALL frame (or any of its
	// descendants): state-modifying opcodes raise ErrWriteProtection.
	Static bool
}
