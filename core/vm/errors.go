package vm

import "errors"

// The six uniformly-fatal exceptional halts. When step returns one of
// these, play burns all of the frame's remaining gas and sets its stopped
// flag. The frame's repository writes are discarded by whoever took a
// snapshot before it: CallHandler or CreateExecutor for a child frame,
// the caller of RunCall for the top-level frame.
var (
	ErrOutOfGas       = errors.New("vm: out of gas")
	ErrInvalidOpcode  = errors.New("vm: invalid instruction")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrStackOverflow  = errors.New("vm: stack limit reached")
	ErrInvalidJump    = errors.New("vm: invalid jump destination")
	ErrBadOperand     = errors.New("vm: instruction operand out of range")
)

// ErrWriteProtection is raised when a state-modifying opcode (SSTORE, LOGn,
// CREATE, CREATE2, SELFDESTRUCT) executes inside a STATICCALL frame. It is
// not one of the six core exceptional halts but is classified the same
// way by the outer driver: the frame is aborted and nothing merges.
var ErrWriteProtection = errors.New("vm: write protection")

// ErrDepth reports that a CALL/CALLCODE/DELEGATECALL/STATICCALL/CREATE
// would exceed the maximum call depth. Unlike the exceptional halts
// above, this never aborts the frame: CallHandler and CreateExecutor
// log it and push an ordinary stack failure (zero/false), the same way
// a real EVM treats depth and balance failures as a child call's
// business, not the caller's.
var ErrDepth = errors.New("vm: max call depth exceeded")

// ErrInsufficientBalance reports that a CALL or CREATE attempted to
// transfer more value than the calling account holds. Logged and
// swallowed into an ordinary stack failure, as with ErrDepth.
var ErrInsufficientBalance = errors.New("vm: insufficient balance for transfer")

// ErrExecutionReverted is the "normal but unsuccessful" halt produced by
// REVERT. Unlike the six exceptional halts it is not fatal in the sense
// of burning all gas: unspent gas is still returned to the caller, only
// state changes are discarded.
var ErrExecutionReverted = errors.New("vm: execution reverted")

// ErrCodeTooLarge reports that CREATE/CREATE2 deployment code exceeds
// the maximum contract code size. Logged and swallowed into an ordinary
// stack failure by CreateExecutor, as with ErrDepth.
var ErrCodeTooLarge = errors.New("vm: contract code too large")

// ErrContractAddressCollision reports that CREATE/CREATE2 would deploy
// to an address that already holds code or a non-zero nonce. Logged and
// swallowed into an ordinary stack failure by CreateExecutor, as with
// ErrDepth.
var ErrContractAddressCollision = errors.New("vm: contract address collision")

// isExceptionalHalt reports whether err is one of the six fatal kinds (or
// write protection, which the outer driver treats identically).
func isExceptionalHalt(err error) bool {
	switch {
	case errors.Is(err, ErrOutOfGas),
		errors.Is(err, ErrInvalidOpcode),
		errors.Is(err, ErrStackUnderflow),
		errors.Is(err, ErrStackOverflow),
		errors.Is(err, ErrInvalidJump),
		errors.Is(err, ErrBadOperand),
		errors.Is(err, ErrWriteProtection):
		return true
	default:
		return false
	}
}
