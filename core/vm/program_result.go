package vm

import "github.com/ethlab/pvm/core/types"

// TraceEntry is one per-step execution trace record, produced when
// Config.VMTrace is enabled.
type TraceEntry struct {
	PC     uint64
	Op     OpCode
	Gas    uint64
	GasCost uint64
	Depth  int
}

// CreatedContract records one child contract a CREATE/CREATE2 in this
// frame deployed, for the result's "set of created child contracts"
type CreatedContract struct {
	Address types.Address
	Invoke  *ProgramInvoke
}

// ProgramResult is the mutable, per-call output a Program accumulates:
// the halt-return byte buffer, ordered logs, scheduled refund gas, the
// set of accounts marked for deletion, the set of created child
// contracts, and an optional runtime failure.
type ProgramResult struct {
	ReturnData []byte

	Logs []types.Log

	RefundGas uint64

	// GasLeft is the frame's remaining gas at halt, set by the outer
	// driver once the step loop stops. A CallHandler or CreateExecutor
	// reads it to know how much of the gas it forwarded to a child frame
	// should flow back to the parent.
	GasLeft uint64

	// Deleted holds every address SELFDESTRUCT marked in this frame
	// (and every descendant frame that merged upward), keyed for O(1)
	// membership tests.
	Deleted map[types.Address]struct{}

	Created []CreatedContract

	// Failure is non-nil when the frame ended on an exceptional halt
	// or a REVERT. Normal halts (STOP, RETURN, SELFDESTRUCT) leave
	// it nil.
	Failure error

	// Reverted is true specifically for REVERT, distinguishing "halted
	// normally but chose not to commit" from the five fatal kinds --
	// both leave state unmerged, but only REVERT returns unspent gas.
	Reverted bool

	Trace []TraceEntry
}

// NewProgramResult returns a zero-valued, ready-to-use ProgramResult.
func NewProgramResult() *ProgramResult {
	return &ProgramResult{Deleted: make(map[types.Address]struct{})}
}

// MergeChild folds a successfully-returned child frame's logs, refunds,
// deleted-account set, and created-contract set into r: selected result
// fragments are merged upward on success. Callers
// must not invoke this for a child that halted exceptionally or
// reverted -- those merge nothing.
func (r *ProgramResult) MergeChild(child *ProgramResult) {
	r.Logs = append(r.Logs, child.Logs...)
	r.RefundGas = safeAdd(r.RefundGas, child.RefundGas)
	for addr := range child.Deleted {
		r.Deleted[addr] = struct{}{}
	}
	r.Created = append(r.Created, child.Created...)
}
