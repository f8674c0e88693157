package vm

import (
	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/log"
)

// Program is the mutable execution state for one call frame: the
// contract's code, program counter, stack, memory, gas counter, and the
// in-progress ProgramResult, plus the opcode service routines (memory
// I/O, storage I/O, jump validation, sub-call dispatch, gas spending)
// every instruction function is built on. A Program is created per call
// and destroyed when the call returns or halts.
type Program struct {
	Code []byte
	PC   uint64

	Stack  *Stack
	Memory *Memory

	Gas      uint64
	PrevOp   OpCode
	Steps    uint64
	Stopped  bool

	Invoke *ProgramInvoke
	Result *ProgramResult

	jumpdests map[uint64]bool

	vm *VM // back-reference: service routines dispatch sub-calls through it
}

// NewProgram creates a fresh Program for one call frame.
func NewProgram(vm *VM, code []byte, invoke *ProgramInvoke) *Program {
	return &Program{
		Code:      code,
		Stack:     NewStack(),
		Memory:    NewMemory(),
		Gas:       invoke.GasAvail,
		Invoke:    invoke,
		Result:    NewProgramResult(),
		jumpdests: analyzeJumpdests(code),
		vm:        vm,
	}
}

// analyzeJumpdests precomputes which byte positions hold a JUMPDEST that
// is not inside a push-immediate, so jump validation is O(1).
func analyzeJumpdests(code []byte) map[uint64]bool {
	dests := make(map[uint64]bool)
	for i := 0; i < len(code); {
		op := OpCode(code[i])
		if op == JUMPDEST {
			dests[uint64(i)] = true
			i++
			continue
		}
		if op.IsPush() {
			i += 1 + op.PushSize()
			continue
		}
		i++
	}
	return dests
}

// ValidJumpdest reports whether pos names a JUMPDEST not lying inside a
// push-immediate.
func (p *Program) ValidJumpdest(pos uint64) bool {
	return p.jumpdests[pos]
}

// logger returns the program's logger, or a module-scoped default if the
// VM wasn't configured with one.
func (p *Program) logger() *log.Logger {
	if p.vm != nil && p.vm.Logger != nil {
		return p.vm.Logger
	}
	return log.Default().Module("vm")
}

func (p *Program) gasTable() *GasCost {
	return p.vm.Config.GasTable
}

func (p *Program) forkRules() ForkRules {
	return p.vm.Config.ForkRules
}

// spendGas deducts amount from the gas counter. If doing so would go
// negative, it raises ErrOutOfGas.
func (p *Program) spendGas(amount uint64) error {
	if p.Gas < amount {
		return ErrOutOfGas
	}
	p.Gas -= amount
	return nil
}

// refund schedules amount of gas to the frame's refund counter, e.g.
// SSTORE clearing a previously non-zero slot.
func (p *Program) refund(amount uint64) {
	p.Result.RefundGas = safeAdd(p.Result.RefundGas, amount)
}

// expandMemory grows Memory to cover neededBytes, charging the quadratic
// expansion cost first and only mutating Memory once the charge
// succeeds.
func (p *Program) expandMemory(neededBytes uint64) error {
	if neededBytes == 0 {
		return nil
	}
	oldWords := p.Memory.Words()
	newWords := toWordSize(neededBytes)
	if newWords <= oldWords {
		return nil
	}
	cost := p.gasTable().memoryGasCost(oldWords, newWords)
	if err := p.spendGas(cost); err != nil {
		return err
	}
	p.Memory.Resize(newWords * 32)
	return nil
}

// requireMemory pops no stack values; Program.step calls it with the
// (offset, size) pair an operation's memorySizeFunc declares, turning it
// into a validated expansion.
func (p *Program) requireMemory(offset, size DataWord) error {
	needed, err := memNeeded(offset, size)
	if err != nil {
		return err
	}
	return p.expandMemory(needed)
}

// owner, origin, caller, codeAddr are small accessors used throughout
// the instructions_*.go files to keep opcode bodies terse.
func (p *Program) owner() types.Address    { return p.Invoke.Owner }
func (p *Program) caller() types.Address   { return p.Invoke.Caller }
func (p *Program) origin() types.Address   { return p.Invoke.Origin }
func (p *Program) codeAddr() types.Address { return p.Invoke.CodeAddr }

func (p *Program) repo() Repository { return p.vm.Repo }

// requireNotStatic raises ErrWriteProtection if this frame (or an
// ancestor) is a STATICCALL frame. Every state-modifying opcode calls
// this before touching storage, logs, or account state.
func (p *Program) requireNotStatic() error {
	if p.Invoke.Static {
		return ErrWriteProtection
	}
	return nil
}
