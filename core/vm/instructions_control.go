package vm

// instructions_control.go implements control flow: JUMP/JUMPI
// validate their target against the precomputed jumpdest set, STOP/
// RETURN/SELFDESTRUCT halt normally, REVERT halts with state discarded
// but gas returned, and INVALID always raises.

func opJump(p *Program) error {
	dest := p.Stack.Pop()
	if !dest.IsUint64() || !p.ValidJumpdest(dest.Uint64()) {
		return ErrInvalidJump
	}
	p.PC = dest.Uint64()
	return nil
}

func opJumpi(p *Program) error {
	dest, cond := p.Stack.Pop(), p.Stack.Pop()
	if cond.IsZero() {
		p.PC++
		return nil
	}
	if !dest.IsUint64() || !p.ValidJumpdest(dest.Uint64()) {
		return ErrInvalidJump
	}
	p.PC = dest.Uint64()
	return nil
}

func opStop(p *Program) error {
	p.Stopped = true
	return nil
}

func opReturn(p *Program) error {
	offset, size := p.Stack.Pop(), p.Stack.Pop()
	p.Result.ReturnData = p.Memory.Get(offset.Uint64(), size.Uint64())
	p.Stopped = true
	return nil
}

func opRevert(p *Program) error {
	offset, size := p.Stack.Pop(), p.Stack.Pop()
	p.Result.ReturnData = p.Memory.Get(offset.Uint64(), size.Uint64())
	p.Stopped = true
	p.Result.Reverted = true
	return ErrExecutionReverted
}

func opInvalidOp(p *Program) error {
	return ErrInvalidOpcode
}

// opSelfdestruct halts normally, schedules the owner account for
// deletion, and registers the popped address as the transferee of its
// balance.
func opSelfdestruct(p *Program) error {
	if err := p.requireNotStatic(); err != nil {
		return err
	}
	beneficiary := p.Stack.Pop().Address()
	balance := p.repo().Suicide(p.owner())
	p.repo().AddBalance(beneficiary, balance)
	p.Result.Deleted[p.owner()] = struct{}{}
	p.Stopped = true
	return nil
}
