package vm

// instructions_stack_memory.go implements stack manipulation and
// memory/storage opcodes. Memory has already been expanded to
// cover each opcode's declared access window by the time execute runs
// (Program.step applies the operation's memorySize before dispatch).

func opPop(p *Program) error {
	p.Stack.Pop()
	return nil
}

func opMload(p *Program) error {
	offset := p.Stack.Pop()
	val := WordFromBytes(p.Memory.GetPtr(offset.Uint64(), 32))
	return p.Stack.Push(val)
}

func opMstore(p *Program) error {
	offset, val := p.Stack.Pop(), p.Stack.Pop()
	p.Memory.Set32(offset.Uint64(), val)
	return nil
}

func opMstore8(p *Program) error {
	offset, val := p.Stack.Pop(), p.Stack.Pop()
	b := val.Bytes32()
	p.Memory.Set(offset.Uint64(), []byte{b[31]})
	return nil
}

func opSload(p *Program) error {
	key := p.Stack.Pop()
	val := p.repo().GetStorage(p.owner(), key)
	return p.Stack.Push(val)
}

// opSstore implements storage writes and refund scheduling: zero ->
// non-zero costs SstoreSet, non-zero -> zero costs nothing but
// schedules SstoreRefund to the frame's refund counter, and every other
// transition -- non-zero -> a different non-zero, or a rewrite of the
// value already stored (including zero -> zero) -- costs SstoreReset.
// A same-value rewrite is not charged the new-slot rate: it touches no
// slot that wasn't already in its target state.
func opSstore(p *Program) error {
	if err := p.requireNotStatic(); err != nil {
		return err
	}
	key, val := p.Stack.Pop(), p.Stack.Pop()
	current := p.repo().GetStorage(p.owner(), key)

	var cost uint64
	switch {
	case current.IsZero() && !val.IsZero():
		cost = p.gasTable().SstoreSet
	case !current.IsZero() && val.IsZero():
		cost = 0
		p.refund(p.gasTable().SstoreRefund)
	default:
		cost = p.gasTable().SstoreReset
	}
	if err := p.spendGas(cost); err != nil {
		return err
	}
	p.repo().SetStorage(p.owner(), key, val)
	return nil
}

func opJumpdest(p *Program) error {
	return nil
}

// makePush returns an executionFunc for PUSHn: it reads the next n
// bytes following the opcode as a zero-extended immediate, pushes it,
// and advances PC past the immediate itself.
func makePush(n int) executionFunc {
	return func(p *Program) error {
		start := p.PC + 1
		end := start + uint64(n)
		var buf [32]byte
		if n > 0 {
			codeLen := uint64(len(p.Code))
			lo, hi := start, end
			if lo > codeLen {
				lo = codeLen
			}
			if hi > codeLen {
				hi = codeLen
			}
			copy(buf[32-n:32-n+int(hi-lo)], p.Code[lo:hi])
		}
		if err := p.Stack.Push(WordFromBytes(buf[:])); err != nil {
			return err
		}
		p.PC = end
		return nil
	}
}

// makeDup returns an executionFunc for DUPn: duplicate the element n
// positions below the top (1-indexed) and push the copy.
func makeDup(n int) executionFunc {
	return func(p *Program) error {
		return p.Stack.Dup(n)
	}
}

// makeSwap returns an executionFunc for SWAPn: swap the top with the
// element n positions below it.
func makeSwap(n int) executionFunc {
	return func(p *Program) error {
		p.Stack.Swap(n)
		return nil
	}
}
