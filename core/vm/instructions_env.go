package vm

// instructions_env.go implements the environment and block opcodes:
// they read from ProgramInvoke or Program state and never raise
// except via the generic memory-expansion pricing already applied
// before execute runs. CALLDATALOAD zero-pads past input's end; code
// copy opcodes zero-pad when the source range exceeds code length.

func opAddress(p *Program) error {
	return p.Stack.Push(WordFromAddress(p.owner()))
}

func opBalance(p *Program) error {
	addr := p.Stack.Pop().Address()
	return p.Stack.Push(p.repo().GetBalance(addr))
}

func opOrigin(p *Program) error {
	return p.Stack.Push(WordFromAddress(p.origin()))
}

func opCaller(p *Program) error {
	return p.Stack.Push(WordFromAddress(p.caller()))
}

func opCallValue(p *Program) error {
	return p.Stack.Push(p.Invoke.CallValue)
}

func opCalldataLoad(p *Program) error {
	offset := p.Stack.Pop()
	return p.Stack.Push(WordFromBytes(paddedSlice(p.Invoke.Input, offset, 32)))
}

func opCalldataSize(p *Program) error {
	return p.Stack.Push(WordFromUint64(uint64(len(p.Invoke.Input))))
}

func opCalldataCopy(p *Program) error {
	destOff, srcOff, size := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	data := paddedSlice(p.Invoke.Input, srcOff, int(size.Uint64()))
	p.Memory.Set(destOff.Uint64(), data)
	return nil
}

func opCodeSize(p *Program) error {
	return p.Stack.Push(WordFromUint64(uint64(len(p.Code))))
}

func opCodeCopy(p *Program) error {
	destOff, srcOff, size := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	data := paddedSlice(p.Code, srcOff, int(size.Uint64()))
	p.Memory.Set(destOff.Uint64(), data)
	return nil
}

func opGasPrice(p *Program) error {
	return p.Stack.Push(p.Invoke.GasPrice)
}

func opExtCodeSize(p *Program) error {
	addr := p.Stack.Pop().Address()
	return p.Stack.Push(WordFromUint64(uint64(len(p.repo().GetCode(addr)))))
}

func opExtCodeCopy(p *Program) error {
	addr := p.Stack.Pop().Address()
	destOff, srcOff, size := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	code := p.repo().GetCode(addr)
	data := paddedSlice(code, srcOff, int(size.Uint64()))
	p.Memory.Set(destOff.Uint64(), data)
	return nil
}

func opExtCodeHash(p *Program) error {
	addr := p.Stack.Pop().Address()
	if !p.repo().Exists(addr) {
		return p.Stack.Push(ZeroWord())
	}
	return p.Stack.Push(WordFromBytes(p.repo().GetCodeHash(addr).Bytes()))
}

func opReturndataSize(p *Program) error {
	return p.Stack.Push(WordFromUint64(uint64(len(p.Result.ReturnData))))
}

func opReturndataCopy(p *Program) error {
	destOff, srcOff, size := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	if !srcOff.IsUint64() || !size.IsUint64() {
		return ErrBadOperand
	}
	so, sz := srcOff.Uint64(), size.Uint64()
	if so+sz > uint64(len(p.Result.ReturnData)) || so+sz < so {
		return ErrBadOperand
	}
	p.Memory.Set(destOff.Uint64(), p.Result.ReturnData[so:so+sz])
	return nil
}

func opBlockhash(p *Program) error {
	n := p.Stack.Pop()
	if !n.IsUint64() || p.Invoke.Block.GetHash == nil {
		return p.Stack.Push(ZeroWord())
	}
	h := p.Invoke.Block.GetHash(n.Uint64())
	return p.Stack.Push(WordFromBytes(h.Bytes()))
}

func opCoinbase(p *Program) error {
	return p.Stack.Push(WordFromAddress(p.Invoke.Block.Coinbase))
}

func opTimestamp(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.Invoke.Block.Timestamp))
}

func opNumber(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.Invoke.Block.Number))
}

func opDifficulty(p *Program) error {
	return p.Stack.Push(p.Invoke.Block.Difficulty)
}

func opGasLimit(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.Invoke.Block.GasLimit))
}

func opChainID(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.Invoke.Block.ChainID))
}

func opPc(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.PC))
}

func opMsize(p *Program) error {
	return p.Stack.Push(WordFromUint64(uint64(p.Memory.Len())))
}

func opGas(p *Program) error {
	return p.Stack.Push(WordFromUint64(p.Gas))
}

// paddedSlice reads n bytes from src starting at a possibly-out-of-range
// offset, zero-padding wherever the window falls outside src -- the
// shared behavior CALLDATALOAD/CALLDATACOPY/CODECOPY/EXTCODECOPY all
// need.
func paddedSlice(src []byte, offset DataWord, n int) []byte {
	out := make([]byte, n)
	if !offset.IsUint64() {
		return out
	}
	off := offset.Uint64()
	if off >= uint64(len(src)) {
		return out
	}
	avail := uint64(len(src)) - off
	if avail > uint64(n) {
		avail = uint64(n)
	}
	copy(out, src[off:off+avail])
	return out
}
