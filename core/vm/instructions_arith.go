package vm

// instructions_arith.go implements the arithmetic, comparison, and
// bitwise opcode family: all arithmetic wraps modulo 2^256;
// comparisons push a full 256-bit 0/1 word.

func opAdd(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Add(b))
}

func opMul(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Mul(b))
}

func opSub(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Sub(b))
}

func opDiv(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Div(b))
}

func opSdiv(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.SDiv(b))
}

func opMod(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Mod(b))
}

func opSmod(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.SMod(b))
}

func opAddmod(p *Program) error {
	a, b, m := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.AddMod(b, m))
}

func opMulmod(p *Program) error {
	a, b, m := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.MulMod(b, m))
}

func opExp(p *Program) error {
	base, exponent := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(base.Exp(exponent))
}

func opSignExtend(p *Program) error {
	k, x := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(x.SignExtend(k))
}

func opLt(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Lt(b))
}

func opGt(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Gt(b))
}

func opSlt(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Slt(b))
}

func opSgt(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Sgt(b))
}

func opEq(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Eq(b))
}

func opIsZero(p *Program) error {
	a := p.Stack.Pop()
	return p.Stack.Push(a.IsZeroWord())
}

func opAnd(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.And(b))
}

func opOr(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Or(b))
}

func opXor(p *Program) error {
	a, b := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(a.Xor(b))
}

func opNot(p *Program) error {
	a := p.Stack.Pop()
	return p.Stack.Push(a.Not())
}

func opByteOp(p *Program) error {
	i, x := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(x.Byte(i))
}

func opShl(p *Program) error {
	shift, x := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(x.Lsh(shift))
}

func opShr(p *Program) error {
	shift, x := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(x.Rsh(shift))
}

func opSar(p *Program) error {
	shift, x := p.Stack.Pop(), p.Stack.Pop()
	return p.Stack.Push(x.SRsh(shift))
}

func opSha3(p *Program) error {
	offset, size := p.Stack.Pop(), p.Stack.Pop()
	var data []byte
	if !size.IsZero() {
		data = p.Memory.GetPtr(offset.Uint64(), size.Uint64())
	}
	hash := keccak256(data)
	return p.Stack.Push(WordFromBytes(hash))
}
