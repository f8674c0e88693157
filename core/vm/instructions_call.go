package vm

// instructions_call.go implements the CALL-family and CREATE-family
// opcodes: each pops its operands, delegates the full
// lifecycle to CallHandler/CreateExecutor, copies returned data into
// memory within the caller-declared window, and pushes a success flag
// (or, for CREATE/CREATE2, the new contract's address).

// copyToMemory writes data into p.Memory at offset, truncating to at
// most maxLen bytes -- the shared behavior every CALL-family opcode's
// return-data window needs.
func copyToMemory(p *Program, offset, maxLen DataWord, data []byte) {
	if maxLen.IsZero() {
		return
	}
	n := maxLen.Uint64()
	if uint64(len(data)) < n {
		n = uint64(len(data))
	}
	p.Memory.Set(offset.Uint64(), data[:n])
}

func opCall(p *Program) error {
	gas := p.Stack.Pop()
	target := p.Stack.Pop().Address()
	value := p.Stack.Pop()
	argsOff, argsSize := p.Stack.Pop(), p.Stack.Pop()
	retOff, retSize := p.Stack.Pop(), p.Stack.Pop()

	if p.Invoke.Static && !value.IsZero() {
		return ErrWriteProtection
	}

	input := p.Memory.GetPtr(argsOff.Uint64(), argsSize.Uint64())
	req := callRequest{
		kind:     CallKindCall,
		target:   target,
		value:    value,
		hasValue: true,
		input:    input,
		gas:      gas.Uint64(),
	}
	return dispatchCall(p, req, retOff, retSize)
}

func opCallCode(p *Program) error {
	gas := p.Stack.Pop()
	target := p.Stack.Pop().Address()
	value := p.Stack.Pop()
	argsOff, argsSize := p.Stack.Pop(), p.Stack.Pop()
	retOff, retSize := p.Stack.Pop(), p.Stack.Pop()

	input := p.Memory.GetPtr(argsOff.Uint64(), argsSize.Uint64())
	req := callRequest{
		kind:     CallKindCallCode,
		target:   target,
		value:    value,
		hasValue: true,
		input:    input,
		gas:      gas.Uint64(),
	}
	return dispatchCall(p, req, retOff, retSize)
}

func opDelegateCall(p *Program) error {
	gas := p.Stack.Pop()
	target := p.Stack.Pop().Address()
	argsOff, argsSize := p.Stack.Pop(), p.Stack.Pop()
	retOff, retSize := p.Stack.Pop(), p.Stack.Pop()

	input := p.Memory.GetPtr(argsOff.Uint64(), argsSize.Uint64())
	req := callRequest{
		kind:   CallKindDelegateCall,
		target: target,
		input:  input,
		gas:    gas.Uint64(),
	}
	return dispatchCall(p, req, retOff, retSize)
}

func opStaticCall(p *Program) error {
	gas := p.Stack.Pop()
	target := p.Stack.Pop().Address()
	argsOff, argsSize := p.Stack.Pop(), p.Stack.Pop()
	retOff, retSize := p.Stack.Pop(), p.Stack.Pop()

	input := p.Memory.GetPtr(argsOff.Uint64(), argsSize.Uint64())
	req := callRequest{
		kind:   CallKindStaticCall,
		target: target,
		input:  input,
		gas:    gas.Uint64(),
	}
	return dispatchCall(p, req, retOff, retSize)
}

// dispatchCall runs req through the Program's CallHandler, copies
// returned data into the caller-declared memory window, sets
// RETURNDATA, and pushes the success flag.
func dispatchCall(p *Program, req callRequest, retOff, retSize DataWord) error {
	out, gasLeft, err := p.vm.CallHandler.HandleCall(p, req)
	if err != nil {
		return err
	}
	p.Gas = safeAdd(p.Gas, gasLeft)
	p.Result.ReturnData = out.returnData
	copyToMemory(p, retOff, retSize, out.returnData)
	if out.success {
		return p.Stack.Push(OneWord())
	}
	return p.Stack.Push(ZeroWord())
}

func opCreate(p *Program) error {
	if err := p.requireNotStatic(); err != nil {
		return err
	}
	value := p.Stack.Pop()
	offset, size := p.Stack.Pop(), p.Stack.Pop()
	initCode := p.Memory.GetPtr(offset.Uint64(), size.Uint64())

	out, addr, err := p.vm.CreateExecutor.Execute(p, CallKindCreate, value, initCode, ZeroWord())
	if err != nil {
		return err
	}
	p.Result.ReturnData = out.returnData
	return p.Stack.Push(addr)
}

func opCreate2(p *Program) error {
	if err := p.requireNotStatic(); err != nil {
		return err
	}
	value := p.Stack.Pop()
	offset, size := p.Stack.Pop(), p.Stack.Pop()
	salt := p.Stack.Pop()
	initCode := p.Memory.GetPtr(offset.Uint64(), size.Uint64())

	out, addr, err := p.vm.CreateExecutor.Execute(p, CallKindCreate2, value, initCode, salt)
	if err != nil {
		return err
	}
	p.Result.ReturnData = out.returnData
	return p.Stack.Push(addr)
}
