package vm

// gas_dynamic.go holds every opcode's dynamicGasFunc: the per-opcode
// charge beyond constantGas and beyond the generic memory-expansion
// charge Program.step already applies from an operation's memorySize.

// gasExp charges EXP_BYTE_GAS per byte occupied by the exponent.
func gasExp(p *Program) (uint64, error) {
	exponent := p.Stack.Back(1)
	return safeMul(p.gasTable().ExpByte, expByteCount(exponent)), nil
}

// gasSha3 charges SHA3_WORD per 32-byte word of input.
func gasSha3(p *Program) (uint64, error) {
	size := p.Stack.Back(1)
	if !size.IsUint64() {
		return 0, ErrBadOperand
	}
	words := toWordSize(size.Uint64())
	return safeMul(p.gasTable().Sha3Word, words), nil
}

// gasCopy returns a dynamicGasFunc charging COPY_GAS per word of a
// copy-class opcode's length operand, found sizeIdx positions from the
// stack top.
func gasCopy(sizeIdx int) dynamicGasFunc {
	return func(p *Program) (uint64, error) {
		size := p.Stack.Back(sizeIdx)
		if !size.IsUint64() {
			return 0, ErrBadOperand
		}
		words := toWordSize(size.Uint64())
		return safeMul(p.gasTable().Copy, words), nil
	}
}

// gasBalance charges the optional EIP-2929 cold-access surcharge for
// BALANCE when ForkRules.Berlin is active; zero otherwise (this engine's
// flat default). EXTCODESIZE and EXTCODEHASH do not use it.
func gasBalance(p *Program) (uint64, error) {
	if !p.forkRules().Berlin {
		return 0, nil
	}
	addr := p.Stack.Back(0).Address()
	return p.vm.AccessList.AddressGasCost(addr), nil
}

// gasLog returns a dynamicGasFunc charging LOG_TOPIC_GAS*n plus
// LOG_DATA_GAS per byte of the logged data range. This is computed exactly once,
// here, never duplicated in a separate pre-check.
func gasLog(n int) dynamicGasFunc {
	return func(p *Program) (uint64, error) {
		size := p.Stack.Back(1)
		if !size.IsUint64() {
			return 0, ErrBadOperand
		}
		g := p.gasTable()
		topicCost := safeMul(g.LogTopic, uint64(n))
		dataCost := safeMul(g.LogData, size.Uint64())
		return safeAdd(topicCost, dataCost), nil
	}
}

// gasCreate charges CREATE's base cost.
func gasCreate(p *Program) (uint64, error) {
	return p.gasTable().Create, nil
}

// gasCreate2 charges CREATE2's base cost plus SHA3_WORD per word of init
// code, since CREATE2 additionally hashes the init code to derive its
// address.
func gasCreate2(p *Program) (uint64, error) {
	size := p.Stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrBadOperand
	}
	words := toWordSize(size.Uint64())
	return safeAdd(p.gasTable().Create, safeMul(p.gasTable().Sha3Word, words)), nil
}

// gasSelfdestruct charges the optional new-account surcharge
// (ForkRules.ChargeNewAccountGas) when the beneficiary address is empty;
// zero under this engine's flat default.
func gasSelfdestruct(p *Program) (uint64, error) {
	if !p.forkRules().ChargeNewAccountGas {
		return 0, nil
	}
	beneficiary := p.Stack.Back(0).Address()
	if p.repo().Empty(beneficiary) {
		return GasSelfdestructNewAccount, nil
	}
	return 0, nil
}

// GasSelfdestructNewAccount is the surcharge SELFDESTRUCT pays when its
// beneficiary account doesn't yet exist, the way a classic
// gasSelfdestructFrontier. Selectable via ForkRules.ChargeNewAccountGas.
const GasSelfdestructNewAccount uint64 = 25000

// gasCall charges nothing: CallHandler.HandleCall charges the call's
// base cost (plus the cold-access surcharge under ForkRules.Berlin) and
// the gas forwarded per CallHandler.GasForCall (63/64 rule,
// value-transfer stipend) itself when the call is dispatched. The jump
// table wires gasCall in so CALL-family entries have a dynamic-gas hook
// like every other opcode.
func gasCall(p *Program) (uint64, error) {
	return 0, nil
}
