package vm

// call_handler.go orchestrates the CALL-family opcodes (CALL, CALLCODE,
// DELEGATECALL, STATICCALL): depth limiting, precompile routing, value
// transfer, the 63/64 forwarding rule with its value-transfer stipend,
// child-frame construction, and state snapshot/revert on failure.
// Adapted from the usual
// EVM/Contract/big.Int model onto Program/ProgramInvoke/DataWord.

import (
	"errors"

	"github.com/ethlab/pvm/core/types"
)

// CallStipend is the extra gas a CALL passing non-zero value grants its
// callee beyond the forwarded amount, free of charge to the caller --
// enough for the callee's own LOG/SSTORE bookkeeping even if forwarded
// gas was capped to (almost) nothing by the 63/64 rule.
const CallStipend uint64 = 2300

// CallHandler executes CALL-family operations against a VM's repository
// and precompile registry.
type CallHandler struct {
	vm *VM
}

// NewCallHandler creates a CallHandler bound to vm.
func NewCallHandler(vm *VM) *CallHandler {
	return &CallHandler{vm: vm}
}

// fail logs reason and returns the "call failed, but no exceptional
// halt" outcome a CALL-family opcode produces for an ordinary
// (non-fatal) failure: the stack gets a zero/false result, not a Go
// error -- only the kinds isExceptionalHalt accepts abort the frame
// itself.
func (ch *CallHandler) fail(reason error) (*callOutcome, uint64, error) {
	ch.vm.Logger.Debug("call failed", "reason", reason)
	return &callOutcome{}, 0, nil
}

// callRequest holds the decoded parameters of one CALL-family invocation,
// already popped off the caller's stack.
type callRequest struct {
	kind     CallKind
	target   types.Address
	value    DataWord
	hasValue bool // false for DELEGATECALL/STATICCALL, which carry no value operand
	input    []byte
	gas      uint64 // the requested gas operand, pre-63/64-cap
}

// callOutcome is what a CALL-family opcode pushes back onto the stack
// and copies into memory.
type callOutcome struct {
	returnData []byte
	success    bool
}

// GasForCall applies EIP-150's 63/64 forwarding rule: of the caller's
// gas remaining after the base call cost, at most all-but-one-64th may
// be forwarded, further capped by the requested amount. Passing
// non-zero value adds a free stipend on top, paid by neither caller nor
// protocol.
func (ch *CallHandler) GasForCall(availableGas, requested uint64, hasValue bool) uint64 {
	forwardCap := availableGas - availableGas/64
	forwarded := requested
	if forwarded > forwardCap {
		forwarded = forwardCap
	}
	if hasValue {
		forwarded = safeAdd(forwarded, CallStipend)
	}
	return forwarded
}

// HandleCall executes one CALL-family request on behalf of caller. It
// charges the base call cost (plus the optional EIP-2929 cold-access
// surcharge) itself, computes and deducts the forwarded gas, builds and
// runs the child Program, merges or discards its effects, and returns
// the leftover gas to flow back into the caller's counter.
func (ch *CallHandler) HandleCall(caller *Program, req callRequest) (*callOutcome, uint64, error) {
	out := &callOutcome{}

	baseCost := ch.vm.Config.GasTable.Call
	if ch.vm.Config.ForkRules.Berlin {
		baseCost = safeAdd(baseCost, ch.vm.AccessList.AddressGasCost(req.target))
	}
	if err := caller.spendGas(baseCost); err != nil {
		return nil, 0, err
	}

	if caller.Invoke.Depth+1 > ch.vm.Config.MaxCallDepth {
		return ch.fail(ErrDepth)
	}
	if caller.Invoke.Static && req.hasValue && !req.value.IsZero() {
		return out, 0, nil
	}
	if req.kind == CallKindCall && req.hasValue && !req.value.IsZero() {
		if caller.repo().GetBalance(caller.owner()).Cmp(req.value) < 0 {
			return ch.fail(ErrInsufficientBalance)
		}
	}

	forwarded := ch.GasForCall(caller.Gas, req.gas, req.hasValue && !req.value.IsZero())
	spend := forwarded
	if req.hasValue && !req.value.IsZero() {
		spend -= CallStipend // the stipend is minted for the callee, not drawn from the caller
	}
	if err := caller.spendGas(spend); err != nil {
		return nil, 0, err
	}

	if p, ok := ch.vm.Precompiles.GetPrecompile(req.target); ok {
		return ch.runPrecompile(p, req, forwarded)
	}

	snapshot := caller.repo().Snapshot()

	owner := req.target
	codeAddr := req.target
	switch req.kind {
	case CallKindCallCode, CallKindDelegateCall:
		owner = caller.owner()
	}

	if req.kind == CallKindCall && req.hasValue && !req.value.IsZero() {
		caller.repo().SubBalance(caller.owner(), req.value)
		caller.repo().AddBalance(req.target, req.value)
	}

	code := caller.repo().GetCode(codeAddr)
	if len(code) == 0 {
		out.success = true
		return out, forwarded, nil
	}

	callValue := req.value
	callerAddr := caller.owner()
	if req.kind == CallKindDelegateCall {
		callValue = caller.Invoke.CallValue
		callerAddr = caller.caller()
	}

	child := &ProgramInvoke{
		Owner:     owner,
		Origin:    caller.origin(),
		Caller:    callerAddr,
		CodeAddr:  codeAddr,
		CallValue: callValue,
		Input:     req.input,
		GasPrice:  caller.Invoke.GasPrice,
		GasAvail:  forwarded,
		Block:     caller.Invoke.Block,
		Depth:     caller.Invoke.Depth + 1,
		Kind:      req.kind,
		Static:    caller.Invoke.Static || req.kind == CallKindStaticCall,
	}

	result, err := ch.vm.RunCall(child)

	switch {
	case err == nil:
		out.success = true
		out.returnData = result.ReturnData
		caller.Result.MergeChild(result)
	case errors.Is(err, ErrExecutionReverted):
		out.returnData = result.ReturnData
		caller.repo().RevertToSnapshot(snapshot)
	default:
		caller.repo().RevertToSnapshot(snapshot)
	}

	return out, result.GasLeft, nil
}

func (ch *CallHandler) runPrecompile(p Precompile, req callRequest, forwarded uint64) (*callOutcome, uint64, error) {
	cost := p.RequiredGas(req.input)
	if cost > forwarded {
		return &callOutcome{}, 0, nil
	}
	out, err := p.Run(req.input)
	if err != nil {
		return &callOutcome{}, forwarded - cost, nil
	}
	return &callOutcome{returnData: out, success: true}, forwarded - cost, nil
}
