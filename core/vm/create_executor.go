package vm

// create_executor.go implements CREATE/CREATE2's contract-deployment
// lifecycle: address derivation, collision detection, endowment
// transfer, the 63/64 gas forwarding rule, init code execution, and the
// per-byte code deposit charge.
// CREATE's address derivation uses go-ethereum's rlp package directly
// rather than reimplementing RLP by hand, since go-ethereum is already
// a dependency of this module.

import (
	"errors"

	gethrlp "github.com/ethereum/go-ethereum/rlp"

	"github.com/ethlab/pvm/core/types"
)

const (
	// MaxCodeSize is the maximum deployed contract bytecode size (EIP-170).
	MaxCodeSize = 24576
	// MaxInitCodeSize is the maximum CREATE/CREATE2 init code size (EIP-3860).
	MaxInitCodeSize = 2 * MaxCodeSize
	// CreateDataGas is the per-byte cost of depositing deployed code.
	CreateDataGas uint64 = 200
)

// CreateExecutor executes CREATE/CREATE2 operations against a VM.
type CreateExecutor struct {
	vm *VM
}

// NewCreateExecutor creates a CreateExecutor bound to vm.
func NewCreateExecutor(vm *VM) *CreateExecutor {
	return &CreateExecutor{vm: vm}
}

// fail logs reason and returns the "creation failed, nothing deployed"
// outcome CREATE/CREATE2 produce for an ordinary (non-fatal) failure:
// the stack gets a zero address, not a Go error.
func (ce *CreateExecutor) fail(reason error) (*callOutcome, DataWord, error) {
	ce.vm.Logger.Debug("create failed", "reason", reason)
	return &callOutcome{}, ZeroWord(), nil
}

// Execute performs the full creation lifecycle on behalf of caller and
// returns the stack outcome (success/returnData) plus the address word
// CREATE/CREATE2 push (zero on any failure). Base gas (GasCreate, plus
// CREATE2's per-word hashing cost) has already been charged by
// Program.step via the jump table's dynamicGas hook before this runs.
func (ce *CreateExecutor) Execute(caller *Program, kind CallKind, value DataWord, initCode []byte, salt DataWord) (*callOutcome, DataWord, error) {
	if len(initCode) > MaxInitCodeSize {
		return &callOutcome{}, ZeroWord(), nil
	}
	if caller.Invoke.Depth+1 > ce.vm.Config.MaxCallDepth {
		return ce.fail(ErrDepth)
	}
	if value.Sign() > 0 && caller.repo().GetBalance(caller.owner()).Cmp(value) < 0 {
		return ce.fail(ErrInsufficientBalance)
	}

	nonce := caller.repo().GetNonce(caller.owner())
	var addr types.Address
	if kind == CallKindCreate2 {
		addr = create2Address(caller.owner(), salt, keccak256(initCode))
	} else {
		addr = createAddress(caller.owner(), nonce)
	}
	caller.repo().SetNonce(caller.owner(), nonce+1)

	codeHash := caller.repo().GetCodeHash(addr)
	if caller.repo().GetNonce(addr) != 0 || (codeHash != (types.Hash{}) && codeHash != types.EmptyCodeHash) {
		return ce.fail(ErrContractAddressCollision)
	}

	snapshot := caller.repo().Snapshot()
	caller.repo().SetNonce(addr, 1)
	if value.Sign() > 0 {
		caller.repo().SubBalance(caller.owner(), value)
		caller.repo().AddBalance(addr, value)
	}

	childGas := caller.Gas - caller.Gas/64
	if err := caller.spendGas(childGas); err != nil {
		return nil, ZeroWord(), err
	}

	child := &ProgramInvoke{
		Owner:     addr,
		Origin:    caller.origin(),
		Caller:    caller.owner(),
		CodeAddr:  addr,
		CallValue: value,
		Code:      initCode,
		GasPrice:  caller.Invoke.GasPrice,
		GasAvail:  childGas,
		Block:     caller.Invoke.Block,
		Depth:     caller.Invoke.Depth + 1,
		Kind:      kind,
		Static:    caller.Invoke.Static,
	}

	result, err := ce.vm.RunCall(child)

	switch {
	case err == nil:
		code := result.ReturnData
		if len(code) > MaxCodeSize {
			caller.repo().RevertToSnapshot(snapshot)
			return ce.fail(ErrCodeTooLarge)
		}
		depositGas := safeMul(CreateDataGas, uint64(len(code)))
		if result.GasLeft < depositGas {
			caller.repo().RevertToSnapshot(snapshot)
			return &callOutcome{}, ZeroWord(), nil
		}
		result.GasLeft -= depositGas
		caller.repo().SetCode(addr, code)
		caller.Gas = safeAdd(caller.Gas, result.GasLeft)
		caller.Result.MergeChild(result)
		caller.Result.Created = append(caller.Result.Created, CreatedContract{Address: addr, Invoke: child})
		return &callOutcome{success: true}, WordFromAddress(addr), nil
	case errors.Is(err, ErrExecutionReverted):
		caller.repo().RevertToSnapshot(snapshot)
		caller.Gas = safeAdd(caller.Gas, result.GasLeft)
		return &callOutcome{returnData: result.ReturnData}, ZeroWord(), nil
	default:
		caller.repo().RevertToSnapshot(snapshot)
		return &callOutcome{}, ZeroWord(), nil
	}
}

// createAddress derives CREATE's target address: keccak256(rlp([sender,
// nonce]))[12:], per the Yellow Paper.
func createAddress(caller types.Address, nonce uint64) types.Address {
	encoded, err := gethrlp.EncodeToBytes([]interface{}{caller[:], nonce})
	if err != nil {
		return types.Address{}
	}
	hash := keccak256(encoded)
	return types.BytesToAddress(hash[12:])
}

// create2Address derives CREATE2's target address: keccak256(0xff ++
// sender ++ salt ++ keccak256(initCode))[12:].
func create2Address(caller types.Address, salt DataWord, initCodeHash []byte) types.Address {
	saltBytes := salt.Bytes32()
	data := make([]byte, 0, 85)
	data = append(data, 0xff)
	data = append(data, caller[:]...)
	data = append(data, saltBytes[:]...)
	data = append(data, initCodeHash...)
	hash := keccak256(data)
	return types.BytesToAddress(hash[12:])
}
