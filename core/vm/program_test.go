package vm_test

import (
	"testing"

	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
	"github.com/ethlab/pvm/repository/memdb"
)

func testInvoke(code []byte, gas uint64) *vm.ProgramInvoke {
	var addr, caller types.Address
	addr[19] = 1
	caller[19] = 2
	return &vm.ProgramInvoke{
		Owner:    addr,
		Origin:   caller,
		Caller:   caller,
		CodeAddr: addr,
		Code:     code,
		GasPrice: vm.ZeroWord(),
		GasAvail: gas,
		Block: vm.BlockContext{
			Number:   1,
			GasLimit: gas,
			GetHash:  func(uint64) types.Hash { return types.Hash{} },
		},
	}
}

// TestPushPop runs PUSH1 1, POP, STOP: it should halt cleanly with an
// empty stack and no error.
func TestPushPop(t *testing.T) {
	code := []byte{byte(vm.PUSH1), 0x01, byte(vm.POP), byte(vm.STOP)}
	machine := vm.NewVM(memdb.New(), vm.Config{})
	result, err := machine.RunCall(testInvoke(code, 100000))
	if err != nil {
		t.Fatalf("RunCall: %v", err)
	}
	if result.Failure != nil {
		t.Fatalf("Failure = %v, want nil", result.Failure)
	}
}

// TestMstoreMload writes a word to memory, reads it back with MLOAD,
// stores the loaded word at offset 32 and RETURNs that second word,
// checking the value round-trips through MSTORE and MLOAD.
func TestMstoreMload(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x2a, // value 42
		byte(vm.PUSH1), 0x00, // offset 0
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x00, // offset 0
		byte(vm.MLOAD),
		byte(vm.PUSH1), 0x20, // offset 32
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, // size 32
		byte(vm.PUSH1), 0x20, // offset 32
		byte(vm.RETURN),
	}
	machine := vm.NewVM(memdb.New(), vm.Config{})
	result, err := machine.RunCall(testInvoke(code, 100000))
	if err != nil {
		t.Fatalf("RunCall: %v", err)
	}
	want := vm.WordFromUint64(42)
	got := vm.WordFromBytes(result.ReturnData)
	if got.Cmp(want) != 0 {
		t.Fatalf("returned word = %v, want %v", got, want)
	}
}

// TestSstoreSload writes a storage slot then reads it back in the same
// frame, confirming the write is visible without a round trip through
// the repository's own API.
func TestSstoreSload(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x07, // value 7
		byte(vm.PUSH1), 0x00, // key 0
		byte(vm.SSTORE),
		byte(vm.PUSH1), 0x00, // key 0
		byte(vm.SLOAD),
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20,
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	repo := memdb.New()
	machine := vm.NewVM(repo, vm.Config{})
	invoke := testInvoke(code, 100000)
	result, err := machine.RunCall(invoke)
	if err != nil {
		t.Fatalf("RunCall: %v", err)
	}
	want := vm.WordFromUint64(7)
	got := vm.WordFromBytes(result.ReturnData)
	if got.Cmp(want) != 0 {
		t.Fatalf("SLOAD after SSTORE = %v, want %v", got, want)
	}
	if stored := repo.GetStorage(invoke.Owner, vm.ZeroWord()); stored.Cmp(want) != 0 {
		t.Fatalf("repository storage = %v, want %v", stored, want)
	}
}

// TestOutOfGasOnFirstOpcode starts a frame with less gas than even the
// first instruction costs: the call must fail with ErrOutOfGas and
// leave no gas behind.
func TestOutOfGasOnFirstOpcode(t *testing.T) {
	code := []byte{byte(vm.PUSH1), 0x01, byte(vm.STOP)}
	machine := vm.NewVM(memdb.New(), vm.Config{})
	result, err := machine.RunCall(testInvoke(code, 0))
	if err != vm.ErrOutOfGas {
		t.Fatalf("RunCall err = %v, want ErrOutOfGas", err)
	}
	if result.GasLeft != 0 {
		t.Fatalf("GasLeft = %d, want 0", result.GasLeft)
	}
}

// TestJumpToValidDest jumps forward over a block of unreachable code to
// a JUMPDEST and continues executing past it.
func TestJumpToValidDest(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x05, // dest = 5
		byte(vm.JUMP),
		byte(vm.INVALID), // never reached
		byte(vm.INVALID), // never reached
		byte(vm.JUMPDEST), // pc 5
		byte(vm.STOP),
	}
	machine := vm.NewVM(memdb.New(), vm.Config{})
	result, err := machine.RunCall(testInvoke(code, 100000))
	if err != nil {
		t.Fatalf("RunCall: %v", err)
	}
	if result.Failure != nil {
		t.Fatalf("Failure = %v, want nil", result.Failure)
	}
}

// TestJumpToInvalidDest jumps to a byte that is not a JUMPDEST (the
// immediate of the PUSH1 at pc 0) and must raise ErrInvalidJump.
func TestJumpToInvalidDest(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x01, // dest = 1, which is the PUSH1 immediate itself
		byte(vm.JUMP),
		byte(vm.STOP),
	}
	machine := vm.NewVM(memdb.New(), vm.Config{})
	_, err := machine.RunCall(testInvoke(code, 100000))
	if err != vm.ErrInvalidJump {
		t.Fatalf("RunCall err = %v, want ErrInvalidJump", err)
	}
}
