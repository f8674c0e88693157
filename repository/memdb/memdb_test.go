package memdb

import (
	"testing"

	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
)

func testAddr(b byte) types.Address {
	var a types.Address
	a[19] = b
	return a
}

func TestBalance(t *testing.T) {
	db := New()
	addr := testAddr(1)

	if bal := db.GetBalance(addr); !bal.IsZero() {
		t.Fatalf("expected zero balance for non-existent account, got %v", bal)
	}

	db.AddBalance(addr, vm.WordFromUint64(100))
	if bal := db.GetBalance(addr); bal.Uint64() != 100 {
		t.Fatalf("expected balance 100, got %d", bal.Uint64())
	}

	db.SubBalance(addr, vm.WordFromUint64(30))
	if bal := db.GetBalance(addr); bal.Uint64() != 70 {
		t.Fatalf("expected balance 70, got %d", bal.Uint64())
	}
}

func TestNonce(t *testing.T) {
	db := New()
	addr := testAddr(2)

	if n := db.GetNonce(addr); n != 0 {
		t.Fatalf("expected nonce 0, got %d", n)
	}
	db.SetNonce(addr, 7)
	if n := db.GetNonce(addr); n != 7 {
		t.Fatalf("expected nonce 7, got %d", n)
	}
}

func TestCode(t *testing.T) {
	db := New()
	addr := testAddr(3)

	if code := db.GetCode(addr); code != nil {
		t.Fatalf("expected nil code, got %v", code)
	}
	if h := db.GetCodeHash(addr); h != (types.Hash{}) {
		t.Fatalf("expected zero code hash for absent code, got %v", h)
	}

	db.SetCode(addr, []byte{0x60, 0x00})
	if code := db.GetCode(addr); len(code) != 2 {
		t.Fatalf("expected 2-byte code, got %v", code)
	}
	if h := db.GetCodeHash(addr); h == (types.Hash{}) {
		t.Fatal("expected non-zero code hash after SetCode")
	}
}

func TestStorage(t *testing.T) {
	db := New()
	addr := testAddr(4)
	key := vm.WordFromUint64(1)

	if v := db.GetStorage(addr, key); !v.IsZero() {
		t.Fatalf("expected zero storage, got %v", v)
	}
	db.SetStorage(addr, key, vm.WordFromUint64(42))
	if v := db.GetStorage(addr, key); v.Uint64() != 42 {
		t.Fatalf("expected 42, got %d", v.Uint64())
	}
}

func TestSnapshotRevert(t *testing.T) {
	db := New()
	addr := testAddr(5)

	db.SetBalance(addr, vm.WordFromUint64(100))
	snap := db.Snapshot()

	db.SetBalance(addr, vm.WordFromUint64(500))
	db.SetNonce(addr, 9)
	db.SetStorage(addr, vm.WordFromUint64(1), vm.WordFromUint64(1))

	db.RevertToSnapshot(snap)

	if bal := db.GetBalance(addr); bal.Uint64() != 100 {
		t.Fatalf("expected balance reverted to 100, got %d", bal.Uint64())
	}
	if n := db.GetNonce(addr); n != 0 {
		t.Fatalf("expected nonce reverted to 0, got %d", n)
	}
	if v := db.GetStorage(addr, vm.WordFromUint64(1)); !v.IsZero() {
		t.Fatalf("expected storage write reverted, got %v", v)
	}
}

func TestSnapshotRevertNested(t *testing.T) {
	db := New()
	addr := testAddr(6)

	db.SetBalance(addr, vm.WordFromUint64(10))
	outer := db.Snapshot()
	db.SetBalance(addr, vm.WordFromUint64(20))
	inner := db.Snapshot()
	db.SetBalance(addr, vm.WordFromUint64(30))

	db.RevertToSnapshot(inner)
	if bal := db.GetBalance(addr); bal.Uint64() != 20 {
		t.Fatalf("expected balance 20 after inner revert, got %d", bal.Uint64())
	}

	db.RevertToSnapshot(outer)
	if bal := db.GetBalance(addr); bal.Uint64() != 10 {
		t.Fatalf("expected balance 10 after outer revert, got %d", bal.Uint64())
	}
}

func TestSuicide(t *testing.T) {
	db := New()
	addr := testAddr(7)
	db.SetBalance(addr, vm.WordFromUint64(100))

	if db.HasSuicided(addr) {
		t.Fatal("expected not suicided before Suicide")
	}
	prev := db.Suicide(addr)
	if prev.Uint64() != 100 {
		t.Fatalf("expected Suicide to return prior balance 100, got %d", prev.Uint64())
	}
	if !db.HasSuicided(addr) {
		t.Fatal("expected suicided after Suicide")
	}
	if bal := db.GetBalance(addr); !bal.IsZero() {
		t.Fatalf("expected zero balance after Suicide, got %v", bal)
	}
}

func TestExistsAndEmpty(t *testing.T) {
	db := New()
	addr := testAddr(8)

	if db.Exists(addr) {
		t.Fatal("expected account to not exist")
	}
	if !db.Empty(addr) {
		t.Fatal("expected non-existent account to be empty")
	}

	db.SetNonce(addr, 1)
	if !db.Exists(addr) {
		t.Fatal("expected account to exist after SetNonce")
	}
	if db.Empty(addr) {
		t.Fatal("expected account with non-zero nonce to not be empty")
	}
}

var _ vm.Repository = (*DB)(nil)
