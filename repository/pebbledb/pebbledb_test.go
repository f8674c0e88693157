package pebbledb

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

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBalancePersists(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(1)

	if bal := db.GetBalance(addr); !bal.IsZero() {
		t.Fatalf("expected zero balance, got %v", bal)
	}

	db.AddBalance(addr, vm.WordFromUint64(100))
	db.SubBalance(addr, vm.WordFromUint64(40))
	if bal := db.GetBalance(addr); bal.Uint64() != 60 {
		t.Fatalf("expected balance 60, got %d", bal.Uint64())
	}
}

func TestCodeAndHash(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(2)

	db.SetCode(addr, []byte{0x60, 0x01, 0x60, 0x02})
	if code := db.GetCode(addr); len(code) != 4 {
		t.Fatalf("expected 4-byte code, got %v", code)
	}
	if h := db.GetCodeHash(addr); h == (types.Hash{}) {
		t.Fatal("expected non-zero code hash")
	}
}

func TestStorageRoundTrip(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(3)
	key := vm.WordFromUint64(7)

	db.SetStorage(addr, key, vm.WordFromUint64(99))
	if v := db.GetStorage(addr, key); v.Uint64() != 99 {
		t.Fatalf("expected 99, got %d", v.Uint64())
	}

	db.SetStorage(addr, key, vm.ZeroWord())
	if v := db.GetStorage(addr, key); !v.IsZero() {
		t.Fatalf("expected zero after clearing slot, got %v", v)
	}
}

func TestSnapshotRevert(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(4)

	db.SetBalance(addr, vm.WordFromUint64(100))
	snap := db.Snapshot()

	db.SetBalance(addr, vm.WordFromUint64(500))
	db.SetNonce(addr, 3)

	db.RevertToSnapshot(snap)

	if bal := db.GetBalance(addr); bal.Uint64() != 100 {
		t.Fatalf("expected balance reverted to 100, got %d", bal.Uint64())
	}
	if n := db.GetNonce(addr); n != 0 {
		t.Fatalf("expected nonce reverted to 0, got %d", n)
	}
}

func TestSuicide(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(5)
	db.SetBalance(addr, vm.WordFromUint64(250))

	prev := db.Suicide(addr)
	if prev.Uint64() != 250 {
		t.Fatalf("expected Suicide to return prior balance 250, got %d", prev.Uint64())
	}
	if !db.HasSuicided(addr) {
		t.Fatal("expected suicided after Suicide")
	}
	if bal := db.GetBalance(addr); !bal.IsZero() {
		t.Fatalf("expected zero balance after Suicide, got %v", bal)
	}
}

func TestExistsAndEmpty(t *testing.T) {
	db := openTestDB(t)
	addr := testAddr(6)

	if db.Exists(addr) {
		t.Fatal("expected account to not exist")
	}
	if !db.Empty(addr) {
		t.Fatal("expected non-existent account to be empty")
	}

	db.SetCode(addr, []byte{0x00})
	if !db.Exists(addr) {
		t.Fatal("expected account to exist after SetCode")
	}
	if db.Empty(addr) {
		t.Fatal("expected account with code to not be empty")
	}
}
