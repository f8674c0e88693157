// Package pebbledb provides an on-disk Repository backed by
// cockroachdb/pebble, for runs that need state to outlive the process
// (a long conformance suite, a REPL that persists between invocations).
// Laid out the way a rawdb-style key/value store usually is: a flat
// byte-prefixed key layout namespacing each concern (balance, nonce,
// code, storage, self-destruct), and a journal-of-inverse-writes
// snapshot/revert shape that replays each inverse write straight into
// Pebble instead of into an in-memory map.
package pebbledb

import (
	"bytes"
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
	"github.com/ethlab/pvm/crypto"
)

// Key prefixes, one byte each, namespacing the flat keyspace Pebble sees.
const (
	prefixBalance  = 'b'
	prefixNonce    = 'n'
	prefixCode     = 'c'
	prefixStorage  = 's'
	prefixSuicided = 'd'
)

func balanceKey(addr types.Address) []byte  { return appendKey(prefixBalance, addr[:]) }
func nonceKey(addr types.Address) []byte    { return appendKey(prefixNonce, addr[:]) }
func codeKey(addr types.Address) []byte     { return appendKey(prefixCode, addr[:]) }
func suicidedKey(addr types.Address) []byte { return appendKey(prefixSuicided, addr[:]) }

func storageKey(addr types.Address, key vm.DataWord) []byte {
	k := key.Bytes32()
	buf := make([]byte, 0, 1+types.AddressLength+32)
	buf = append(buf, prefixStorage)
	buf = append(buf, addr[:]...)
	buf = append(buf, k[:]...)
	return buf
}

func appendKey(prefix byte, suffix []byte) []byte {
	buf := make([]byte, 0, 1+len(suffix))
	buf = append(buf, prefix)
	buf = append(buf, suffix...)
	return buf
}

// inverseWrite is one journaled undo step: re-Set prior to present, or
// Delete present if it didn't exist before.
type inverseWrite struct {
	key     []byte
	prev    []byte
	existed bool
}

// DB is an on-disk Repository. Writes apply directly to the underlying
// Pebble database; Snapshot/RevertToSnapshot are implemented by
// journaling each write's prior value and replaying the inverse on
// revert, rather than by Pebble's own (read-only) Snapshot type.
type DB struct {
	pdb *pebble.DB

	entries   []inverseWrite
	snapshots map[int]int
	nextID    int
}

// Open opens (creating if absent) a Pebble database at dir and wraps it
// as a Repository.
func Open(dir string) (*DB, error) {
	pdb, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &DB{
		pdb:       pdb,
		snapshots: make(map[int]int),
	}, nil
}

// Close releases the underlying Pebble database.
func (db *DB) Close() error { return db.pdb.Close() }

func (db *DB) rawGet(key []byte) ([]byte, bool) {
	val, closer, err := db.pdb.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false
		}
		return nil, false
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	closer.Close()
	return cp, true
}

// rawSet writes value at key, journaling enough to undo the write later.
func (db *DB) rawSet(key, value []byte) {
	prev, existed := db.rawGet(key)
	db.entries = append(db.entries, inverseWrite{key: key, prev: prev, existed: existed})
	_ = db.pdb.Set(key, value, pebble.NoSync)
}

func (db *DB) rawDelete(key []byte) {
	prev, existed := db.rawGet(key)
	if !existed {
		return
	}
	db.entries = append(db.entries, inverseWrite{key: key, prev: prev, existed: existed})
	_ = db.pdb.Delete(key, pebble.NoSync)
}

// GetStorage implements vm.Repository.
func (db *DB) GetStorage(addr types.Address, key vm.DataWord) vm.DataWord {
	val, ok := db.rawGet(storageKey(addr, key))
	if !ok {
		return vm.ZeroWord()
	}
	return vm.WordFromBytes(val)
}

// SetStorage implements vm.Repository.
func (db *DB) SetStorage(addr types.Address, key vm.DataWord, val vm.DataWord) {
	if val.IsZero() {
		db.rawDelete(storageKey(addr, key))
		return
	}
	word := val.Bytes32()
	db.rawSet(storageKey(addr, key), word[:])
}

// GetBalance implements vm.Repository.
func (db *DB) GetBalance(addr types.Address) vm.DataWord {
	val, ok := db.rawGet(balanceKey(addr))
	if !ok {
		return vm.ZeroWord()
	}
	return vm.WordFromBytes(val)
}

// SetBalance implements vm.Repository.
func (db *DB) SetBalance(addr types.Address, balance vm.DataWord) {
	if balance.IsZero() {
		db.rawDelete(balanceKey(addr))
		return
	}
	word := balance.Bytes32()
	db.rawSet(balanceKey(addr), word[:])
}

// AddBalance implements vm.Repository.
func (db *DB) AddBalance(addr types.Address, amount vm.DataWord) {
	db.SetBalance(addr, db.GetBalance(addr).Add(amount))
}

// SubBalance implements vm.Repository.
func (db *DB) SubBalance(addr types.Address, amount vm.DataWord) {
	db.SetBalance(addr, db.GetBalance(addr).Sub(amount))
}

// GetCode implements vm.Repository.
func (db *DB) GetCode(addr types.Address) []byte {
	val, _ := db.rawGet(codeKey(addr))
	return val
}

// SetCode implements vm.Repository.
func (db *DB) SetCode(addr types.Address, code []byte) {
	if len(code) == 0 {
		db.rawDelete(codeKey(addr))
		return
	}
	db.rawSet(codeKey(addr), code)
}

// GetCodeHash implements vm.Repository: derived from the stored code
// rather than kept as a separate record, since Pebble already gives us
// cheap random access to the code bytes.
func (db *DB) GetCodeHash(addr types.Address) types.Hash {
	code := db.GetCode(addr)
	if len(code) == 0 {
		return types.Hash{}
	}
	return crypto.Keccak256Hash(code)
}

// GetNonce implements vm.Repository.
func (db *DB) GetNonce(addr types.Address) uint64 {
	val, ok := db.rawGet(nonceKey(addr))
	if !ok {
		return 0
	}
	return vm.WordFromBytes(val).Uint64()
}

// SetNonce implements vm.Repository.
func (db *DB) SetNonce(addr types.Address, nonce uint64) {
	if nonce == 0 {
		db.rawDelete(nonceKey(addr))
		return
	}
	word := vm.WordFromUint64(nonce).Bytes32()
	db.rawSet(nonceKey(addr), word[:])
}

// Exists implements vm.Repository: any of balance, nonce, or code being
// present counts as existing.
func (db *DB) Exists(addr types.Address) bool {
	if _, ok := db.rawGet(balanceKey(addr)); ok {
		return true
	}
	if _, ok := db.rawGet(nonceKey(addr)); ok {
		return true
	}
	if _, ok := db.rawGet(codeKey(addr)); ok {
		return true
	}
	return false
}

// Empty implements vm.Repository (EIP-161): zero nonce, zero balance, no
// code.
func (db *DB) Empty(addr types.Address) bool {
	return db.GetNonce(addr) == 0 && db.GetBalance(addr).IsZero() && len(db.GetCode(addr)) == 0
}

// Snapshot implements vm.Repository.
func (db *DB) Snapshot() int {
	id := db.nextID
	db.nextID++
	db.snapshots[id] = len(db.entries)
	return id
}

// RevertToSnapshot implements vm.Repository: replays the inverse of
// every write recorded since id, in reverse order, straight back into
// Pebble.
func (db *DB) RevertToSnapshot(id int) {
	idx, ok := db.snapshots[id]
	if !ok {
		return
	}
	for i := len(db.entries) - 1; i >= idx; i-- {
		e := db.entries[i]
		if e.existed {
			_ = db.pdb.Set(e.key, e.prev, pebble.NoSync)
		} else {
			_ = db.pdb.Delete(e.key, pebble.NoSync)
		}
	}
	db.entries = db.entries[:idx]
	for sid := range db.snapshots {
		if sid >= id {
			delete(db.snapshots, sid)
		}
	}
}

// Suicide implements vm.Repository: zeroes the account's balance and
// marks it for deletion, returning the balance it held immediately
// before.
func (db *DB) Suicide(addr types.Address) vm.DataWord {
	prev := db.GetBalance(addr)
	db.SetBalance(addr, vm.ZeroWord())
	db.rawSet(suicidedKey(addr), []byte{1})
	return prev
}

// HasSuicided implements vm.Repository.
func (db *DB) HasSuicided(addr types.Address) bool {
	val, ok := db.rawGet(suicidedKey(addr))
	return ok && bytes.Equal(val, []byte{1})
}

var _ vm.Repository = (*DB)(nil)
