// Package memdb provides an in-process Repository backed by plain Go
// maps -- the default back-end for running a Program without any
// persistence layer, modeled on a MemoryStateDB-style account table
// (pkg/core/state/memory_statedb.go), adapted from its
// Account/big.Int/journal-of-interfaces model onto vm.DataWord and a
// narrower Repository surface: no trie roots, no RLP commit, no
// cross-transaction logs, since none of that belongs to the call engine
// this module ships.
package memdb

import (
	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
	"github.com/ethlab/pvm/crypto"
)

// account holds one address's mutable state: balance, nonce, code, and
// storage in a single map; writes are undone through the DB journal, not
// through a separate committed layer.
type account struct {
	balance  vm.DataWord
	nonce    uint64
	code     []byte
	codeHash types.Hash
	storage  map[vm.DataWord]vm.DataWord
	suicided bool
}

func newAccount() *account {
	return &account{storage: make(map[vm.DataWord]vm.DataWord)}
}

// journalEntry is a revertible change recorded against a DB, mirroring
// the same interface used by journal.go-style undo logs.
type journalEntry interface {
	revert(db *DB)
}

type balanceChange struct {
	addr types.Address
	prev vm.DataWord
}

func (c balanceChange) revert(db *DB) { db.getOrCreate(c.addr).balance = c.prev }

type nonceChange struct {
	addr types.Address
	prev uint64
}

func (c nonceChange) revert(db *DB) { db.getOrCreate(c.addr).nonce = c.prev }

type codeChange struct {
	addr     types.Address
	prevCode []byte
	prevHash types.Hash
}

func (c codeChange) revert(db *DB) {
	acc := db.getOrCreate(c.addr)
	acc.code, acc.codeHash = c.prevCode, c.prevHash
}

type storageChange struct {
	addr types.Address
	key  vm.DataWord
	prev vm.DataWord
}

func (c storageChange) revert(db *DB) { db.getOrCreate(c.addr).storage[c.key] = c.prev }

type suicideChange struct {
	addr        types.Address
	prevBalance vm.DataWord
	prevState   bool
}

func (c suicideChange) revert(db *DB) {
	acc := db.getOrCreate(c.addr)
	acc.suicided = c.prevState
	acc.balance = c.prevBalance
}

type createChange struct {
	addr types.Address
}

func (c createChange) revert(db *DB) { delete(db.accounts, c.addr) }

// DB is the in-process Repository implementation. A zero-value DB is not
// usable; construct one with New.
type DB struct {
	accounts map[types.Address]*account

	entries   []journalEntry
	snapshots map[int]int
	nextID    int
}

// New creates an empty in-process Repository.
func New() *DB {
	return &DB{
		accounts:  make(map[types.Address]*account),
		snapshots: make(map[int]int),
	}
}

func (db *DB) get(addr types.Address) *account { return db.accounts[addr] }

func (db *DB) getOrCreate(addr types.Address) *account {
	if acc, ok := db.accounts[addr]; ok {
		return acc
	}
	acc := newAccount()
	db.accounts[addr] = acc
	db.entries = append(db.entries, createChange{addr: addr})
	return acc
}

func (db *DB) append(e journalEntry) { db.entries = append(db.entries, e) }

// GetStorage implements vm.Repository.
func (db *DB) GetStorage(addr types.Address, key vm.DataWord) vm.DataWord {
	if acc := db.get(addr); acc != nil {
		return acc.storage[key]
	}
	return vm.ZeroWord()
}

// SetStorage implements vm.Repository.
func (db *DB) SetStorage(addr types.Address, key vm.DataWord, val vm.DataWord) {
	acc := db.getOrCreate(addr)
	db.append(storageChange{addr: addr, key: key, prev: acc.storage[key]})
	acc.storage[key] = val
}

// GetBalance implements vm.Repository.
func (db *DB) GetBalance(addr types.Address) vm.DataWord {
	if acc := db.get(addr); acc != nil {
		return acc.balance
	}
	return vm.ZeroWord()
}

// SetBalance implements vm.Repository.
func (db *DB) SetBalance(addr types.Address, balance vm.DataWord) {
	acc := db.getOrCreate(addr)
	db.append(balanceChange{addr: addr, prev: acc.balance})
	acc.balance = balance
}

// AddBalance implements vm.Repository.
func (db *DB) AddBalance(addr types.Address, amount vm.DataWord) {
	acc := db.getOrCreate(addr)
	db.append(balanceChange{addr: addr, prev: acc.balance})
	acc.balance = acc.balance.Add(amount)
}

// SubBalance implements vm.Repository.
func (db *DB) SubBalance(addr types.Address, amount vm.DataWord) {
	acc := db.getOrCreate(addr)
	db.append(balanceChange{addr: addr, prev: acc.balance})
	acc.balance = acc.balance.Sub(amount)
}

// GetCode implements vm.Repository.
func (db *DB) GetCode(addr types.Address) []byte {
	if acc := db.get(addr); acc != nil {
		return acc.code
	}
	return nil
}

// SetCode implements vm.Repository.
func (db *DB) SetCode(addr types.Address, code []byte) {
	acc := db.getOrCreate(addr)
	db.append(codeChange{addr: addr, prevCode: acc.code, prevHash: acc.codeHash})
	acc.code = code
	acc.codeHash = hashCode(code)
}

// GetCodeHash implements vm.Repository.
func (db *DB) GetCodeHash(addr types.Address) types.Hash {
	acc := db.get(addr)
	if acc == nil || len(acc.code) == 0 {
		return types.Hash{}
	}
	return acc.codeHash
}

// GetNonce implements vm.Repository.
func (db *DB) GetNonce(addr types.Address) uint64 {
	if acc := db.get(addr); acc != nil {
		return acc.nonce
	}
	return 0
}

// SetNonce implements vm.Repository.
func (db *DB) SetNonce(addr types.Address, nonce uint64) {
	acc := db.getOrCreate(addr)
	db.append(nonceChange{addr: addr, prev: acc.nonce})
	acc.nonce = nonce
}

// Exists implements vm.Repository: it reports whether addr has an
// account entry at all, including one created only by a storage write.
func (db *DB) Exists(addr types.Address) bool {
	return db.get(addr) != nil
}

// Empty implements vm.Repository: zero nonce, zero balance, no code
// (EIP-161).
func (db *DB) Empty(addr types.Address) bool {
	acc := db.get(addr)
	if acc == nil {
		return true
	}
	return acc.nonce == 0 && acc.balance.IsZero() && len(acc.code) == 0
}

// Snapshot implements vm.Repository.
func (db *DB) Snapshot() int {
	id := db.nextID
	db.nextID++
	db.snapshots[id] = len(db.entries)
	return id
}

// RevertToSnapshot implements vm.Repository.
func (db *DB) RevertToSnapshot(id int) {
	idx, ok := db.snapshots[id]
	if !ok {
		return
	}
	for i := len(db.entries) - 1; i >= idx; i-- {
		db.entries[i].revert(db)
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
	acc := db.get(addr)
	if acc == nil {
		return vm.ZeroWord()
	}
	db.append(suicideChange{addr: addr, prevBalance: acc.balance, prevState: acc.suicided})
	prev := acc.balance
	acc.balance = vm.ZeroWord()
	acc.suicided = true
	return prev
}

// HasSuicided implements vm.Repository.
func (db *DB) HasSuicided(addr types.Address) bool {
	acc := db.get(addr)
	return acc != nil && acc.suicided
}

func hashCode(code []byte) types.Hash {
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return types.BytesToHash(crypto.Keccak256(code))
}

var _ vm.Repository = (*DB)(nil)
