package vm

import "github.com/ethlab/pvm/core/types"

// Repository is the storage back-end host this engine requires:
// read/write contract storage by (address, key), read account balance,
// read code by address, and record/undo tentative writes within a frame.
// Transport/persistence is entirely the implementer's concern; memdb and
// pebbledb are the two implementations this module ships.
type Repository interface {
	// GetStorage reads the 256-bit value at key in addr's storage. A
	// missing key reads as the zero word.
	GetStorage(addr types.Address, key DataWord) DataWord
	// SetStorage writes val at key in addr's storage.
	SetStorage(addr types.Address, key DataWord, val DataWord)

	// GetBalance reads addr's account balance.
	GetBalance(addr types.Address) DataWord
	// SetBalance overwrites addr's account balance.
	SetBalance(addr types.Address, balance DataWord)
	// AddBalance credits amount to addr's balance.
	AddBalance(addr types.Address, amount DataWord)
	// SubBalance debits amount from addr's balance.
	SubBalance(addr types.Address, amount DataWord)

	// GetCode reads the contract code stored at addr.
	GetCode(addr types.Address) []byte
	// SetCode installs code at addr (used by CREATE/CREATE2 on success).
	SetCode(addr types.Address, code []byte)
	// GetCodeHash reads the Keccak256 hash of the code at addr.
	GetCodeHash(addr types.Address) types.Hash

	// GetNonce reads addr's account nonce (used for CREATE address
	// derivation and collision checks).
	GetNonce(addr types.Address) uint64
	// SetNonce overwrites addr's account nonce.
	SetNonce(addr types.Address, nonce uint64)

	// Exists reports whether addr has any observable state (balance,
	// nonce, or code). memdb also counts an account that holds only
	// storage.
	Exists(addr types.Address) bool
	// Empty reports whether addr is "empty" per the EIP-161 definition
	// (zero nonce, zero balance, no code) -- used for the optional
	// SELFDESTRUCT new-account surcharge.
	Empty(addr types.Address) bool

	// Snapshot records the repository's current state and returns a
	// handle a later RevertToSnapshot call can roll back to.
	// CallHandler and CreateExecutor take one before each child frame
	// so a failed child's writes can be discarded; RunCall takes none
	// for the top-level frame.
	Snapshot() int
	// RevertToSnapshot discards every write made since the matching
	// Snapshot call.
	RevertToSnapshot(id int)

	// Suicide marks addr for deletion at the end of the enclosing
	// transaction and returns its pre-deletion balance.
	Suicide(addr types.Address) DataWord
	// HasSuicided reports whether addr has been marked for deletion in
	// this transaction.
	HasSuicided(addr types.Address) bool
}

// BlockContext supplies the per-block environment values this engine's
// ProgramInvoke is populated from: coinbase, timestamp, number,
// difficulty, gas limit, and recent-block hashes.
type BlockContext struct {
	Coinbase   types.Address
	Timestamp  uint64
	Number     uint64
	Difficulty DataWord
	GasLimit   uint64
	ChainID    uint64

	// GetHash returns the hash of block number n. BLOCKHASH calls it
	// only for n in the last 256 blocks below Number and pushes zero
	// otherwise.
	GetHash func(n uint64) types.Hash
}

// Precompile is a built-in pure function of input producing (output,
// gasUsed), addressable like a contract but bypassing byte-code
// execution entirely.
type Precompile interface {
	// RequiredGas reports the gas a call to this precompile with the
	// given input would cost.
	RequiredGas(input []byte) uint64
	// Run executes the precompile against input and returns its output.
	Run(input []byte) ([]byte, error)
}

// PrecompileRegistry resolves an address to a Precompile, mirroring a
// getContractForAddress(DataWord) -> Optional<Precompile> lookup.
type PrecompileRegistry interface {
	GetPrecompile(addr types.Address) (Precompile, bool)
}

// CallHost executes a MessageCall by constructing and running a fresh
// Program, acting as the call host. VM implements CallHost for the
// Programs it drives; CallHandler and CreateExecutor invoke it to
// dispatch CALL/CALLCODE/DELEGATECALL/STATICCALL/CREATE/CREATE2.
type CallHost interface {
	RunCall(invoke *ProgramInvoke) (*ProgramResult, error)
}
