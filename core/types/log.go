package types

// MaxTopicsPerLog is the maximum number of indexed topics in a single log
// event. LOG0..LOG4 allow 0-4 topics.
const MaxTopicsPerLog = 4

// Log is a single entry appended by a LOGn opcode: the emitting contract's
// address, its indexed topics, and its raw data payload.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// AccessTuple is one (address, storage keys) pair from an EIP-2930 access
// list, used to pre-warm the Berlin-era access list tracker.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

// AccessList is the set of addresses and storage slots a transaction
// declares it will touch, pre-warming them against cold-access gas.
type AccessList []AccessTuple
