package vm

// access_list.go implements EIP-2929 warm/cold access tracking with
// journaling support for snapshot/revert. It is an optional component:
// This engine's default GasCost table is flat (BALANCE/SLOAD/CALL have no
// cold/warm distinction), so this tracker only affects gas when
// ForkRules.Berlin is set, which adds its cold-address surcharge to
// BALANCE and CALL-family targets.

import "github.com/ethlab/pvm/core/types"

// AccessListTracker manages warm/cold access tracking for addresses and
// storage slots during a transaction, with journaling for revert support
// via snapshots.
type AccessListTracker struct {
	addresses   map[types.Address]int
	slots       map[types.Address]map[types.Hash]int
	journal     []accessListChange
	snapshotIDs []int
}

type accessListChangeKind uint8

const (
	changeAddAddress accessListChangeKind = iota
	changeAddSlot
)

type accessListChange struct {
	kind    accessListChangeKind
	address types.Address
	slot    types.Hash
}

// NewAccessListTracker creates an empty AccessListTracker.
func NewAccessListTracker() *AccessListTracker {
	return &AccessListTracker{
		addresses: make(map[types.Address]int),
		slots:     make(map[types.Address]map[types.Hash]int),
	}
}

// PrePopulate warms the sender, the call target (if any), and the entries
// of a transaction's declared access list. Pre-populated entries use
// journal index -1 so they survive every revert.
func (alt *AccessListTracker) PrePopulate(sender types.Address, to *types.Address, accessList types.AccessList) {
	alt.addAddressNoJournal(sender)
	if to != nil {
		alt.addAddressNoJournal(*to)
	}
	for _, tuple := range accessList {
		alt.addAddressNoJournal(tuple.Address)
		for _, key := range tuple.StorageKeys {
			alt.addSlotNoJournal(tuple.Address, key)
		}
	}
}

func (alt *AccessListTracker) addAddressNoJournal(addr types.Address) {
	if _, ok := alt.addresses[addr]; !ok {
		alt.addresses[addr] = -1
	}
}

func (alt *AccessListTracker) addSlotNoJournal(addr types.Address, slot types.Hash) {
	if _, ok := alt.addresses[addr]; !ok {
		alt.addresses[addr] = -1
	}
	slots, ok := alt.slots[addr]
	if !ok {
		slots = make(map[types.Hash]int)
		alt.slots[addr] = slots
	}
	if _, ok := slots[slot]; !ok {
		slots[slot] = -1
	}
}

// TouchAddress warms addr if cold. Returns true if it was already warm.
func (alt *AccessListTracker) TouchAddress(addr types.Address) bool {
	if _, ok := alt.addresses[addr]; ok {
		return true
	}
	idx := len(alt.journal)
	alt.addresses[addr] = idx
	alt.journal = append(alt.journal, accessListChange{kind: changeAddAddress, address: addr})
	return false
}

// TouchSlot warms (addr, slot) if cold. Returns (addressWarm, slotWarm)
// reflecting state before this call.
func (alt *AccessListTracker) TouchSlot(addr types.Address, slot types.Hash) (bool, bool) {
	addrWarm := alt.TouchAddress(addr)

	slots, ok := alt.slots[addr]
	if !ok {
		slots = make(map[types.Hash]int)
		alt.slots[addr] = slots
	}
	if _, slotOk := slots[slot]; slotOk {
		return addrWarm, true
	}
	idx := len(alt.journal)
	slots[slot] = idx
	alt.journal = append(alt.journal, accessListChange{kind: changeAddSlot, address: addr, slot: slot})
	return addrWarm, false
}

// Snapshot records the tracker's current journal length.
func (alt *AccessListTracker) Snapshot() int {
	id := len(alt.snapshotIDs)
	alt.snapshotIDs = append(alt.snapshotIDs, len(alt.journal))
	return id
}

// RevertToSnapshot undoes every warming recorded after the matching
// Snapshot call. Pre-populated entries (journal index -1) are never
// reverted.
func (alt *AccessListTracker) RevertToSnapshot(id int) {
	if id < 0 || id >= len(alt.snapshotIDs) {
		return
	}
	journalLen := alt.snapshotIDs[id]
	for i := len(alt.journal) - 1; i >= journalLen; i-- {
		change := alt.journal[i]
		switch change.kind {
		case changeAddSlot:
			if slots := alt.slots[change.address]; slots != nil {
				if idx, ok := slots[change.slot]; ok && idx >= journalLen {
					delete(slots, change.slot)
				}
			}
		case changeAddAddress:
			if idx, ok := alt.addresses[change.address]; ok && idx >= journalLen {
				delete(alt.addresses, change.address)
			}
		}
	}
	alt.journal = alt.journal[:journalLen]
	alt.snapshotIDs = alt.snapshotIDs[:id]
}

// AddressGasCost returns the extra cold-access gas for touching addr,
// warming it as a side effect. Zero if already warm.
func (alt *AccessListTracker) AddressGasCost(addr types.Address) uint64 {
	if alt.TouchAddress(addr) {
		return 0
	}
	return ColdAccountAccessCost - WarmStorageReadCost
}

// SlotGasCost returns the extra cold-access gas for touching (addr, slot),
// warming it as a side effect. Zero if already warm.
func (alt *AccessListTracker) SlotGasCost(addr types.Address, slot types.Hash) uint64 {
	_, slotWarm := alt.TouchSlot(addr, slot)
	if slotWarm {
		return 0
	}
	return ColdSloadCost - WarmStorageReadCost
}
