package vm

// precompiles.go implements the precompiled-contract registry: a
// pure function of input producing (output, gasUsed), addressable like a
// contract but bypassing byte-code execution. The engine only dispatches
// to these -- their cryptographic internals are an external collaborator
// kept out of scope deliberately.

import (
	"crypto/sha256"
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"

	"github.com/ethlab/pvm/core/types"
)

// registry is the built-in set of precompiles this engine dispatches to,
// addresses 0x01-0x04 (ECRECOVER, SHA256, RIPEMD160, IDENTITY), the
// handful a minimal precompile registry typically implements without a deeper
// cryptographic library than go-ethereum/sha3/ripemd160 already pulled
// in. Pairing-curve and KZG precompiles (0x05+) are the named external
// collaborator kept outside this engine's core scope.
type registry struct {
	table map[types.Address]Precompile
}

// NewDefaultPrecompileRegistry returns the registry backing ECRECOVER,
// SHA256HASH, RIPEMD160, and IDENTITY at their conventional addresses.
func NewDefaultPrecompileRegistry() PrecompileRegistry {
	return &registry{table: map[types.Address]Precompile{
		types.BytesToAddress([]byte{1}): &ecrecover{},
		types.BytesToAddress([]byte{2}): &sha256hash{},
		types.BytesToAddress([]byte{3}): &ripemd160hash{},
		types.BytesToAddress([]byte{4}): &dataCopy{},
	}}
}

func (r *registry) GetPrecompile(addr types.Address) (Precompile, bool) {
	p, ok := r.table[addr]
	return p, ok
}

func wordCount(n int) uint64 {
	return uint64((n + 31) / 32)
}

func padRight(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

// --- ecrecover (address 0x01) ---

type ecrecover struct{}

func (c *ecrecover) RequiredGas(input []byte) uint64 { return 3000 }

func (c *ecrecover) Run(input []byte) ([]byte, error) {
	input = padRight(input, 128)

	hash := input[0:32]
	v := new(big.Int).SetBytes(input[32:64])
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])

	if v.BitLen() > 8 {
		return nil, nil
	}
	vByte := byte(v.Uint64())
	if vByte != 27 && vByte != 28 {
		return nil, nil
	}
	if !gethcrypto.ValidateSignatureValues(vByte-27, r, s, true) {
		return nil, nil
	}

	sig := make([]byte, 65)
	rBytes, sBytes := r.Bytes(), s.Bytes()
	copy(sig[32-len(rBytes):32], rBytes)
	copy(sig[64-len(sBytes):64], sBytes)
	sig[64] = vByte - 27

	pub, err := gethcrypto.Ecrecover(hash, sig)
	if err != nil {
		return nil, nil
	}

	addr := gethcrypto.Keccak256(pub[1:])
	result := make([]byte, 32)
	copy(result[12:], addr[12:])
	return result, nil
}

// --- sha256hash (address 0x02) ---

type sha256hash struct{}

func (c *sha256hash) RequiredGas(input []byte) uint64 { return 60 + 12*wordCount(len(input)) }

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// --- ripemd160hash (address 0x03) ---

type ripemd160hash struct{}

func (c *ripemd160hash) RequiredGas(input []byte) uint64 { return 600 + 120*wordCount(len(input)) }

func (c *ripemd160hash) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	digest := h.Sum(nil)
	result := make([]byte, 32)
	copy(result[12:], digest)
	return result, nil
}

// --- dataCopy / IDENTITY (address 0x04) ---

type dataCopy struct{}

func (c *dataCopy) RequiredGas(input []byte) uint64 { return 15 + 3*wordCount(len(input)) }

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}
