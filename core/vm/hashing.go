package vm

import "github.com/ethlab/pvm/crypto"

// keccak256 is the package-local entry point into crypto.Keccak256, kept
// as a one-line indirection so instruction bodies don't each import the
// crypto package directly.
func keccak256(data []byte) []byte {
	return crypto.Keccak256(data)
}
