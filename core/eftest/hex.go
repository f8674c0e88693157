package eftest

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
)

func trimHexPrefix(s string) string {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return s
}

func hexToBytes(s string) []byte {
	if s == "" {
		return nil
	}
	s = trimHexPrefix(s)
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

func hexToUint64(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(trimHexPrefix(s), 16, 64)
	if err != nil {
		return 0
	}
	return v
}

func hexToWord(s string) vm.DataWord {
	if s == "" {
		return vm.ZeroWord()
	}
	return vm.WordFromBytes(hexToBytes(s))
}

func hexToAddress(s string) types.Address {
	return types.BytesToAddress(hexToBytes(s))
}

func hexToHash(s string) types.Hash {
	return types.BytesToHash(hexToBytes(s))
}
