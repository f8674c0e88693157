package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethlab/pvm/core/types"
)

// runFlags holds the parsed command-line options for one pvmrun
// invocation. Built the way a single flag.FlagSet command usually is:
// one flag.FlagSet built by value, parsed once, no global flag state.
type runFlags struct {
	code      string
	input     string
	gas       uint64
	value     uint64
	caller    string
	owner     string
	trace     bool
	verbosity int
	create    bool
}

func parseFlags(args []string) (*runFlags, error) {
	fs := flag.NewFlagSet("pvmrun", flag.ContinueOnError)

	f := &runFlags{}
	fs.StringVar(&f.code, "code", "", "contract bytecode, as a 0x-prefixed hex string or @path/to/file")
	fs.StringVar(&f.input, "input", "", "calldata, as a 0x-prefixed hex string or @path/to/file")
	fs.Uint64Var(&f.gas, "gas", 10_000_000, "gas limit for the run")
	fs.Uint64Var(&f.value, "value", 0, "call value, in wei")
	fs.StringVar(&f.caller, "caller", "0x00000000000000000000000000000000000a11ce", "caller address")
	fs.StringVar(&f.owner, "owner", "", "executing contract address (defaults to a synthetic address derived from -code)")
	fs.BoolVar(&f.trace, "trace", false, "emit a per-step execution trace")
	fs.IntVar(&f.verbosity, "verbosity", 3, "log level: 0-1 error, 2 warn, 3 info, 4 or more debug")
	fs.BoolVar(&f.create, "create", false, "treat -code as init code and run a CREATE rather than a direct call")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// resolveBytes reads a hex-or-@file flag value into raw bytes. An empty
// value resolves to an empty (not nil) slice.
func resolveBytes(value string) ([]byte, error) {
	if value == "" {
		return []byte{}, nil
	}
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", value[1:], err)
		}
		value = strings.TrimSpace(string(data))
	}
	value = strings.TrimPrefix(value, "0x")
	value = strings.TrimPrefix(value, "0X")
	if len(value)%2 == 1 {
		value = "0" + value
	}
	return hex.DecodeString(value)
}

func resolveAddress(value string) types.Address {
	b, err := resolveBytes(value)
	if err != nil {
		return types.Address{}
	}
	return types.BytesToAddress(b)
}
