// pvmrun executes a single piece of bytecode against a fresh in-memory
// Repository and prints the resulting gas usage, return data, logs, and
// any halting error -- a standalone harness for exercising the engine
// without a full conformance suite. Structured the way a node's
// bytecode-running command usually is: a flag.FlagSet parsed once,
// then a single run function that does the work and returns an exit
// code.
package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethlab/pvm/core/types"
	"github.com/ethlab/pvm/core/vm"
	"github.com/ethlab/pvm/log"
	"github.com/ethlab/pvm/repository/memdb"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f, err := parseFlags(args)
	if err != nil {
		return 2
	}

	setupLogging(f.verbosity)

	code, err := resolveBytes(f.code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvmrun: %v\n", err)
		return 1
	}
	input, err := resolveBytes(f.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvmrun: %v\n", err)
		return 1
	}

	caller := resolveAddress(f.caller)
	owner := resolveAddress(f.owner)
	if owner.IsZero() {
		owner = types.BytesToAddress([]byte("pvmrun-contract"))
	}

	repo := memdb.New()
	repo.AddBalance(caller, vm.WordFromUint64(f.value))

	machine := vm.NewVM(repo, vm.Config{VMTrace: f.trace})

	invoke := &vm.ProgramInvoke{
		Owner:     owner,
		Origin:    caller,
		Caller:    caller,
		CodeAddr:  owner,
		CallValue: vm.WordFromUint64(f.value),
		Input:     input,
		GasPrice:  vm.ZeroWord(),
		GasAvail:  f.gas,
		Block: vm.BlockContext{
			Coinbase: caller,
			Number:   1,
			GasLimit: f.gas,
			ChainID:  1,
			GetHash:  func(uint64) types.Hash { return types.Hash{} },
		},
	}

	if f.create {
		invoke.Code = code
		invoke.Kind = vm.CallKindCreate
	} else {
		repo.SetCode(owner, code)
	}

	result, runErr := machine.RunCall(invoke)
	printResult(result, runErr, f.trace)
	if runErr != nil {
		return 1
	}
	return 0
}

func printResult(result *vm.ProgramResult, err error, trace bool) {
	if result == nil {
		fmt.Fprintf(os.Stderr, "pvmrun: no result (%v)\n", err)
		return
	}

	fmt.Printf("gas left:    %d\n", result.GasLeft)
	fmt.Printf("refund:      %d\n", result.RefundGas)
	fmt.Printf("reverted:    %t\n", result.Reverted)
	fmt.Printf("return data: 0x%s\n", hex.EncodeToString(result.ReturnData))
	if err != nil {
		fmt.Printf("error:       %v\n", err)
	}
	for i, l := range result.Logs {
		fmt.Printf("log[%d]:      address=%s data=0x%s topics=%d\n", i, l.Address.Hex(), hex.EncodeToString(l.Data), len(l.Topics))
	}
	for i, c := range result.Created {
		fmt.Printf("created[%d]:  %s\n", i, c.Address.Hex())
	}
	if trace {
		for _, t := range result.Trace {
			fmt.Printf("pc=%-5d op=%-14s gas=%-10d cost=%-6d depth=%d\n", t.PC, t.Op, t.Gas, t.GasCost, t.Depth)
		}
	}
}

func setupLogging(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 1:
		lvl = slog.LevelError
	case verbosity == 2:
		lvl = slog.LevelWarn
	case verbosity == 3:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	log.SetDefault(log.New(lvl))
}
