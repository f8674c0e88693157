package vm

import "github.com/ethlab/pvm/core/types"

// makeLog returns an executionFunc for LOGn: it pops memStart, memLen,
// then n topics, and appends {owner, topics, memory[memStart:memStart+memLen]}
// to the result's log list. The second popped value (memLen) is a byte
// length, not a second
// offset -- preserved literally here.
func makeLog(n int) executionFunc {
	return func(p *Program) error {
		if err := p.requireNotStatic(); err != nil {
			return err
		}
		memStart, memLen := p.Stack.Pop(), p.Stack.Pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t := p.Stack.Pop()
			topics[i] = types.BytesToHash(t.Bytes())
		}
		data := p.Memory.Get(memStart.Uint64(), memLen.Uint64())
		p.Result.Logs = append(p.Result.Logs, types.Log{
			Address: p.owner(),
			Topics:  topics,
			Data:    data,
		})
		return nil
	}
}
