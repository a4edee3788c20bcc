package callgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
)

func graph(t *testing.T, bytes []byte, warned set.Set[uint16], entries ...uint16) string {
	t.Helper()

	mem := memory.New()
	mem.SetBytes(0, bytes)
	dis := disasm.New(mem, options.NewDisassembler(), nil)
	for _, e := range entries {
		dis.AddEntryPoint(e)
	}
	store, err := dis.Run(context.Background())
	assert.NoError(t, err)

	statsMin, statsMax, hasStats := dis.Statistics()
	buf := &strings.Builder{}
	assert.NoError(t, New(store, statsMin, statsMax, hasStats, warned, buf).Write())
	return buf.String()
}

func TestWriteCallEdge(t *testing.T) {
	// CALL 0x0005 ; NOP ; RET / RET: SUB1 calls SUB2.
	out := graph(t, []byte{0xCD, 0x05, 0x00, 0x00, 0xC9, 0xC9}, nil, 0)

	assert.Contains(t, out, "digraph calls {")
	assert.Contains(t, out, "n_SUB1 ->")
	assert.Contains(t, out, "n_SUB2")
	assert.Contains(t, out, "Size=5")
	assert.Contains(t, out, "CC=1")
}

func TestWriteEntryNodeTint(t *testing.T) {
	// the entry subroutine has no referrers and is ranked and tinted as an orphan
	out := graph(t, []byte{0x3E, 0x05, 0xC9}, nil, 0)

	assert.Contains(t, out, "fillcolor=lightyellow")
	assert.Contains(t, out, "rank=same")
}

func TestWriteWarnedNodeTint(t *testing.T) {
	warned := set.New[uint16]()
	warned.Add(0)
	out := graph(t, []byte{0x3E, 0x05, 0xC9}, warned, 0)

	assert.Contains(t, out, "fillcolor=lightblue")
}

func TestWriteEquNodeGrey(t *testing.T) {
	// JP into unassigned memory creates an EQU subroutine label
	out := graph(t, []byte{0xC3, 0x00, 0x90}, nil, 0)

	assert.Contains(t, out, "color=grey")
}

func TestWriteDistinctCallees(t *testing.T) {
	// two calls to the same target produce a single edge
	out := graph(t, []byte{0xCD, 0x07, 0x00, 0xCD, 0x07, 0x00, 0xC9, 0xC9}, nil, 0)

	assert.Equal(t, 1, strings.Count(out, "n_SUB1 -> n_SUB2;"))
}
