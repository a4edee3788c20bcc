package listing

import (
	"context"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
)

func disassemble(t *testing.T, origin uint16, bytes []byte, entries ...uint16) (*disasm.Disasm, string) {
	t.Helper()

	mem := memory.New()
	mem.SetBytes(origin, bytes)
	dis := disasm.New(mem, options.NewDisassembler(), nil)
	for _, e := range entries {
		dis.AddEntryPoint(e)
	}
	store, err := dis.Run(context.Background())
	assert.NoError(t, err)

	buf := &strings.Builder{}
	assert.NoError(t, New(dis, store, buf, options.NewDisassembler()).Write())
	return dis, buf.String()
}

func TestWriteSimpleSubroutine(t *testing.T) {
	_, out := disassemble(t, 0, []byte{0x3E, 0x05, 0xC9}, 0)

	assert.Contains(t, out, "org 0 ; 0000h")
	assert.Contains(t, out, "SUB1:")
	assert.Contains(t, out, "ld   a,$05")
	assert.Contains(t, out, "ret")
	assert.Contains(t, out, "3E 05") // raw bytes column
}

func TestWriteUpperCase(t *testing.T) {
	mem := memory.New()
	mem.SetBytes(0, []byte{0x3E, 0x05, 0xC9})
	dis := disasm.New(mem, options.NewDisassembler(), nil)
	dis.AddEntryPoint(0)
	store, err := dis.Run(context.Background())
	assert.NoError(t, err)

	opts := options.NewDisassembler()
	opts.OpcodesLowerCase = false
	buf := &strings.Builder{}
	assert.NoError(t, New(dis, store, buf, opts).Write())

	assert.Contains(t, buf.String(), "LD   A,$05")
	assert.Contains(t, buf.String(), "ORG 0 ; 0000h")
}

func TestWriteEquPreamble(t *testing.T) {
	// JP 0x9000 targets a byte that was never loaded, producing an EQU label.
	_, out := disassemble(t, 0, []byte{0xC3, 0x00, 0x90}, 0)

	assert.Contains(t, out, "equ 36864 ; 9000h.")
	assert.Contains(t, out, "SUB1[0000]")
}

func TestWriteSelfModifyingOffset(t *testing.T) {
	// LD A,(0x1001) reads the immediate byte of the LD A,nn at 0x1000. The data label moves
	// to the instruction start and the immediate renders via the offset suffix.
	bytes := []byte{0x3E, 0x00, 0xC9, 0x3A, 0x01, 0x10, 0xC9}
	_, out := disassemble(t, 0x1000, bytes, 0x1000, 0x1003)

	assert.Contains(t, out, "SELF_MOD1+1")
}

func TestWriteDataBytes(t *testing.T) {
	// RET followed by two raw data bytes that no trace ever decodes.
	_, out := disassemble(t, 0, []byte{0xC9, 0x41, 0x02}, 0)

	assert.Contains(t, out, "defb $41")
	assert.Contains(t, out, "'A'")
	assert.Contains(t, out, "defb $02")
}

func TestWriteReferenceComments(t *testing.T) {
	// CALL 0x0005 gives SUB2 a referrer owned by SUB1.
	_, out := disassemble(t, 0, []byte{0xCD, 0x05, 0x00, 0x00, 0xC9, 0xC9}, 0)

	assert.Contains(t, out, "SUB2:")
	assert.Contains(t, out, "SUB1[0000]")
}

func TestWriteOrgTransitions(t *testing.T) {
	mem := memory.New()
	mem.SetBytes(0, []byte{0xC9})
	mem.SetBytes(0x8000, []byte{0xC9})
	dis := disasm.New(mem, options.NewDisassembler(), nil)
	dis.AddEntryPoint(0)
	dis.AddEntryPoint(0x8000)
	store, err := dis.Run(context.Background())
	assert.NoError(t, err)

	buf := &strings.Builder{}
	assert.NoError(t, New(dis, store, buf, options.NewDisassembler()).Write())
	out := buf.String()

	assert.Contains(t, out, "org 0 ; 0000h")
	assert.Contains(t, out, "org 32768 ; 8000h")
}
