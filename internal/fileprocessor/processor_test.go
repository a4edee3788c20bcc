package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80disasm/internal/config"
	"github.com/retroenv/z80disasm/internal/options"
)

func TestProcessFileBinary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.bin")
	output := filepath.Join(dir, "test.asm")
	dot := filepath.Join(dir, "test.dot")

	// LD A,5 ; RET
	assert.NoError(t, os.WriteFile(input, []byte{0x3E, 0x05, 0xC9}, 0o644))

	opts := options.Program{
		Input:   input,
		Output:  output,
		DOT:     dot,
		Entries: "0",
		Quiet:   true,
	}
	logger := config.NewLogger(opts)

	assert.NoError(t, ProcessFile(context.Background(), logger, opts, options.NewDisassembler()))

	listing, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(listing), "SUB1:")
	assert.Contains(t, string(listing), "ld   a,$05")

	graph, err := os.ReadFile(dot)
	assert.NoError(t, err)
	assert.Contains(t, string(graph), "digraph calls {")
}

func TestProcessFileWithTrace(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.bin")
	trace := filepath.Join(dir, "test.tr")
	output := filepath.Join(dir, "test.asm")

	// RET at 0, RET at 4 only reachable through the trace
	assert.NoError(t, os.WriteFile(input, []byte{0xC9, 0x00, 0x00, 0x00, 0xC9}, 0o644))
	traceText := "0004: ret\n0000: ret\nnot an address line\n"
	assert.NoError(t, os.WriteFile(trace, []byte(traceText), 0o644))

	opts := options.Program{
		Input:  input,
		Output: output,
		Trace:  trace,
		Quiet:  true,
	}
	logger := config.NewLogger(opts)

	assert.NoError(t, ProcessFile(context.Background(), logger, opts, options.NewDisassembler()))

	listing, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(listing), "INTRPT")
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, "sna", detectKind(options.Program{Input: "game.SNA"}))
	assert.Equal(t, "bin", detectKind(options.Program{Input: "game.rom"}))
	assert.Equal(t, "sna", detectKind(options.Program{Input: "game.rom", Kind: "sna"}))
}

func TestParseJumpTable(t *testing.T) {
	addr, count, err := parseJumpTable("4000,8")
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x4000), addr)
	assert.Equal(t, 8, count)

	_, _, err = parseJumpTable("4000")
	assert.Error(t, err)
	_, _, err = parseJumpTable("zz,8")
	assert.Error(t, err)
	_, _, err = parseJumpTable("4000,0")
	assert.Error(t, err)
}

func TestFormatAddresses(t *testing.T) {
	out := formatAddresses([]uint16{0x1234, 0x38})
	assert.True(t, strings.Contains(out, "$1234"))
	assert.True(t, strings.Contains(out, "$0038"))
}
