package loader

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
)

func TestLoadBinary(t *testing.T) {
	mem := memory.New()
	err := LoadBinary(mem, 0x8000, bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	assert.NoError(t, err)

	assert.Equal(t, byte(0x01), mem.ReadByte(0x8000))
	assert.Equal(t, byte(0x03), mem.ReadByte(0x8002))
	assert.Equal(t, true, mem.Attr(0x8000).Has(memory.Assigned))
}

func TestLoadBinaryWraps(t *testing.T) {
	mem := memory.New()
	err := LoadBinary(mem, 0xFFFE, bytes.NewReader([]byte{0x11, 0x22, 0x33}))
	assert.NoError(t, err)

	assert.Equal(t, byte(0x11), mem.ReadByte(0xFFFE))
	assert.Equal(t, byte(0x33), mem.ReadByte(0x0000))
}

func TestLoadSNA(t *testing.T) {
	header := make([]byte, snaHeaderSize)
	image := make([]byte, snaImageSize)

	sp := uint16(0x8000)
	header[23] = byte(sp)
	header[24] = byte(sp >> 8)

	start := uint16(0x9000)
	image[sp-snaImageBase] = byte(start)
	image[sp-1-snaImageBase] = byte(start >> 8)
	image[start-snaImageBase] = 0xC9 // RET, so the entry point traces cleanly

	data := append(append([]byte{}, header...), image...)

	mem := memory.New()
	d := disasm.New(mem, options.NewDisassembler(), nil)
	err := LoadSNA(d, bytes.NewReader(data))
	assert.NoError(t, err)

	_, err = d.Run(context.Background())
	assert.NoError(t, err)
}

func TestLoadTrace(t *testing.T) {
	mem := memory.New()
	mem.SetBytes(0x0038, []byte{0xC9})
	mem.SetBytes(0x0100, []byte{0xC9})

	d := disasm.New(mem, options.NewDisassembler(), nil)
	input := "0038: RET\nnoise line\n0100: RET\n0100: RET\n"
	err := LoadTrace(d, strings.NewReader(input))
	assert.NoError(t, err)

	store, err := d.Run(context.Background())
	assert.NoError(t, err)

	l := store.Get(0x0038)
	assert.Equal(t, true, l != nil)
}
