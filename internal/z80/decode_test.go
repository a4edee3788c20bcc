package z80

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

func newMem(t *testing.T, origin uint16, b ...byte) *memory.Space {
	t.Helper()
	m := memory.New()
	m.SetBytes(origin, b)
	return m
}

func TestDecodeNOP(t *testing.T) {
	m := newMem(t, 0, 0x00)
	in := Decode(m, 0)
	assert.Equal(t, 1, in.Length)
	assert.Equal(t, "NOP", in.Mnemonic(""))
}

func TestDecodeLDBCNN(t *testing.T) {
	m := newMem(t, 0, 0x01, 0x34, 0x12)
	in := Decode(m, 0)
	assert.Equal(t, 3, in.Length)
	assert.Equal(t, true, in.HasValue)
	assert.Equal(t, uint16(0x1234), in.Value)
	assert.Equal(t, label.NumberWord, in.ValueKind)
}

func TestDecodeJRRelativeForward(t *testing.T) {
	m := newMem(t, 0x100, 0x18, 0x05)
	in := Decode(m, 0x100)
	assert.Equal(t, uint16(0x107), in.Value)
	assert.Equal(t, true, in.Flags.Has(BranchAddress))
	assert.Equal(t, true, in.Flags.Has(Stop))
}

func TestDecodeJRRelativeBackward(t *testing.T) {
	m := newMem(t, 0x100, 0x18, 0xFB) // -5
	in := Decode(m, 0x100)
	assert.Equal(t, uint16(0xFD), in.Value)
}

func TestDecodeCALLNN(t *testing.T) {
	m := newMem(t, 0, 0xCD, 0x00, 0x80)
	in := Decode(m, 0)
	assert.Equal(t, label.CodeSub, in.ValueKind)
	assert.Equal(t, true, in.Flags.Has(Call))
	assert.Equal(t, uint16(0x8000), in.Value)
}

func TestDecodeRST(t *testing.T) {
	m := newMem(t, 0, 0xFF) // RST 38h
	in := Decode(m, 0)
	assert.Equal(t, uint16(0x38), in.Value)
	assert.Equal(t, label.CodeRst, in.ValueKind)
	assert.Equal(t, "RST $38", in.Mnemonic(""))
}

func TestDecodeCBRotate(t *testing.T) {
	m := newMem(t, 0, 0xCB, 0x00) // RLC B
	in := Decode(m, 0)
	assert.Equal(t, 2, in.Length)
	assert.Equal(t, "RLC B", in.Mnemonic(""))
}

func TestDecodeCBBit(t *testing.T) {
	m := newMem(t, 0, 0xCB, 0x7E) // BIT 7,(HL)
	in := Decode(m, 0)
	assert.Equal(t, "BIT 7,(HL)", in.Mnemonic(""))
}

func TestDecodeEDBlockLDIR(t *testing.T) {
	m := newMem(t, 0, 0xED, 0xB0)
	in := Decode(m, 0)
	assert.Equal(t, "LDIR", in.Mnemonic(""))
}

func TestDecodeEDRETN(t *testing.T) {
	m := newMem(t, 0, 0xED, 0x45)
	in := Decode(m, 0)
	assert.Equal(t, true, in.Flags.Has(Stop))
	assert.Equal(t, "RETN", in.Mnemonic(""))
}

func TestDecodeEDLoadAbsolute(t *testing.T) {
	m := newMem(t, 0, 0xED, 0x43, 0x00, 0x90) // LD (9000h),BC
	in := Decode(m, 0)
	assert.Equal(t, label.DataLbl, in.ValueKind)
	assert.Equal(t, uint16(0x9000), in.Value)
}

func TestDecodeEDNextPushBigEndian(t *testing.T) {
	m := newMem(t, 0, 0xED, 0x8A, 0x12, 0x34)
	in := Decode(m, 0)
	assert.Equal(t, 4, in.Length)
	assert.Equal(t, uint16(0x1234), in.Value)
	assert.Equal(t, label.NumberWordBigEndian, in.ValueKind)
}

func TestDecodeIndexedLDIXNN(t *testing.T) {
	m := newMem(t, 0, 0xDD, 0x21, 0x00, 0x40) // LD IX,4000h
	in := Decode(m, 0)
	assert.Equal(t, 4, in.Length)
	assert.Equal(t, uint16(0x4000), in.Value)
	assert.Equal(t, label.NumberWord, in.ValueKind)
	assert.Equal(t, "LD IX,$4000", in.Mnemonic("$4000"))
}

func TestDecodeIndexedIncMemDisplacement(t *testing.T) {
	m := newMem(t, 0, 0xDD, 0x34, 0x05) // INC (IX+5)
	in := Decode(m, 0)
	assert.Equal(t, 3, in.Length)
	assert.Equal(t, "INC (IX+5)", in.Mnemonic(""))
}

func TestDecodeIndexedLoadMemImmediate(t *testing.T) {
	m := newMem(t, 0, 0xFD, 0x36, 0xFE, 0x42) // LD (IY-2),42h
	in := Decode(m, 0)
	assert.Equal(t, 4, in.Length)
	assert.Equal(t, true, in.HasValue)
	assert.Equal(t, uint16(0x42), in.Value)
}

func TestDecodeIndexedJPIndirectNoDisplacement(t *testing.T) {
	m := newMem(t, 0, 0xDD, 0xE9) // JP (IX)
	in := Decode(m, 0)
	assert.Equal(t, 2, in.Length)
	assert.Equal(t, "JP (IX)", in.Mnemonic(""))
	assert.Equal(t, true, in.Flags.Has(Stop))
}

func TestDecodeIndexedCBBit(t *testing.T) {
	m := newMem(t, 0, 0xDD, 0xCB, 0x02, 0x7E) // BIT 7,(IX+2)
	in := Decode(m, 0)
	assert.Equal(t, 4, in.Length)
	assert.Equal(t, "BIT 7,(IX+2)", in.Mnemonic(""))
}

func TestDecodeIndexedPassthroughUnaffected(t *testing.T) {
	m := newMem(t, 0, 0xDD, 0x3C) // INC A, HL untouched
	in := Decode(m, 0)
	assert.Equal(t, 2, in.Length)
	assert.Equal(t, "INC A", in.Mnemonic(""))
}
