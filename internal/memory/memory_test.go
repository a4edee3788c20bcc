package memory

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetBytesMarksAssigned(t *testing.T) {
	s := New()
	s.SetBytes(0x8000, []byte{1, 2, 3})

	assert.Equal(t, byte(1), s.ReadByte(0x8000))
	assert.Equal(t, byte(2), s.ReadByte(0x8001))
	assert.Equal(t, byte(3), s.ReadByte(0x8002))
	assert.Equal(t, true, s.Attr(0x8000).Has(Assigned))
	assert.Equal(t, false, s.Attr(0x9000).Has(Assigned))
}

func TestSetBytesWrapsAtSize(t *testing.T) {
	s := New()
	s.SetBytes(0xFFFE, []byte{0xAA, 0xBB, 0xCC})

	assert.Equal(t, byte(0xAA), s.ReadByte(0xFFFE))
	assert.Equal(t, byte(0xBB), s.ReadByte(0xFFFF))
	assert.Equal(t, byte(0xCC), s.ReadByte(0x0000))
}

func TestReadWordLittleEndian(t *testing.T) {
	s := New()
	s.SetBytes(0x4000, []byte{0x34, 0x12})

	assert.Equal(t, uint16(0x1234), s.ReadWord(0x4000))
}

func TestReadWordBEBigEndian(t *testing.T) {
	s := New()
	s.SetBytes(0x4000, []byte{0x12, 0x34})

	assert.Equal(t, uint16(0x1234), s.ReadWordBE(0x4000))
}

func TestCodeFirstImpliesCode(t *testing.T) {
	s := New()
	s.OrAttr(0x0100, 1, CodeFirst)
	s.OrAttr(0x0100, 3, Code)

	assert.Equal(t, true, s.Attr(0x0100).Has(CodeFirst|Code))
	for addr := uint16(0x0101); addr < 0x0103; addr++ {
		attr := s.Attr(addr)
		assert.Equal(t, true, attr.Has(Code))
		assert.Equal(t, false, attr.Has(CodeFirst))
	}
}

func TestOrAttrWrapsAroundAddressSpace(t *testing.T) {
	s := New()
	s.OrAttr(0xFFFF, 2, Data)

	assert.Equal(t, true, s.Attr(0xFFFF).Has(Data))
	assert.Equal(t, true, s.Attr(0x0000).Has(Data))
}
