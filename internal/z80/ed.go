package z80

import (
	"fmt"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

// decodeED decodes an ED-prefixed instruction. Every documented ED form is exactly 2 bytes
// (the prefix plus one opcode byte) except the 4-byte LD (nn),rp / LD rp,(nn) forms, which
// read a little-endian address, and the ZX Spectrum Next PUSH nn extension, which reads a
// big-endian 16-bit literal. Undefined ED forms decode as a 2-byte NOP, matching their
// documented behaviour on real hardware.
func decodeED(mem *memory.Space, addr uint16) *Instruction {
	op := mem.ReadByte(addr + 1)

	if op == 0x8A {
		in := &Instruction{
			Address: addr, Length: 4,
			Bytes:    []byte{0xED, 0x8A, mem.ReadByte(addr + 2), mem.ReadByte(addr + 3)},
			Template: "PUSH %s",
		}
		in.HasValue = true
		in.Value = mem.ReadWordBE(addr + 2)
		in.ValueKind = label.NumberWordBigEndian
		return in
	}

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	in := edPlain(mem, addr, "NOP")

	switch {
	case x == 1:
		in = decodeEDX1(mem, addr, y, z, p, q)
	case x == 2 && z <= 3 && y >= 4:
		in = decodeEDBlock(mem, addr, y, z)
	}
	return in
}

func edPlain(mem *memory.Space, addr uint16, template string) *Instruction {
	return &Instruction{
		Address:  addr,
		Length:   2,
		Bytes:    []byte{mem.ReadByte(addr), mem.ReadByte(addr + 1)},
		Template: template,
	}
}

func decodeEDX1(mem *memory.Space, addr uint16, y, z, p, q byte) *Instruction {
	switch z {
	case 0:
		if y == 6 {
			return edPlain(mem, addr, "IN (C)")
		}
		return edPlain(mem, addr, fmt.Sprintf("IN %s,(C)", r8[y]))
	case 1:
		if y == 6 {
			return edPlain(mem, addr, "OUT (C),0")
		}
		return edPlain(mem, addr, fmt.Sprintf("OUT (C),%s", r8[y]))
	case 2:
		if q == 0 {
			return edPlain(mem, addr, fmt.Sprintf("SBC HL,%s", rp[p]))
		}
		return edPlain(mem, addr, fmt.Sprintf("ADC HL,%s", rp[p]))
	case 3:
		return decodeEDLoadAbsolute(mem, addr, p, q)
	case 4:
		return edPlain(mem, addr, "NEG")
	case 5:
		if y == 1 {
			in := edPlain(mem, addr, "RETI")
			in.Flags |= Stop
			return in
		}
		in := edPlain(mem, addr, "RETN")
		in.Flags |= Stop
		return in
	case 6:
		modes := [8]string{"0", "0", "1", "2", "0", "1", "2", "2"}
		return edPlain(mem, addr, fmt.Sprintf("IM %s", modes[y]))
	default: // z == 7
		names := [8]string{"LD I,A", "LD R,A", "LD A,I", "LD A,R", "RRD", "RLD", "NOP", "NOP"}
		return edPlain(mem, addr, names[y])
	}
}

func decodeEDLoadAbsolute(mem *memory.Space, addr uint16, p, q byte) *Instruction {
	nn := mem.ReadWord(addr + 2)
	b := []byte{mem.ReadByte(addr), mem.ReadByte(addr + 1), byte(nn), byte(nn >> 8)}
	var template string
	if q == 0 {
		template = fmt.Sprintf("LD (%%s),%s", rp[p])
	} else {
		template = fmt.Sprintf("LD %s,(%%s)", rp[p])
	}
	in := &Instruction{Address: addr, Length: 4, Bytes: b, Template: template}
	in.HasValue = true
	in.Value = nn
	in.ValueKind = label.DataLbl
	return in
}

func decodeEDBlock(mem *memory.Space, addr uint16, y, z byte) *Instruction {
	names := [4][4]string{
		{"LDI", "CPI", "INI", "OUTI"},
		{"LDD", "CPD", "IND", "OUTD"},
		{"LDIR", "CPIR", "INIR", "OTIR"},
		{"LDDR", "CPDR", "INDR", "OTDR"},
	}
	return edPlain(mem, addr, names[y-4][z])
}
