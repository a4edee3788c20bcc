package z80

import (
	"fmt"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

// decodeIndexed decodes a DD- or FD-prefixed instruction. The prefix substitutes HL with IX or
// IY throughout the base opcode table: a bare HL register reference is simply renamed, while an
// (HL) memory reference gains an extra displacement byte and becomes (IX+d) or (IY+d). Opcodes
// that never touch HL behave as if the prefix were absent other than costing the extra byte,
// matching documented Z80 behaviour for these "NONI" forms.
func decodeIndexed(mem *memory.Space, addr uint16, prefix byte, reg string) *Instruction {
	op2 := mem.ReadByte(addr + 1)
	if op2 == 0xCB {
		return decodeIndexedCB(mem, addr, prefix, reg)
	}

	x := op2 >> 6
	y := (op2 >> 3) & 7
	z := op2 & 7
	p := y >> 1
	q := y & 1

	switch {
	case x == 0 && z == 6 && y == 6:
		d := int8(mem.ReadByte(addr + 2))
		n := mem.ReadByte(addr + 3)
		in := &Instruction{
			Address: addr, Length: 4,
			Bytes:    []byte{prefix, op2, byte(d), n},
			Template: fmt.Sprintf("LD (%s%s),%%s", reg, dispText(d)),
		}
		return withByteImm(in, label.NumberByte)
	case x == 0 && z == 4 && y == 6:
		return indexedMemUnary(addr, prefix, op2, mem, reg, "INC")
	case x == 0 && z == 5 && y == 6:
		return indexedMemUnary(addr, prefix, op2, mem, reg, "DEC")
	case x == 1 && y == 6 && z == 6:
		return plain(mem, addr, 2, "NOP") // DD/FD HALT: undocumented, treated as a wasted prefix.
	case x == 1 && y == 6:
		d := int8(mem.ReadByte(addr + 2))
		in := &Instruction{
			Address: addr, Length: 3,
			Bytes:    []byte{prefix, op2, byte(d)},
			Template: fmt.Sprintf("LD (%s%s),%s", reg, dispText(d), r8[z]),
		}
		return in
	case x == 1 && z == 6:
		d := int8(mem.ReadByte(addr + 2))
		in := &Instruction{
			Address: addr, Length: 3,
			Bytes:    []byte{prefix, op2, byte(d)},
			Template: fmt.Sprintf("LD %s,(%s%s)", r8[y], reg, dispText(d)),
		}
		return in
	case x == 2 && z == 6:
		d := int8(mem.ReadByte(addr + 2))
		in := &Instruction{
			Address: addr, Length: 3,
			Bytes:    []byte{prefix, op2, byte(d)},
			Template: aluOp[y] + fmt.Sprintf("(%s%s)", reg, dispText(d)),
		}
		return in
	case x == 3 && z == 1 && q == 1 && p == 2:
		in := plain(mem, addr+1, 1, fmt.Sprintf("JP (%s)", reg))
		in.Flags |= Stop
		return reprefix(in, addr, prefix)
	case x == 3 && z == 1 && q == 1 && p == 3:
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("LD SP,%s", reg)), addr, prefix)
	case x == 0 && z == 1 && q == 0 && p == 2:
		in := plain(mem, addr+1, 3, fmt.Sprintf("LD %s,%%s", reg))
		return reprefix(withWordImm(in, label.NumberWord), addr, prefix)
	case x == 0 && z == 1 && q == 1:
		src := rp[p]
		if p == 2 {
			src = reg
		}
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("ADD %s,%s", reg, src)), addr, prefix)
	case x == 3 && z == 3 && y == 4:
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("EX (SP),%s", reg)), addr, prefix)
	case x == 0 && z == 2 && p == 2:
		if q == 0 {
			in := plain(mem, addr+1, 3, fmt.Sprintf("LD (%%s),%s", reg))
			return reprefix(withWordImm(in, label.DataLbl), addr, prefix)
		}
		in := plain(mem, addr+1, 3, fmt.Sprintf("LD %s,(%%s)", reg))
		return reprefix(withWordImm(in, label.DataLbl), addr, prefix)
	case x == 0 && z == 3 && p == 2:
		if q == 0 {
			return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("INC %s", reg)), addr, prefix)
		}
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("DEC %s", reg)), addr, prefix)
	case x == 3 && z == 1 && q == 0 && p == 2:
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("POP %s", reg)), addr, prefix)
	case x == 3 && z == 5 && q == 0 && p == 2:
		return reprefix(plain(mem, addr+1, 1, fmt.Sprintf("PUSH %s", reg)), addr, prefix)
	default:
		in := decodeBase(mem, addr+1)
		return reprefix(in, addr, prefix)
	}
}

func indexedMemUnary(addr uint16, prefix, op2 byte, mem *memory.Space, reg, mnemonic string) *Instruction {
	d := int8(mem.ReadByte(addr + 2))
	return &Instruction{
		Address: addr, Length: 3,
		Bytes:    []byte{prefix, op2, byte(d)},
		Template: fmt.Sprintf("%s (%s%s)", mnemonic, reg, dispText(d)),
	}
}

// reprefix rebases an instruction decoded at addr+1 back onto addr, prepending the DD/FD prefix
// byte that decodeBase's caller already consumed.
func reprefix(in *Instruction, addr uint16, prefix byte) *Instruction {
	in.Address = addr
	in.Length++
	in.Bytes = append([]byte{prefix}, in.Bytes...)
	return in
}

// decodeIndexedCB decodes the 4-byte DDCB/FDCB form: prefix, CB, displacement, opcode. These
// always address (IX+d)/(IY+d); the register slot in the CB opcode is a legacy encoding quirk
// that also copies the result into a register on real hardware, which this disassembler ignores
// since it only affects execution, not the printed mnemonic.
func decodeIndexedCB(mem *memory.Space, addr uint16, prefix byte, reg string) *Instruction {
	d := int8(mem.ReadByte(addr + 2))
	op := mem.ReadByte(addr + 3)
	x := op >> 6
	y := (op >> 3) & 7

	operand := fmt.Sprintf("(%s%s)", reg, dispText(d))
	var template string
	switch x {
	case 0:
		template = fmt.Sprintf("%s %s", rotOp[y], operand)
	case 1:
		template = fmt.Sprintf("BIT %d,%s", y, operand)
	case 2:
		template = fmt.Sprintf("RES %d,%s", y, operand)
	default:
		template = fmt.Sprintf("SET %d,%s", y, operand)
	}

	return &Instruction{
		Address: addr, Length: 4,
		Bytes:    []byte{prefix, 0xCB, byte(d), op},
		Template: template,
	}
}
