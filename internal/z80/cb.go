package z80

import (
	"fmt"

	"github.com/retroenv/z80disasm/internal/memory"
)

// decodeCB decodes a non-indexed CB-prefixed instruction: CB op, 2 bytes total. None of these
// carry an immediate or branch target; they operate purely on a register or (HL).
func decodeCB(mem *memory.Space, addr uint16) *Instruction {
	op := mem.ReadByte(addr + 1)
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	var template string
	switch x {
	case 0:
		template = fmt.Sprintf("%s %s", rotOp[y], r8[z])
	case 1:
		template = fmt.Sprintf("BIT %d,%s", y, r8[z])
	case 2:
		template = fmt.Sprintf("RES %d,%s", y, r8[z])
	default:
		template = fmt.Sprintf("SET %d,%s", y, r8[z])
	}

	b := []byte{mem.ReadByte(addr), op}
	return &Instruction{Address: addr, Length: 2, Bytes: b, Template: template}
}
