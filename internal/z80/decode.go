package z80

import "github.com/retroenv/z80disasm/internal/memory"

// Decode decodes the instruction at addr. It never returns an error for in-range addresses:
// unassigned bytes are handled by the caller (internal/disasm checks Attr before calling
// Decode), and undefined opcodes decode to their documented Z80 behaviour (most ED-prefixed
// undefined forms behave as an 8-cycle NOP on real hardware).
func Decode(mem *memory.Space, addr uint16) *Instruction {
	op := mem.ReadByte(addr)

	switch op {
	case 0xCB:
		return decodeCB(mem, addr)
	case 0xDD:
		return decodeIndexed(mem, addr, 0xDD, "IX")
	case 0xED:
		return decodeED(mem, addr)
	case 0xFD:
		return decodeIndexed(mem, addr, 0xFD, "IY")
	default:
		return decodeBase(mem, addr)
	}
}
