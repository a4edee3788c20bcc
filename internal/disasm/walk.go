package disasm

import (
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/z80"
)

// walkBody performs an iterative depth-first walk over linear flow plus non-call branch targets
// (JP/JR/DJNZ, never CALL/RST), starting at start. stop, if non-nil, is consulted for every
// address other than start; when it returns true that address is excluded from the body and not
// explored further. A Stop instruction still has its branch target followed (that is where
// control actually goes); only the fall-through successor is cut. The walk also stops at
// unassigned bytes and addresses already visited. An explicit stack bounds recursion depth to
// the size of the address space.
func (d *Disasm) walkBody(start uint16, stop func(addr uint16) bool) set.Set[uint16] {
	visited := set.New[uint16]()
	stack := []uint16{start}

	for len(stack) > 0 {
		addr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Contains(addr) {
			continue
		}
		if addr != start && stop != nil && stop(addr) {
			continue
		}
		if !d.mem.Attr(addr).Has(memory.CodeFirst) {
			continue
		}
		visited.Add(addr)

		in := z80.Decode(d.mem, addr)
		if in.Flags.Has(z80.BranchAddress) && !in.Flags.Has(z80.Call) {
			stack = append(stack, in.Value)
		}
		if !in.Flags.Has(z80.Stop) {
			stack = append(stack, addr+uint16(in.Length))
		}
	}

	return visited
}
