package disasm

import (
	"fmt"

	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/z80"
)

// findInterruptLabels is pass 2: walk the whole address space looking for CodeFirst bytes that
// have no label yet, where either the previous byte was unassigned/non-code or the previous
// CodeFirst instruction ended with Stop. These are interrupt service routine entry points that
// pass 1 never reached by following calls or jumps. The SNA start address is exempt.
func (d *Disasm) findInterruptLabels() {
	var found []uint16

	for i := 0; i <= 0xFFFF; i++ {
		addr := uint16(i)
		attr := d.mem.Attr(addr)
		if !attr.Has(memory.CodeFirst) || !attr.Has(memory.Assigned) {
			continue
		}
		if d.store.Get(addr) != nil {
			continue
		}
		if d.hasSNAStart && addr == d.snaStart {
			continue
		}
		if d.precedingEndsTraceOrIsBoundary(addr) {
			found = append(found, addr)
		}
	}

	for idx, addr := range found {
		name := d.opts.LabelIntrptPrefix
		if len(found) > 1 {
			name = fmt.Sprintf("%s%d", d.opts.LabelIntrptPrefix, idx+1)
		}
		l := d.store.SetFixed(addr, name, true)
		l.BelongsToInterrupt = true
	}
}

func (d *Disasm) precedingEndsTraceOrIsBoundary(addr uint16) bool {
	if addr == 0 {
		return true
	}
	prev := addr - 1
	if !d.mem.Attr(prev).Has(memory.Code) {
		return true
	}
	start, in, ok := d.instructionCovering(prev)
	if !ok {
		return true
	}
	return in.Flags.Has(z80.Stop) && start+uint16(in.Length) == addr
}
