package disasm

import (
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

// adjustSelfModifyingLabels is pass 5: every DataLbl whose target falls inside an already
// decoded instruction (Code set, CodeFirst not set) is self-modifying-code evidence. The label
// moves to the instruction's first byte, and the original address is recorded as a signed
// offset from that anchor so rendering can reconstruct "ANCHOR+N"/"ANCHOR-N" text.
func (d *Disasm) adjustSelfModifyingLabels() {
	var targets []uint16
	for addr, l := range d.store.All() {
		if l.Type == label.DataLbl {
			targets = append(targets, addr)
		}
	}

	for _, addr := range targets {
		l := d.store.Get(addr)
		if l == nil {
			continue
		}
		attr := d.mem.Attr(addr)
		if !attr.Has(memory.Code) || attr.Has(memory.CodeFirst) {
			continue
		}

		start, _, ok := d.instructionCovering(addr)
		if !ok {
			continue
		}

		referrers := make([]uint16, 0, len(l.Referrers))
		for ref := range l.Referrers {
			referrers = append(referrers, ref)
		}

		d.store.SetFound(start, referrers, l.Type, d.mem.Attr(start))
		d.store.Delete(addr)
		d.store.SetOffset(addr, int16(start)-int16(addr))
	}
}
