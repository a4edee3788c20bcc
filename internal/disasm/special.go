package disasm

import (
	"fmt"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

// setSpecialLabels is pass 3: give the SNA start address a fixed name if it doesn't already have
// a label, and name every unassigned-to-assigned transition in the address space a BIN_START
// data label if it doesn't already have one.
func (d *Disasm) setSpecialLabels() {
	if d.hasSNAStart && d.store.Get(d.snaStart) == nil {
		assigned := d.mem.Attr(d.snaStart).Has(memory.Assigned)
		d.store.SetFixed(d.snaStart, fmt.Sprintf("SNA_LBL_MAIN_START_%s", fmtHex4(d.snaStart)), assigned)
	}

	for i := 0; i <= 0xFFFF; i++ {
		addr := uint16(i)
		if !d.mem.Attr(addr).Has(memory.Assigned) {
			continue
		}
		prevAssigned := i > 0 && d.mem.Attr(addr-1).Has(memory.Assigned)
		if prevAssigned {
			continue
		}
		if d.store.Get(addr) != nil {
			continue
		}
		l := d.store.SetFound(addr, nil, label.DataLbl, d.mem.Attr(addr))
		l.IsFixed = true
		l.Name = fmt.Sprintf("BIN_START_%s", fmtHex4(addr))
	}
}
