package disasm

import (
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/z80"
)

// addParentReferences is pass 9: every top-level code label claims ownership of its reachable
// body, stopping at another top-level label's address. Once every address has an owner,
// referrers that resolve to their own label's parent are pruned (flow internal to a routine is
// not a cross-reference) unless the referring instruction is a CALL, since self-recursive calls
// must survive for the call graph. A subroutine left with only such self-referrers is warned
// about.
func (d *Disasm) addParentReferences() {
	for _, addr := range d.topLevelAddresses() {
		l := d.store.Get(addr)
		if l == nil {
			continue
		}
		body := d.walkBody(addr, func(a uint16) bool {
			other := d.store.Get(a)
			return other != nil && other.Type.IsTopLevelCode()
		})
		for bodyAddr := range body {
			d.parent[bodyAddr] = l
		}
	}

	for _, addr := range d.topLevelAddresses() {
		l := d.store.Get(addr)
		if l == nil {
			continue
		}

		var toDelete []uint16
		for ref := range l.Referrers {
			if d.parent[ref] != l {
				continue
			}
			in := z80.Decode(d.mem, ref)
			if !in.Flags.Has(z80.Call) {
				toDelete = append(toDelete, ref)
			}
		}
		for _, ref := range toDelete {
			delete(l.Referrers, ref)
		}

		if len(l.Referrers) == 0 {
			continue
		}
		if l.Type != label.CodeSub && l.Type != label.CodeRst {
			continue
		}
		selfOnly := true
		for ref := range l.Referrers {
			if d.parent[ref] != l {
				selfOnly = false
				break
			}
		}
		if selfOnly {
			d.warn(Warning{
				Kind:      WarnSelfCallingSub,
				Message:   "subroutine's only remaining referrers are calls to itself",
				Addresses: []uint16{addr},
			})
		}
	}
}
