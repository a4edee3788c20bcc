package disasm

import (
	"sort"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/z80"
)

// addFlowThroughReferences is pass 6: for each top-level code label, walk forward linearly
// (never following branches) until either a Stop instruction ends the trace or another
// CodeLbl/CodeSub label is reached. When reached, the address of the last instruction before
// that label is recorded as one of its referrers, capturing control flow that falls through
// from one routine straight into the next without an explicit branch or call.
func (d *Disasm) addFlowThroughReferences() {
	for _, start := range d.topLevelAddresses() {
		l := d.store.Get(start)
		if l == nil {
			continue
		}

		addr := start
		prev := start
		for {
			if !d.mem.Attr(addr).Has(memory.CodeFirst) {
				break
			}
			if addr != start {
				if other := d.store.Get(addr); other != nil && other != l &&
					(other.Type == label.CodeLbl || other.Type == label.CodeSub) {
					other.AddReferrer(prev)
					break
				}
			}

			in := z80.Decode(d.mem, addr)
			if in.Flags.Has(z80.Stop) {
				break
			}
			prev = addr
			addr += uint16(in.Length)
		}
	}
}

// turnLBLintoSUB is pass 7: promote every CodeLbl to CodeSub if any instruction reachable by
// linear flow plus non-call branches is a return, or reaches a label already known to be a
// CodeSub/CodeRst (which short-circuits the walk, since flowing into a subroutine means this
// label must eventually return too).
func (d *Disasm) turnLBLintoSUB() {
	for _, addr := range d.labelAddressesOfType(label.CodeLbl) {
		l := d.store.Get(addr)
		if l == nil || l.Type != label.CodeLbl {
			continue // defensive: only labels still of type CodeLbl are candidates
		}
		if d.reachesReturn(addr) {
			l.Type = label.CodeSub
		}
	}
}

func (d *Disasm) reachesReturn(start uint16) bool {
	visited := map[uint16]bool{}
	stack := []uint16{start}

	for len(stack) > 0 {
		addr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[addr] {
			continue
		}
		if !d.mem.Attr(addr).Has(memory.CodeFirst) {
			continue
		}
		visited[addr] = true

		if addr != start {
			if l := d.store.Get(addr); l != nil && (l.Type == label.CodeSub || l.Type == label.CodeRst) {
				return true
			}
		}

		in := z80.Decode(d.mem, addr)
		if isReturnMnemonic(in.Mnemonic("?")) {
			return true
		}
		if in.Flags.Has(z80.BranchAddress) && !in.Flags.Has(z80.Call) {
			stack = append(stack, in.Value)
		}
		if !in.Flags.Has(z80.Stop) {
			stack = append(stack, addr+uint16(in.Length))
		}
	}

	return false
}

func isReturnMnemonic(mnemonic string) bool {
	return strings.HasPrefix(strings.ToUpper(mnemonic), "RET")
}

// findLocalLabelsInSubroutines is pass 8: for each top-level code label, compute its reachable
// set by linear flow plus non-call branches, crossing into other subroutines' bodies. Any
// non-fixed CodeLbl/CodeSub found in that set whose referrers are all inside it gets demoted to
// a local label scoped to the enclosing top-level label, CodeLocalLoop if any referrer sits
// within 128 bytes after it (the backward-branch range of JR), CodeLocalLbl otherwise.
func (d *Disasm) findLocalLabelsInSubroutines() {
	for _, start := range d.topLevelAddresses() {
		reachable := d.walkBody(start, nil)

		for addr := range reachable {
			if addr == start {
				continue
			}
			l := d.store.Get(addr)
			if l == nil || l.IsFixed {
				continue
			}
			if l.Type != label.CodeLbl && l.Type != label.CodeSub {
				continue
			}
			if !allReferrersIn(l, reachable) {
				continue
			}

			l.Type = label.CodeLocalLbl
			for ref := range l.Referrers {
				if ref-addr <= 128 {
					l.Type = label.CodeLocalLoop
					break
				}
			}
		}
	}
}

func allReferrersIn(l *label.Label, reachable set.Set[uint16]) bool {
	for ref := range l.Referrers {
		if !reachable.Contains(ref) {
			return false
		}
	}
	return true
}

// topLevelAddresses returns the addresses of every CodeLbl/CodeSub/CodeRst label in ascending
// address order, snapshotted so callers may mutate label types while iterating.
func (d *Disasm) topLevelAddresses() []uint16 {
	var out []uint16
	for addr, l := range d.store.All() {
		if l.Type.IsTopLevelCode() {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (d *Disasm) labelAddressesOfType(t label.Type) []uint16 {
	var out []uint16
	for addr, l := range d.store.All() {
		if l.Type == t {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
