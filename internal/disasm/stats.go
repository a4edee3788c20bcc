package disasm

import (
	"sort"
	"strings"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/z80"
)

// addCallsListToLabels is the first half of pass 10: for each top-level label, every referrer's
// owning parent gets that label appended to its callee list, in ascending referrer order.
// Duplicates are expected and kept; the list is for presentation, not set membership.
func (d *Disasm) addCallsListToLabels() {
	for _, addr := range d.topLevelAddresses() {
		l := d.store.Get(addr)
		if l == nil {
			continue
		}

		refs := make([]uint16, 0, len(l.Referrers))
		for ref := range l.Referrers {
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })

		for _, ref := range refs {
			if p := d.parent[ref]; p != nil {
				p.Callees = append(p.Callees, l)
			}
		}
	}
}

// countStatistics is the second half of pass 10: for each non-EQU top-level label, walk its body
// (stopping at another CodeSub/CodeRst, at Stop, at unassigned bytes, and at already-visited
// addresses) and total up size, instruction count, and cyclomatic complexity.
func (d *Disasm) countStatistics() {
	for _, addr := range d.topLevelAddresses() {
		l := d.store.Get(addr)
		if l == nil || l.IsEqu {
			continue
		}

		body := d.walkBody(addr, func(a uint16) bool {
			other := d.store.Get(a)
			return other != nil && (other.Type == label.CodeSub || other.Type == label.CodeRst)
		})

		stats := label.Stats{CyclomaticComplexity: 1}
		for a := range body {
			in := z80.Decode(d.mem, a)
			stats.SizeInBytes += in.Length
			stats.CountOfInstructions++
			stats.CyclomaticComplexity += conditionalContribution(in)
		}

		l.Stats = stats
		d.accumulateMinMax(stats)
	}
}

// conditionalContribution reports whether in is a conditional branch (JR/JP/CALL with a
// condition-code operand, or DJNZ, which is inherently conditional without one) or a conditional
// return (mnemonic starting "RET " with a trailing condition), each contributing 1 to cyclomatic
// complexity.
func conditionalContribution(in *z80.Instruction) int {
	mnemonic := in.Mnemonic("x")
	if strings.HasPrefix(mnemonic, "RET ") {
		return 1
	}
	if !in.Flags.Has(z80.BranchAddress) {
		return 0
	}
	if strings.HasPrefix(mnemonic, "DJNZ") || strings.Contains(mnemonic, ",") {
		return 1
	}
	return 0
}

func (d *Disasm) accumulateMinMax(stats label.Stats) {
	if !d.hasStats {
		d.statsMin = stats
		d.statsMax = stats
		d.hasStats = true
		return
	}
	if stats.CyclomaticComplexity < d.statsMin.CyclomaticComplexity {
		d.statsMin.CyclomaticComplexity = stats.CyclomaticComplexity
	}
	if stats.CyclomaticComplexity > d.statsMax.CyclomaticComplexity {
		d.statsMax.CyclomaticComplexity = stats.CyclomaticComplexity
	}
	if stats.SizeInBytes < d.statsMin.SizeInBytes {
		d.statsMin.SizeInBytes = stats.SizeInBytes
	}
	if stats.SizeInBytes > d.statsMax.SizeInBytes {
		d.statsMax.SizeInBytes = stats.SizeInBytes
	}
	if stats.CountOfInstructions < d.statsMin.CountOfInstructions {
		d.statsMin.CountOfInstructions = stats.CountOfInstructions
	}
	if stats.CountOfInstructions > d.statsMax.CountOfInstructions {
		d.statsMax.CountOfInstructions = stats.CountOfInstructions
	}
}
