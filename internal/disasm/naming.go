package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
)

// assignNames is pass 11: every label without a name yet (user-fixed names are left untouched)
// is named by kind. Top-level kinds are named first, since local-label names are derived from
// their parent's resolved name.
func (d *Disasm) assignNames() {
	var subs, lbls, datas, selfMods []*label.Label

	d.store.Range(func(l *label.Label) {
		if l.Name != "" {
			return
		}
		switch l.Type {
		case label.CodeSub:
			if l.BelongsToInterrupt {
				l.Name = d.opts.LabelIntrptPrefix
			} else {
				subs = append(subs, l)
			}
		case label.CodeLbl:
			if l.BelongsToInterrupt {
				l.Name = d.opts.LabelIntrptPrefix
			} else {
				lbls = append(lbls, l)
			}
		case label.CodeRst:
			l.Name = fmt.Sprintf("%s%02d", d.opts.LabelRstPrefix, l.Address)
		case label.DataLbl:
			if d.mem.Attr(l.Address).Has(memory.Code) {
				selfMods = append(selfMods, l)
			} else {
				datas = append(datas, l)
			}
		}
	})

	nameIndexed(subs, d.opts.LabelSubPrefix)
	nameIndexed(lbls, d.opts.LabelLblPrefix)
	nameIndexed(selfMods, d.opts.LabelSelfModifyingPrefix)
	nameIndexed(datas, d.opts.LabelDataLblPrefix)

	d.store.Range(func(l *label.Label) {
		if l.Name != "" || !l.Type.IsLocal() {
			return
		}

		parent := d.parent[l.Address]
		parentName := "unknown"
		if parent != nil && parent.Name != "" {
			parentName = strings.ToLower(parent.Name)
		}

		suffix := d.opts.LabelLocalLablePrefix
		if l.Type == label.CodeLocalLoop {
			suffix = d.opts.LabelLoopPrefix
		}

		siblings := d.localSiblings(parent, l.Type)
		name := fmt.Sprintf(".%s%s", parentName, suffix)
		if len(siblings) > 1 {
			name = fmt.Sprintf("%s%d", name, indexOf(siblings, l)+1)
		}
		l.Name = name
	})
}

func nameIndexed(list []*label.Label, prefix string) {
	width := len(fmt.Sprintf("%d", len(list)))
	for i, l := range list {
		l.Name = fmt.Sprintf("%s%0*d", prefix, width, i+1)
	}
}

func (d *Disasm) localSiblings(parent *label.Label, t label.Type) []*label.Label {
	var out []*label.Label
	d.store.Range(func(l *label.Label) {
		if l.Type == t && d.parent[l.Address] == parent {
			out = append(out, l)
		}
	})
	return out
}

func indexOf(list []*label.Label, target *label.Label) int {
	for i, l := range list {
		if l == target {
			return i
		}
	}
	return -1
}
