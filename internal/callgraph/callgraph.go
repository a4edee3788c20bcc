// Package callgraph emits the call graph of a finished disassembly in Graphviz DOT syntax:
// one node per top-level code label, sized by cyclomatic complexity, with an edge from every
// label to each of its distinct callees.
package callgraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80disasm/internal/label"
)

const (
	fontSizeMin = 13
	fontSizeMax = 40
)

// Writer emits the DOT call graph.
type Writer struct {
	store    *label.Store
	statsMin label.Stats
	statsMax label.Stats
	hasStats bool
	warned   set.Set[uint16] // labels flagged by the self-calling-subroutine warning
	writer   io.Writer
}

// New creates a call graph writer. warned holds the addresses of labels the parent pass warned
// about; it may be nil.
func New(store *label.Store, statsMin, statsMax label.Stats, hasStats bool,
	warned set.Set[uint16], writer io.Writer) *Writer {

	if warned == nil {
		warned = set.New[uint16]()
	}
	return &Writer{
		store:    store,
		statsMin: statsMin,
		statsMax: statsMax,
		hasStats: hasStats,
		warned:   warned,
		writer:   writer,
	}
}

// Write writes the whole digraph.
func (w *Writer) Write() error {
	b := &strings.Builder{}
	b.WriteString("digraph calls {\n")

	var noReferrers, lblWithReferrers []*label.Label
	w.store.Range(func(l *label.Label) {
		if !l.Type.IsTopLevelCode() {
			return
		}
		w.writeNode(b, l)
		if len(l.Referrers) == 0 {
			noReferrers = append(noReferrers, l)
		} else if l.Type == label.CodeLbl {
			lblWithReferrers = append(lblWithReferrers, l)
		}
	})

	writeRank(b, noReferrers)
	writeRank(b, lblWithReferrers)

	w.store.Range(func(l *label.Label) {
		if !l.Type.IsTopLevelCode() {
			return
		}
		seen := set.New[uint16]()
		for _, callee := range l.Callees {
			if seen.Contains(callee.Address) {
				continue
			}
			seen.Add(callee.Address)
			fmt.Fprintf(b, "  %s -> %s;\n", dotID(l.Name), dotID(callee.Name))
		}
	})

	b.WriteString("}\n")

	if _, err := io.WriteString(w.writer, b.String()); err != nil {
		return fmt.Errorf("writing call graph: %w", err)
	}
	return nil
}

func (w *Writer) writeNode(b *strings.Builder, l *label.Label) {
	if l.IsEqu {
		fmt.Fprintf(b, "  %s [label=%q, color=grey, fontcolor=grey, fontsize=%d];\n",
			dotID(l.Name), l.Name, fontSizeMin)
		return
	}

	text := fmt.Sprintf("%s\\nSize=%d\\nCC=%d", l.Name, l.Stats.SizeInBytes, l.Stats.CyclomaticComplexity)
	attrs := fmt.Sprintf("label=\"%s\", fontsize=%d", text, w.fontSize(l.Stats.CyclomaticComplexity))

	switch {
	case w.warned.Contains(l.Address):
		attrs += ", style=filled, fillcolor=lightblue"
	case len(l.Referrers) == 0:
		attrs += ", style=filled, fillcolor=lightyellow"
	}

	fmt.Fprintf(b, "  %s [%s];\n", dotID(l.Name), attrs)
}

// fontSize scales linearly between the bounds over the observed cyclomatic complexity range.
func (w *Writer) fontSize(cc int) int {
	if !w.hasStats {
		return fontSizeMin
	}
	span := w.statsMax.CyclomaticComplexity - w.statsMin.CyclomaticComplexity
	if span == 0 {
		return fontSizeMin
	}
	return fontSizeMin + (cc-w.statsMin.CyclomaticComplexity)*(fontSizeMax-fontSizeMin)/span
}

// writeRank places the given labels on one horizontal row.
func writeRank(b *strings.Builder, labels []*label.Label) {
	if len(labels) == 0 {
		return
	}
	b.WriteString("  { rank=same; ")
	for _, l := range labels {
		fmt.Fprintf(b, "%s; ", dotID(l.Name))
	}
	b.WriteString("}\n")
}

// dotID creates a safe DOT identifier from a label name.
func dotID(name string) string {
	b := strings.Builder{}
	b.WriteString("n_")
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			fmt.Fprintf(&b, "_%04x", c)
		}
	}
	return b.String()
}
