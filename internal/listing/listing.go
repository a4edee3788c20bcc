// Package listing implements the assembly listing emitter: it walks the finished address space
// and label store in address order and writes a column-aligned listing with an EQU preamble,
// ORG directives at every load transition, decoded instruction lines and DEFB data lines.
package listing

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
	"github.com/retroenv/z80disasm/internal/z80"
)

// Writer emits the listing for a finished disassembly.
type Writer struct {
	dis     *disasm.Disasm
	store   *label.Store
	mem     *memory.Space
	render  *RenderContext
	options options.Disassembler
	writer  io.Writer
}

// New creates a new listing writer over a finished disassembly.
func New(dis *disasm.Disasm, store *label.Store, writer io.Writer, opts options.Disassembler) *Writer {
	return &Writer{
		dis:     dis,
		store:   store,
		mem:     dis.Memory(),
		render:  NewRenderContext(store),
		options: opts,
		writer:  writer,
	}
}

// Write writes the whole listing: the EQU preamble followed by the body.
func (w *Writer) Write() error {
	if err := w.writeEquLabels(); err != nil {
		return err
	}
	return w.writeBody()
}

// writeEquLabels writes the preamble: one EQU directive per label whose address was never
// assigned a byte, in ascending address order.
func (w *Writer) writeEquLabels() error {
	var equs []*label.Label
	w.store.Range(func(l *label.Label) {
		if l.IsEqu && l.Name != "" {
			equs = append(equs, l)
		}
	})
	if len(equs) == 0 {
		return nil
	}

	for _, l := range equs {
		comment := fmt.Sprintf("%04Xh.", l.Address)
		if refs := w.formatReferrers(l); refs != "" {
			comment += " " + refs
		}
		directive := "EQU"
		if w.options.OpcodesLowerCase {
			directive = "equ"
		}
		if _, err := fmt.Fprintf(w.writer, "%s: %s %d ; %s\n", l.Name, directive, l.Address, comment); err != nil {
			return fmt.Errorf("writing equ label: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w *Writer) writeBody() error {
	firstBlock := true
	previousLineWasCode := false

	for i := 0; i <= 0xFFFF; i++ {
		addr := uint16(i)
		attr := w.mem.Attr(addr)
		if !attr.Has(memory.Assigned) {
			continue
		}

		orgTransition := i == 0 || !w.mem.Attr(addr-1).Has(memory.Assigned)
		if orgTransition {
			if err := w.writeOrg(addr, firstBlock); err != nil {
				return err
			}
			firstBlock = false
		}

		if l := w.store.Get(addr); l != nil && !l.IsEqu && l.Name != "" {
			if err := w.writeLabel(l, orgTransition); err != nil {
				return err
			}
		}

		isCode := attr.Has(memory.CodeFirst)
		if !orgTransition && isCode != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = isCode

		if isCode {
			in := z80.Decode(w.mem, addr)
			if err := w.writeInstruction(addr, in); err != nil {
				return err
			}
			i += in.Length - 1
			continue
		}

		if err := w.writeData(addr); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeOrg(addr uint16, firstBlock bool) error {
	if !firstBlock {
		for i := 0; i < w.options.NumberOfLinesBetweenBlocks; i++ {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
	}
	directive := "ORG"
	if w.options.OpcodesLowerCase {
		directive = "org"
	}
	if _, err := fmt.Fprintf(w.writer, "%s %d ; %04Xh\n", directive, addr, addr); err != nil {
		return fmt.Errorf("writing org: %w", err)
	}
	return nil
}

func (w *Writer) writeLabel(l *label.Label, orgTransition bool) error {
	if !orgTransition && l.Type.IsTopLevelCode() {
		for i := 0; i < w.options.NumberOfLinesBetweenBlocks; i++ {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
	}

	if !w.referencesEnabled(l.Type) {
		if _, err := fmt.Fprintf(w.writer, "%s:\n", l.Name); err != nil {
			return fmt.Errorf("writing label: %w", err)
		}
		return nil
	}

	refs := w.formatReferrers(l)
	if refs == "" {
		if _, err := fmt.Fprintf(w.writer, "%s:\n", l.Name); err != nil {
			return fmt.Errorf("writing label: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(w.writer, "%-32s ; %s\n", l.Name+":", refs); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w *Writer) writeInstruction(addr uint16, in *z80.Instruction) error {
	text := in.Template
	if w.options.OpcodesLowerCase {
		text = strings.ToLower(text)
	}

	var comment string
	if in.HasValue && strings.Contains(text, "%s") {
		operand, isLabel := w.render.Name(in.Value)
		if isLabel {
			comment = fmt.Sprintf("$%04X", in.Value)
		} else {
			operand = w.formatValue(in)
			if w.options.OpcodesLowerCase {
				operand = strings.ToLower(operand)
			}
		}
		text = fmt.Sprintf(text, operand)
	}

	line := w.codeLine(addr, in.Bytes, text, comment)
	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing instruction line: %w", err)
	}
	return nil
}

func (w *Writer) writeData(addr uint16) error {
	w.mem.OrAttr(addr, 1, memory.Data)
	value := w.mem.ReadByte(addr)

	text := fmt.Sprintf("DEFB $%02X", value)
	if w.options.OpcodesLowerCase {
		text = strings.ToLower(text)
	}

	comment := fmt.Sprintf("%d", value)
	if value >= 0x20 && value < 0x7F {
		comment += fmt.Sprintf(" '%c'", value)
	}

	line := w.codeLine(addr, []byte{value}, text, comment)
	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing data line: %w", err)
	}
	return nil
}

// codeLine renders one body line with its four columns: address, raw bytes, mnemonic/directive
// and optional comment. The bytes column is omitted entirely when disabled.
func (w *Writer) codeLine(addr uint16, raw []byte, text, comment string) string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "%0*X  ", w.options.ClmnsAddress, addr)

	if w.options.AddOpcodeBytes {
		bytesText := &strings.Builder{}
		for i, b := range raw {
			if i > 0 {
				bytesText.WriteByte(' ')
			}
			fmt.Fprintf(bytesText, "%02X", b)
		}
		fmt.Fprintf(buf, "%-*s  ", w.options.ClmnsBytes, bytesText.String())
	}

	text = w.padMnemonic(text)
	if comment == "" {
		buf.WriteString(text)
		return buf.String()
	}
	fmt.Fprintf(buf, "%-*s ; %s", w.options.ClmsnOpcodeTotal, text, comment)
	return buf.String()
}

// padMnemonic pads the first mnemonic token to the configured column so operands line up
// across instruction lines.
func (w *Writer) padMnemonic(text string) string {
	op, operands, found := strings.Cut(text, " ")
	if !found {
		return text
	}
	return fmt.Sprintf("%-*s %s", w.options.ClmnsOpcodeFirstPart, op, operands)
}

// formatReferrers renders a label's referrer set as "parent[hex]" entries in ascending referrer
// order, the form callers are presented in throughout the listing.
func (w *Writer) formatReferrers(l *label.Label) string {
	if len(l.Referrers) == 0 {
		return ""
	}

	refs := make([]uint16, 0, len(l.Referrers))
	for ref := range l.Referrers {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		if p := w.dis.Parent(ref); p != nil && p.Name != "" {
			parts = append(parts, fmt.Sprintf("%s[%04X]", p.Name, ref))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%04X]", ref))
	}
	return strings.Join(parts, ", ")
}

func (w *Writer) referencesEnabled(t label.Type) bool {
	switch t {
	case label.CodeSub:
		return w.options.AddReferencesToSubroutines
	case label.CodeLbl:
		return w.options.AddReferencesToAbsoluteLabels
	case label.CodeRst:
		return w.options.AddReferencesToRstLabels
	case label.DataLbl:
		return w.options.AddReferencesToDataLabels
	default:
		return true
	}
}

// formatValue renders an immediate that did not resolve to any label, in the numeric base the
// value kind calls for.
func (w *Writer) formatValue(in *z80.Instruction) string {
	switch in.ValueKind {
	case label.NumberByte, label.PortLbl:
		return fmt.Sprintf("$%02X", byte(in.Value))
	default:
		return fmt.Sprintf("$%04X", in.Value)
	}
}
