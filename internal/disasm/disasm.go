// Package disasm implements the analysis pipeline: eleven ordered passes that turn a populated
// address space and a seeded queue of entry points into a finished label store, annotated with
// control-flow labels, self-modifying-code offsets, parent/callee relationships, per-subroutine
// statistics, and final names.
package disasm

import (
	"context"
	"fmt"

	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
	"github.com/retroenv/z80disasm/internal/queue"
	"github.com/retroenv/z80disasm/internal/z80"
)

// Disasm owns the address space and label store for a single disassembly run. It is not
// re-entrant: instantiate a fresh Disasm per run.
type Disasm struct {
	mem   *memory.Space
	store *label.Store
	queue *queue.Queue
	warn  WarningSink
	opts  options.Disassembler

	snaStart    uint16
	hasSNAStart bool

	// parent maps every owned address to the top-level label considered to own it, built by
	// pass 9 and consumed by passes 9 and 10.
	parent [memory.Size]*label.Label

	statsMin label.Stats
	statsMax label.Stats
	hasStats bool
}

// Statistics returns the global min/max subroutine statistics aggregated by pass 10. ok is
// false if no non-EQU top-level label was ever counted.
func (d *Disasm) Statistics() (min, max label.Stats, ok bool) {
	return d.statsMin, d.statsMax, d.hasStats
}

// New creates a Disasm over an already-populated address space. warnSink may be nil.
func New(mem *memory.Space, opts options.Disassembler, warnSink WarningSink) *Disasm {
	if warnSink == nil {
		warnSink = func(Warning) {}
	}
	return &Disasm{
		mem:   mem,
		store: label.New(),
		queue: queue.New(),
		warn:  warnSink,
		opts:  opts,
	}
}

// AddEntryPoint creates a fixed subroutine label at addr (so it is addressable and nameable even
// with zero referrers) and queues it for pass 1, unless the byte was never assigned. Explicit
// entry points are treated as known routine starts, unlike SNA/jump-table/trace addresses whose
// label type is left for the pipeline to determine.
func (d *Disasm) AddEntryPoint(addr uint16) {
	assigned := d.mem.Attr(addr).Has(memory.Assigned)
	l := d.store.SetFixed(addr, "", assigned)
	l.Type = label.CodeSub
	if assigned {
		d.queue.Push(addr)
	}
}

// SetSNAStart records addr as the ZX snapshot start address, exempting it from interrupt-label
// discovery (pass 2) and giving it a fixed SNA_LBL_MAIN_START name (pass 3). It also queues addr.
func (d *Disasm) SetSNAStart(addr uint16) {
	d.snaStart = addr
	d.hasSNAStart = true
	if d.mem.Attr(addr).Has(memory.Assigned) {
		d.queue.Push(addr)
	}
}

// QueueAddress queues addr for decoding without creating a label, used for MAME trace addresses
// and other incidental entry points where pass 2's interrupt detection, not the caller, should
// decide whether the address deserves a name.
func (d *Disasm) QueueAddress(addr uint16) {
	if d.mem.Attr(addr).Has(memory.Assigned) {
		d.queue.Push(addr)
	}
}

// SetJumpTable reads count little-endian words starting at addr, creating a fixed CodeLbl at
// each and queuing it.
func (d *Disasm) SetJumpTable(addr uint16, count int) {
	for i := 0; i < count; i++ {
		target := d.mem.ReadWord(addr)
		assigned := d.mem.Attr(target).Has(memory.Assigned)
		d.store.SetFixed(target, "", assigned)
		if assigned {
			d.queue.Push(target)
		}
		addr += 2
	}
}

// Memory returns the underlying address space, for loaders that need to populate it before Run.
func (d *Disasm) Memory() *memory.Space {
	return d.mem
}

// Parent returns the top-level label that owns addr, as assigned by the parent pass, or nil if
// no label claimed it. Used by the listing emitter to render callers.
func (d *Disasm) Parent(addr uint16) *label.Label {
	return d.parent[addr]
}

// Run executes the eleven-pass pipeline and returns the finished label store. A fatal ambiguous
// disassembly error aborts pass 1 and is returned alongside the partial store.
func (d *Disasm) Run(ctx context.Context) (*label.Store, error) {
	if err := d.collectLabels(ctx); err != nil {
		return d.store, err
	}
	d.findInterruptLabels()
	d.setSpecialLabels()
	d.store.Sort()
	d.adjustSelfModifyingLabels()
	d.store.Sort()
	d.addFlowThroughReferences()
	d.turnLBLintoSUB()
	d.findLocalLabelsInSubroutines()
	d.addParentReferences()
	d.addCallsListToLabels()
	d.countStatistics()
	d.assignNames()
	return d.store, nil
}

// collectLabels is pass 1: pop addresses from the queue until empty, tracing each linearly until
// the trace hits already-decoded code, an unassigned byte, or an instruction with Stop set.
func (d *Disasm) collectLabels(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		addr, ok := d.queue.Pop()
		if !ok {
			return nil
		}
		if err := d.traceFrom(addr); err != nil {
			return err
		}
	}
}

func (d *Disasm) traceFrom(start uint16) error {
	addr := start
	for {
		attr := d.mem.Attr(addr)
		if attr.Has(memory.CodeFirst) {
			return nil
		}
		if attr.Has(memory.Code) {
			return d.ambiguous(addr, z80.Decode(d.mem, addr))
		}
		if !attr.Has(memory.Assigned) {
			d.warn(Warning{
				Kind:      WarnUnassignedAddress,
				Message:   "disassembling unassigned address",
				Addresses: []uint16{addr},
			})
			return nil
		}

		in := z80.Decode(d.mem, addr)
		for i := 1; i < in.Length; i++ {
			a := addr + uint16(i)
			if d.mem.Attr(a).Has(memory.Code) {
				return d.ambiguous(a, in)
			}
		}
		d.mem.OrAttr(addr, 1, memory.CodeFirst)
		d.mem.OrAttr(addr, in.Length, memory.Code)

		if in.HasValue {
			switch {
			case in.Flags.Has(z80.BranchAddress):
				if err := d.handleBranchTarget(addr, in); err != nil {
					return err
				}
			case in.ValueKind == label.DataLbl:
				d.store.SetFound(in.Value, []uint16{addr}, label.DataLbl, d.mem.Attr(in.Value))
			}
		}

		if in.Flags.Has(z80.Stop) {
			return nil
		}
		addr += uint16(in.Length)
	}
}

func (d *Disasm) handleBranchTarget(addr uint16, in *z80.Instruction) error {
	target := in.Value
	kind := in.ValueKind
	targetAttr := d.mem.Attr(target)

	switch {
	case kind == label.CodeLocalLbl && target <= addr:
		kind = label.CodeLocalLoop
	case kind == label.CodeLbl && !targetAttr.Has(memory.Assigned):
		kind = label.CodeSub
	}

	d.store.SetFound(target, []uint16{addr}, kind, targetAttr)

	switch {
	case !targetAttr.Has(memory.Code):
		d.queue.Push(target)
	case !targetAttr.Has(memory.CodeFirst):
		return d.ambiguous(target, in)
	}
	return nil
}

// ambiguous builds the fatal overlap error for a byte at overlap that conflicting decodes both
// claim: in is the instruction whose decode ran into the conflict, the other side is recovered
// from the already-decoded instruction covering the overlap address.
func (d *Disasm) ambiguous(overlap uint16, in *z80.Instruction) error {
	err := &AmbiguousError{
		AddrA: in.Address, MnemonicA: in.Mnemonic("?"),
		AddrB: overlap, MnemonicB: "?",
	}
	if start, covering, ok := d.instructionCovering(overlap); ok {
		err.AddrB = start
		err.MnemonicB = covering.Mnemonic("?")
	}
	return err
}

// instructionCovering scans backward up to 3 bytes from addr to find the CodeFirst instruction
// that covers it, as used by interrupt detection (pass 2) and self-modifying-code detection
// (pass 5). ok is false if no such instruction is found within range.
func (d *Disasm) instructionCovering(addr uint16) (start uint16, in *z80.Instruction, ok bool) {
	for back := uint16(0); back <= 3; back++ {
		s := addr - back
		if !d.mem.Attr(s).Has(memory.CodeFirst) {
			continue
		}
		candidate := z80.Decode(d.mem, s)
		if addr-s < uint16(candidate.Length) {
			return s, candidate, true
		}
	}
	return 0, nil, false
}

func fmtHex4(addr uint16) string {
	return fmt.Sprintf("%04X", addr)
}
