package disasm

import "fmt"

// WarningKind distinguishes the non-fatal analysis events.
type WarningKind uint8

const (
	// WarnUnassignedAddress is emitted when a trace runs into a byte that was never loaded.
	WarnUnassignedAddress WarningKind = iota
	// WarnSelfCallingSub is emitted for a subroutine whose only remaining referrers are calls
	// to itself.
	WarnSelfCallingSub
)

// Warning is a non-fatal analysis event: disassembling an unassigned address, or finding a
// subroutine whose only remaining referrer is itself. Delivered through a WarningSink rather
// than logged directly, since the CLI decides how (and whether) to render it.
type Warning struct {
	Kind      WarningKind
	Message   string
	Addresses []uint16
}

// WarningSink receives warnings as the pipeline runs. A nil sink is valid and discards warnings.
type WarningSink func(Warning)

// AmbiguousError is the one fatal analysis error: the same byte has been decoded as part of two
// different instructions, reached from two different traces.
type AmbiguousError struct {
	AddrA, AddrB         uint16
	MnemonicA, MnemonicB string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous disassembly: %s at $%04X conflicts with %s at $%04X",
		e.MnemonicA, e.AddrA, e.MnemonicB, e.AddrB)
}
