// Package z80 implements the static Z80 opcode table and decoder: given a byte-addressable
// memory and an address, it decodes one instruction into a mnemonic template, its resolved
// immediate value, the kind of that value, and a set of control-flow flags.
package z80

import "github.com/retroenv/z80disasm/internal/label"

// Flags describes control-flow properties of a decoded instruction.
type Flags uint8

const (
	// BranchAddress marks that Value is a code address target (JP, JR, DJNZ, CALL, RST).
	BranchAddress Flags = 1 << iota
	// Call marks the call forms: CALL nn, CALL cc,nn, RST p.
	Call
	// Stop marks an instruction that unconditionally ends a basic block.
	Stop
)

// Has reports whether f has every flag in flags set.
func (f Flags) Has(flags Flags) bool {
	return f&flags == flags
}

// Instruction is a single decoded Z80 instruction.
type Instruction struct {
	Address  uint16
	Length   int
	Bytes    []byte // the raw opcode bytes, length == Length
	Template string // mnemonic with "%s" where the immediate/target renders, or no "%s" at all

	Value     uint16     // resolved immediate value or absolute branch target
	HasValue  bool       // whether Value is set; RST sets it without an immediate slot in Template
	ValueKind label.Type // default label type for Value, used to seed Store.SetFound

	Flags Flags
}

// Mnemonic renders the instruction with s substituted for the immediate slot, or the bare
// template if the instruction has no immediate.
func (in Instruction) Mnemonic(s string) string {
	if !in.HasValue {
		return in.Template
	}
	return sprintf(in.Template, s)
}

// sprintf is a tiny single-slot formatter avoiding a fmt import in the hot decode path callers;
// the decoder itself still uses fmt for table construction.
func sprintf(template, s string) string {
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '%' && template[i+1] == 's' {
			return template[:i] + s + template[i+2:]
		}
	}
	return template
}
