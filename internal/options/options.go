// Package options contains the program and disassembler configuration structs.
package options

// Program contains the file paths and CLI-level flags read by the command line parser.
type Program struct {
	Input  string // file to disassemble
	Output string // output listing file (stdout if empty)
	DOT    string // optional call graph .dot output file

	Kind      string // input kind: bin, sna (default: detect from extension)
	Origin    uint   // load address for raw binary input
	Entries   string // comma-separated hex entry point addresses for raw binary input
	Trace     string // optional MAME .tr trace file providing additional entry addresses
	JumpTable string // "addr,count" of a fixed jump table to seed, e.g. "4000,8"

	Debug bool
	Quiet bool
}

// Disassembler holds every listing/labeling knob named in the external interface, plus the
// ambient logging flags threaded in by the CLI.
type Disassembler struct {
	OpcodesLowerCase           bool
	NumberOfLinesBetweenBlocks int

	AddReferencesToSubroutines    bool
	AddReferencesToAbsoluteLabels bool
	AddReferencesToRstLabels      bool
	AddReferencesToDataLabels     bool

	AddOpcodeBytes bool

	LabelSubPrefix           string
	LabelLblPrefix           string
	LabelRstPrefix           string
	LabelDataLblPrefix       string
	LabelSelfModifyingPrefix string
	LabelLocalLablePrefix    string
	LabelLoopPrefix          string
	LabelIntrptPrefix        string

	ClmnsAddress         int
	ClmnsBytes           int
	ClmnsOpcodeFirstPart int
	ClmsnOpcodeTotal     int

	Debug bool
	Quiet bool
}

// NewDisassembler returns a Disassembler with every default named in the external interface.
func NewDisassembler() Disassembler {
	return Disassembler{
		OpcodesLowerCase:           true,
		NumberOfLinesBetweenBlocks: 2,

		AddReferencesToSubroutines:    true,
		AddReferencesToAbsoluteLabels: true,
		AddReferencesToRstLabels:      true,
		AddReferencesToDataLabels:     true,

		AddOpcodeBytes: true,

		LabelSubPrefix:           "SUB",
		LabelLblPrefix:           "LBL",
		LabelRstPrefix:           "RST",
		LabelDataLblPrefix:       "DATA",
		LabelSelfModifyingPrefix: "SELF_MOD",
		LabelLocalLablePrefix:    "_l",
		LabelLoopPrefix:          "_loop",
		LabelIntrptPrefix:        "INTRPT",

		ClmnsAddress:         4,
		ClmnsBytes:           11,
		ClmnsOpcodeFirstPart: 4,
		ClmsnOpcodeTotal:     20,
	}
}
