// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/z80disasm/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	disasmOptions := options.NewDisassembler()
	applyDisasmFlags := readDisasmOptionFlags(flags, &disasmOptions)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, disasmOptions, &UsageError{flags: flags}
	}
	applyDisasmFlags()

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, disasmOptions, err
	}

	opts.Input = args[0]
	disasmOptions.Debug = opts.Debug
	disasmOptions.Quiet = opts.Quiet

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Println(e.msg)
	}
	fmt.Printf("usage: z80disasm [options] <file to disassemble>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Kind = strings.ToLower(opts.Kind)
	if opts.Kind == "" {
		return nil
	}

	validKinds := []string{"bin", "sna"}
	for _, valid := range validKinds {
		if opts.Kind == valid {
			return nil
		}
	}
	return fmt.Errorf("unsupported input kind: %s. Valid options: %s",
		opts.Kind, strings.Join(validKinds, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output listing file, printed on console if no name given")
	flags.StringVar(&opts.DOT, "dot", "", "name of the call graph .dot file to write")
	flags.StringVar(&opts.Kind, "f", "", "input format (bin/sna) - if not auto-detected from file extension")
	flags.UintVar(&opts.Origin, "org", 0, "load address for raw binary input")
	flags.StringVar(&opts.Entries, "e", "", "comma-separated hex entry point addresses for raw binary input, for example 0,8000")
	flags.StringVar(&opts.Trace, "tr", "", "name of a MAME .tr trace file providing additional entry addresses")
	flags.StringVar(&opts.JumpTable, "jumptable", "", "address and size of a jump table to seed, as addr,count with a hex address and a decimal count, for example 4000,8")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

// readDisasmOptionFlags registers the disassembler option flags and returns a function that
// applies the inverse logic for the default-on options once the flag set has been parsed.
func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Disassembler) func() {
	var upperCase, noBytes, noRefs bool
	flags.BoolVar(&upperCase, "upper", false, "render mnemonics in uppercase instead of lowercase")
	flags.BoolVar(&noBytes, "nobytes", false, "do not output the raw opcode bytes column")
	flags.BoolVar(&noRefs, "norefs", false, "do not output cross-reference comments on labels")
	flags.IntVar(&opts.NumberOfLinesBetweenBlocks, "blocklines", opts.NumberOfLinesBetweenBlocks,
		"number of blank lines between code blocks")

	return func() {
		opts.OpcodesLowerCase = !upperCase
		opts.AddOpcodeBytes = !noBytes
		if noRefs {
			opts.AddReferencesToSubroutines = false
			opts.AddReferencesToAbsoluteLabels = false
			opts.AddReferencesToRstLabels = false
			opts.AddReferencesToDataLabels = false
		}
	}
}
