// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80disasm/internal/callgraph"
	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/label"
	"github.com/retroenv/z80disasm/internal/listing"
	"github.com/retroenv/z80disasm/internal/loader"
	"github.com/retroenv/z80disasm/internal/memory"
	"github.com/retroenv/z80disasm/internal/options"
)

// ProcessFile handles the complete disassembly workflow: loading the inputs, running the
// analysis pipeline and writing the listing and the optional call graph. A fatal ambiguous
// disassembly error still writes the partial results before being returned.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler) error {

	mem := memory.New()

	var warnings []disasm.Warning
	dis := disasm.New(mem, disasmOptions, func(w disasm.Warning) {
		warnings = append(warnings, w)
		logger.Warn(w.Message, log.String("addresses", formatAddresses(w.Addresses)))
	})

	if err := loadInputs(dis, mem, opts); err != nil {
		return err
	}

	store, runErr := dis.Run(ctx)
	var ambiguous *disasm.AmbiguousError
	if runErr != nil && !errors.As(runErr, &ambiguous) {
		return fmt.Errorf("disassembling: %w", runErr)
	}
	if ambiguous != nil {
		logger.Error("ambiguous disassembly, writing partial results",
			log.String("error", ambiguous.Error()))
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	if err := listing.New(dis, store, writer, disasmOptions).Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}

	if opts.DOT != "" {
		if err := writeCallGraph(dis, store, warnings, opts.DOT); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("disassembling: %w", runErr)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("z80disasm", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

func loadInputs(dis *disasm.Disasm, mem *memory.Space, opts options.Program) error {
	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	switch detectKind(opts) {
	case "sna":
		if err := loader.LoadSNA(dis, file); err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
	default:
		if err := loadBinaryInput(dis, mem, opts, file); err != nil {
			return err
		}
	}

	if opts.Trace != "" {
		if err := loadTraceInput(dis, opts.Trace); err != nil {
			return err
		}
	}

	if opts.JumpTable != "" {
		addr, count, err := parseJumpTable(opts.JumpTable)
		if err != nil {
			return err
		}
		dis.SetJumpTable(addr, count)
	}
	return nil
}

func loadBinaryInput(dis *disasm.Disasm, mem *memory.Space, opts options.Program, file io.Reader) error {
	origin := uint16(opts.Origin)
	if err := loader.LoadBinary(mem, origin, file); err != nil {
		return fmt.Errorf("loading binary: %w", err)
	}

	if opts.Entries == "" {
		// no explicit entry points: start at address 0 if the image covers it
		dis.QueueAddress(0)
		return nil
	}

	for _, field := range strings.Split(opts.Entries, ",") {
		entry, err := strconv.ParseUint(strings.TrimSpace(field), 16, 16)
		if err != nil {
			return fmt.Errorf("parsing entry point %q: %w", field, err)
		}
		dis.AddEntryPoint(uint16(entry))
	}
	return nil
}

func loadTraceInput(dis *disasm.Disasm, name string) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("opening trace file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	if err := loader.LoadTrace(dis, file); err != nil {
		return fmt.Errorf("loading trace: %w", err)
	}
	return nil
}

// detectKind returns the input kind, from the -f flag if given, else from the file extension.
func detectKind(opts options.Program) string {
	if opts.Kind != "" {
		return opts.Kind
	}
	if strings.EqualFold(filepath.Ext(opts.Input), ".sna") {
		return "sna"
	}
	return "bin"
}

func parseJumpTable(value string) (uint16, int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid jump table %q, expected addr,count", value)
	}
	addr, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing jump table address %q: %w", parts[0], err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("parsing jump table count %q", parts[1])
	}
	return uint16(addr), count, nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

func writeCallGraph(dis *disasm.Disasm, store *label.Store, warnings []disasm.Warning, name string) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating call graph file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	warned := set.New[uint16]()
	for _, w := range warnings {
		if w.Kind != disasm.WarnSelfCallingSub {
			continue
		}
		for _, addr := range w.Addresses {
			warned.Add(addr)
		}
	}

	statsMin, statsMax, hasStats := dis.Statistics()
	if err := callgraph.New(store, statsMin, statsMax, hasStats, warned, file).Write(); err != nil {
		return fmt.Errorf("writing call graph: %w", err)
	}
	return nil
}

func formatAddresses(addrs []uint16) string {
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		parts = append(parts, fmt.Sprintf("$%04X", addr))
	}
	return strings.Join(parts, ", ")
}
