// Package loader reads three input kinds into a disassembler's address space and queue: raw
// binary dumps, ZX Spectrum .sna snapshots, and MAME .tr trace listings. Jump tables are not
// read here; they are seeded by disasm.SetJumpTable from the already-populated address space.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/retroenv/z80disasm/internal/disasm"
	"github.com/retroenv/z80disasm/internal/memory"
)

const (
	snaHeaderSize = 27
	snaImageSize  = 48 * 1024
	snaImageBase  = 0x4000
)

// LoadBinary reads all of r into mem starting at origin, wrapping the address mod 65536, and
// marks every loaded byte assigned.
func LoadBinary(mem *memory.Space, origin uint16, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading binary input: %w", err)
	}
	mem.SetBytes(origin, data)
	return nil
}

// LoadSNA reads a 27-byte .sna header followed by a 48 KiB memory image loaded at 0x4000, derives
// the entry point from the emulated stack pointer in the header, and records it as the
// disassembler's snapshot start address.
func LoadSNA(d *disasm.Disasm, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading sna input: %w", err)
	}
	if len(data) < snaHeaderSize+snaImageSize {
		return fmt.Errorf("sna file too short: got %d bytes, want at least %d", len(data),
			snaHeaderSize+snaImageSize)
	}

	header := data[:snaHeaderSize]
	image := data[snaHeaderSize : snaHeaderSize+snaImageSize]

	mem := d.Memory()
	mem.SetBytes(snaImageBase, image)

	sp := uint16(header[23]) + 256*uint16(header[24])
	if sp <= snaImageBase || sp-snaImageBase >= snaImageSize {
		return fmt.Errorf("sna stack pointer $%04X outside the 48K image", sp)
	}
	lo := image[sp-snaImageBase]
	hi := image[sp-1-snaImageBase]
	start := uint16(lo) + 256*uint16(hi)

	d.SetSNAStart(start)
	return nil
}

// LoadTrace reads an ASCII MAME .tr trace, parsing the four-hex-digit address prefix ("NNNN:")
// of every matching line. The deduplicated address set is queued in ascending order.
func LoadTrace(d *disasm.Disasm, r io.Reader) error {
	seen := map[uint16]bool{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 5 || line[4] != ':' {
			continue
		}
		addr, err := strconv.ParseUint(line[:4], 16, 16)
		if err != nil {
			continue
		}
		seen[uint16(addr)] = true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading trace input: %w", err)
	}

	addrs := make([]uint16, 0, len(seen))
	for addr := range seen {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		d.QueueAddress(addr)
	}
	return nil
}
