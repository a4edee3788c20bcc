package label

import (
	"sort"

	"github.com/retroenv/z80disasm/internal/memory"
)

// Store is the address→label map plus the address→offset map for mid-instruction data
// pointers created by self-modifying-code detection (pass 5).
type Store struct {
	labels       map[uint16]*Label
	offsetLabels map[uint16]int16 // address -> signed offset to the anchor label
	order        []uint16         // sorted label addresses, rebuilt by Sort
}

// New creates an empty label store.
func New() *Store {
	return &Store{
		labels:       map[uint16]*Label{},
		offsetLabels: map[uint16]int16{},
	}
}

// Get returns the label at addr, or nil if none exists.
func (s *Store) Get(addr uint16) *Label {
	return s.labels[addr]
}

// Delete removes the label at addr.
func (s *Store) Delete(addr uint16) {
	delete(s.labels, addr)
}

// Len returns the number of labels in the store.
func (s *Store) Len() int {
	return len(s.labels)
}

// SetFound creates a label at addr with the given type if none exists, otherwise retains the
// existing label and promotes its type to max(existing, incoming). referrers are unioned into
// the label's referrer set, excluding self-references. If attr lacks memory.Assigned, the label
// is marked IsEqu.
func (s *Store) SetFound(addr uint16, referrers []uint16, t Type, attr memory.Attribute) *Label {
	l, ok := s.labels[addr]
	if !ok {
		l = newLabel(addr, t)
		s.labels[addr] = l
	} else if t > l.Type {
		l.Type = t
	}

	for _, ref := range referrers {
		l.AddReferrer(ref)
	}

	if !attr.Has(memory.Assigned) {
		l.IsEqu = true
	}
	return l
}

// SetFixed creates a fixed CodeLbl at addr (or upgrades an existing label to fixed), optionally
// with a user-provided name. If assigned is false the label is marked IsEqu instead of being
// queued by the caller.
func (s *Store) SetFixed(addr uint16, name string, assigned bool) *Label {
	l, ok := s.labels[addr]
	if !ok {
		l = newLabel(addr, CodeLbl)
		s.labels[addr] = l
	} else if CodeLbl > l.Type {
		l.Type = CodeLbl
	}

	l.IsFixed = true
	if name != "" {
		l.Name = name
	}
	if !assigned {
		l.IsEqu = true
	}
	return l
}

// SetOffset records that address originally targeted opcodeStart, which now owns the label;
// offs is the non-positive opcodeStart-originalTarget distance.
func (s *Store) SetOffset(address uint16, offs int16) {
	s.offsetLabels[address] = offs
}

// Offset returns the recorded offset for address and whether one exists.
func (s *Store) Offset(address uint16) (int16, bool) {
	offs, ok := s.offsetLabels[address]
	return offs, ok
}

// Sort rebuilds the deterministic ascending-address iteration order. Must be called (pass 4)
// before any pass that relies on ordered iteration.
func (s *Store) Sort() {
	order := make([]uint16, 0, len(s.labels))
	for addr := range s.labels {
		order = append(order, addr)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	s.order = order
}

// Range calls fn for every label in ascending address order. Sort must have been called at
// least once since the last mutation that could have added a label.
func (s *Store) Range(fn func(*Label)) {
	for _, addr := range s.order {
		l, ok := s.labels[addr]
		if !ok {
			continue // deleted since the last Sort, e.g. by self-modifying-code absorption
		}
		fn(l)
	}
}

// All returns every label regardless of sort order. Used by passes that do not depend on
// iteration order (e.g. the interrupt-detection walk, which iterates addresses, not labels).
func (s *Store) All() map[uint16]*Label {
	return s.labels
}
