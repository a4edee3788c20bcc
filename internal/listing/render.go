package listing

import (
	"strconv"

	"github.com/retroenv/z80disasm/internal/label"
)

// RenderContext resolves immediate values to label names while the listing is generated. It
// holds a read-only view of the label store and replaces the process-wide decoder hook that a
// global-state design would use: every caller that needs to stringify an immediate is handed
// the context explicitly.
type RenderContext struct {
	store *label.Store
}

// NewRenderContext creates a render context over a finished label store.
func NewRenderContext(store *label.Store) *RenderContext {
	return &RenderContext{store: store}
}

// Name resolves value to a label name. Direct labels resolve to their assigned name. Addresses
// absorbed into an offset label resolve to the anchor's name plus an offset suffix. The second
// return is false when no label covers the value and the caller should render it numerically.
func (r *RenderContext) Name(value uint16) (string, bool) {
	if l := r.store.Get(value); l != nil && l.Name != "" {
		return l.Name, true
	}

	offs, ok := r.store.Offset(value)
	if !ok {
		return "", false
	}
	anchor := r.store.Get(value + uint16(offs))
	if anchor == nil || anchor.Name == "" {
		return "", false
	}
	return anchor.Name + offsetSuffix(offs), true
}

// offsetSuffix renders the textual offset applied to an anchor name to reach the original
// target. The recorded offset is anchor minus original, so the displayed distance is its
// negation: a positive stored offset prints as a raw negative number, anything else prints
// with a leading plus.
func offsetSuffix(offs int16) string {
	if offs > 0 {
		return strconv.Itoa(int(-offs))
	}
	return "+" + strconv.Itoa(int(-offs))
}
