// Package label implements the label store: the address-to-label map, the priority-ranked
// label type taxonomy, and the mid-instruction offset-label map used for self-modifying code.
package label

import (
	"github.com/retroenv/retrogolib/set"
)

// Type is the priority-ranked label type enumeration. A higher value always outranks a lower
// one: Store.SetFound promotes a label's type to the max of its current and incoming type.
type Type uint8

const (
	None Type = iota
	CodeLocalLbl
	CodeLocalLoop
	CodeLbl
	CodeSub
	CodeRst
	RelativeIndex
	NumberByte
	NumberWord
	NumberWordBigEndian
	DataLbl
	PortLbl
)

// String returns the canonical name of the type, used only for diagnostics.
func (t Type) String() string {
	switch t {
	case None:
		return "NONE"
	case CodeLocalLbl:
		return "CODE_LOCAL_LBL"
	case CodeLocalLoop:
		return "CODE_LOCAL_LOOP"
	case CodeLbl:
		return "CODE_LBL"
	case CodeSub:
		return "CODE_SUB"
	case CodeRst:
		return "CODE_RST"
	case RelativeIndex:
		return "RELATIVE_INDEX"
	case NumberByte:
		return "NUMBER_BYTE"
	case NumberWord:
		return "NUMBER_WORD"
	case NumberWordBigEndian:
		return "NUMBER_WORD_BIG_ENDIAN"
	case DataLbl:
		return "DATA_LBL"
	case PortLbl:
		return "PORT_LBL"
	default:
		return "UNKNOWN"
	}
}

// IsCode reports whether the type denotes a code label of any kind (local or top-level).
func (t Type) IsCode() bool {
	switch t {
	case CodeLocalLbl, CodeLocalLoop, CodeLbl, CodeSub, CodeRst:
		return true
	default:
		return false
	}
}

// IsTopLevelCode reports whether the type is a top-level (non-local) code label.
func (t Type) IsTopLevelCode() bool {
	switch t {
	case CodeLbl, CodeSub, CodeRst:
		return true
	default:
		return false
	}
}

// IsLocal reports whether the type is a local label scoped to an enclosing subroutine.
func (t Type) IsLocal() bool {
	return t == CodeLocalLbl || t == CodeLocalLoop
}

// Stats holds the per-subroutine statistics computed by the call-graph pass.
type Stats struct {
	SizeInBytes          int
	CountOfInstructions  int
	CyclomaticComplexity int
}

// Label is a single entry in the label store.
type Label struct {
	Address uint16
	Type    Type
	Name    string // empty until assigned by the naming pass, unless user-fixed

	Referrers set.Set[uint16] // instruction addresses that reference this label
	Callees   []*Label        // ordered, may contain duplicates, presentation only

	IsEqu              bool // the target address was never assigned a byte
	IsFixed            bool // user- or pass-assigned name immune to rewriting/demotion
	BelongsToInterrupt bool

	Stats Stats
}

func newLabel(addr uint16, t Type) *Label {
	return &Label{
		Address:   addr,
		Type:      t,
		Referrers: set.New[uint16](),
	}
}

// AddReferrer adds ref to the label's referrer set, excluding self-references.
func (l *Label) AddReferrer(ref uint16) {
	if ref == l.Address {
		return
	}
	l.Referrers.Add(ref)
}
