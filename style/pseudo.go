package style

// PseudoElement identifies which pseudo-element of an element a style
// query targets. The set is closed; switches over it are exhaustive.
type PseudoElement int

const (
	// PseudoNone targets the element itself.
	PseudoNone PseudoElement = iota
	PseudoBefore
	PseudoAfter
	PseudoFirstLine
	PseudoFirstLetter
	PseudoMarker
	PseudoPlaceholder
	PseudoSelection
)

var pseudoElementNames = map[string]PseudoElement{
	"before":       PseudoBefore,
	"after":        PseudoAfter,
	"first-line":   PseudoFirstLine,
	"first-letter": PseudoFirstLetter,
	"marker":       PseudoMarker,
	"placeholder":  PseudoPlaceholder,
	"selection":    PseudoSelection,
}

func (p PseudoElement) String() string {
	switch p {
	case PseudoNone:
		return ""
	case PseudoBefore:
		return "::before"
	case PseudoAfter:
		return "::after"
	case PseudoFirstLine:
		return "::first-line"
	case PseudoFirstLetter:
		return "::first-letter"
	case PseudoMarker:
		return "::marker"
	case PseudoPlaceholder:
		return "::placeholder"
	case PseudoSelection:
		return "::selection"
	}
	return "::unknown"
}

// IsEager reports whether the pseudo-element is computed during the
// primary traversal pass rather than lazily on demand.
func (p PseudoElement) IsEager() bool {
	switch p {
	case PseudoBefore, PseudoAfter, PseudoFirstLine, PseudoFirstLetter:
		return true
	default:
		return false
	}
}
