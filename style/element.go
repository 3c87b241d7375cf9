// Package style implements the selector matching, cascade ordering and
// snapshot invalidation core of the engine: the Stylist and its
// selector maps, the per-element rule collector, and the element
// wrapper used to re-run matching against pre-mutation state.
//
// The package never touches a concrete DOM; it sees elements through
// the Element capability below. The dom and domadapter packages
// provide the in-tree implementation.
package style

import "github.com/marlinbrowser/marlin/media"

// ElementState is a bitset of the dynamic element states that
// pseudo-classes such as :hover and :checked observe.
type ElementState uint32

const (
	StateActive ElementState = 1 << iota
	StateFocus
	StateHover
	StateEnabled
	StateDisabled
	StateChecked
	StateIndeterminate
	StateTarget
	StateFocusWithin
	StateFocusVisible
	StateReadOnly
	StateReadWrite
	StatePlaceholderShown
	StateDefault
	StateLTR
	StateRTL
)

// Intersects reports whether any bit in other is set in s.
func (s ElementState) Intersects(other ElementState) bool {
	return s&other != 0
}

// pseudoClassStates maps state pseudo-class names to their bits.
// :link and :visited are deliberately absent: they are resolved
// through the matching context's visited handling mode, never through
// element state (history sniffing mitigation).
var pseudoClassStates = map[string]ElementState{
	"active":            StateActive,
	"focus":             StateFocus,
	"hover":             StateHover,
	"enabled":           StateEnabled,
	"disabled":          StateDisabled,
	"checked":           StateChecked,
	"indeterminate":     StateIndeterminate,
	"target":            StateTarget,
	"focus-within":      StateFocusWithin,
	"focus-visible":     StateFocusVisible,
	"read-only":         StateReadOnly,
	"read-write":        StateReadWrite,
	"placeholder-shown": StatePlaceholderShown,
	"default":           StateDefault,
}

// dirState maps a :dir() argument to its state flag. Arguments that do
// not correspond to a known direction map to zero, and the
// pseudo-class then never matches.
func dirState(arg string) ElementState {
	switch arg {
	case "ltr":
		return StateLTR
	case "rtl":
		return StateRTL
	default:
		return 0
	}
}

// ElementSelectorFlags records, during matching, which parts of the
// tree a selector inspected. The invalidation machinery uses them to
// decide which mutations require re-matching (for example, a selector
// that consulted sibling indices makes sibling insertion a restyle
// trigger).
type ElementSelectorFlags uint8

const (
	// FlagHasSlowSelector: a child of this element matched a selector
	// that depends on the full child list (:nth-child and friends).
	FlagHasSlowSelector ElementSelectorFlags = 1 << iota
	// FlagHasSlowSelectorLaterSiblings: later siblings are affected too
	// (sibling combinators, :nth-last-child).
	FlagHasSlowSelectorLaterSiblings
	// FlagHasEdgeChildSelector: a child matched :first-child or
	// :last-child.
	FlagHasEdgeChildSelector
	// FlagHasEmptySelector: this element matched :empty.
	FlagHasEmptySelector
)

// Element is the capability the engine needs from a DOM element.
//
// Implementations must be comparable with == on identity (the snapshot
// map is keyed by element), and navigation methods must return nil
// interfaces, not typed nils, for absent relatives.
type Element interface {
	// Tree navigation.
	Parent() Element
	PrevSibling() Element
	NextSibling() Element
	FirstChild() Element
	// IsEmpty reports whether the element has no element children and
	// no non-whitespace text children.
	IsEmpty() bool
	// IsRoot reports whether the element is the document root.
	IsRoot() bool

	// Identity.
	LocalName() string
	Namespace() string
	ID() string
	HasClass(name string) bool
	EachClass(fn func(name string))

	// Attribute access. An empty namespace means the null namespace;
	// implementations handle HTML case-insensitivity themselves.
	HasAttr(namespace, name string) bool
	AttrValue(namespace, name string) (string, bool)
	EachAttr(fn func(namespace, name, value string))

	// Dynamic state.
	State() ElementState
	// IsLink reports whether the element is a hyperlink (an <a> or
	// <area> with an href). Whether it counts as visited is decided by
	// the matching context, not the element.
	IsLink() bool

	IsHTMLElementInHTMLDocument() bool

	// Shadow tree navigation. Shadow returns the element's own shadow
	// root if it is a host; ContainingShadow returns the shadow root
	// the element lives inside. Both return nil outside shadow trees.
	Shadow() ShadowRoot
	ContainingShadow() ShadowRoot
	// AssignedSlot returns the <slot> element this element is assigned
	// to, if any.
	AssignedSlot() Element

	// MatchesUserAndAuthorRules is false for internally synthesized
	// content that only user agent rules may style.
	MatchesUserAndAuthorRules() bool
	// RuleHashTarget is the element used for selector map bucket
	// lookups; normally the element itself.
	RuleHashTarget() Element

	// PresentationalHints returns declaration blocks synthesized from
	// legacy HTML attributes, already tagged with PresHints.
	PresentationalHints() []ApplicableDeclarationBlock
}

// ShadowRoot is the capability the engine needs from a shadow root.
type ShadowRoot interface {
	Host() Element
	// Styles returns the author style data scoped to this tree, or nil
	// if the tree has no stylesheets.
	Styles() *AuthorStyles
}

// langOf resolves the content language of an element by walking the
// ancestor chain for lang/xml:lang attributes. Because it only goes
// through the Element capability, running it on an ElementWrapper
// consults ancestor snapshots as required.
func langOf(el Element) string {
	for e := el; e != nil; e = e.Parent() {
		if v, ok := e.AttrValue("", "lang"); ok {
			return v
		}
		if v, ok := e.AttrValue(xmlNamespace, "lang"); ok {
			return v
		}
	}
	return ""
}

const (
	htmlNamespace = "http://www.w3.org/1999/xhtml"
	svgNamespace  = "http://www.w3.org/2000/svg"
	xmlNamespace  = "http://www.w3.org/XML/1998/namespace"
)

// Device re-exports the media device type used by the Stylist.
type Device = media.Device
