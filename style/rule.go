package style

import (
	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
)

// CascadeLevel tags an applicable declaration block with its position
// in the cascade. The declaration order of the constants is the
// priority order for normal declarations, lowest first; the rule tree
// re-orders important levels downstream.
// Reference: https://drafts.csswg.org/css-cascade/#cascading
type CascadeLevel int

const (
	LevelUANormal CascadeLevel = iota
	LevelUserNormal
	LevelPresHints
	LevelSameTreeAuthorNormal
	LevelInnerShadowNormal
	LevelStyleAttributeNormal
	LevelSMILOverride
	LevelAnimations
	LevelTransitions
	LevelSameTreeAuthorImportant
	LevelInnerShadowImportant
	LevelStyleAttributeImportant
	LevelUserImportant
	LevelUAImportant
)

func (l CascadeLevel) String() string {
	switch l {
	case LevelUANormal:
		return "ua-normal"
	case LevelUserNormal:
		return "user-normal"
	case LevelPresHints:
		return "pres-hints"
	case LevelSameTreeAuthorNormal:
		return "author-normal"
	case LevelInnerShadowNormal:
		return "inner-shadow-normal"
	case LevelStyleAttributeNormal:
		return "style-attribute-normal"
	case LevelSMILOverride:
		return "smil-override"
	case LevelAnimations:
		return "animations"
	case LevelTransitions:
		return "transitions"
	case LevelSameTreeAuthorImportant:
		return "author-important"
	case LevelInnerShadowImportant:
		return "inner-shadow-important"
	case LevelStyleAttributeImportant:
		return "style-attribute-important"
	case LevelUserImportant:
		return "user-important"
	case LevelUAImportant:
		return "ua-important"
	}
	return "unknown"
}

// IsImportant reports whether the level carries important declarations.
func (l CascadeLevel) IsImportant() bool {
	return l >= LevelSameTreeAuthorImportant
}

// levelForOrigin maps a cascade origin to its normal cascade level for
// rules in the same tree as the element.
func levelForOrigin(o sheet.Origin) CascadeLevel {
	switch o {
	case sheet.OriginUserAgent:
		return LevelUANormal
	case sheet.OriginUser:
		return LevelUserNormal
	default:
		return LevelSameTreeAuthorNormal
	}
}

// Rule is one complex selector paired with its shared declaration
// block and cascade metadata. Rules are immutable once built and are
// shared read-only across selector maps, threads, and collector runs.
type Rule struct {
	Selector    *ComplexSelector
	Block       shared.Arc[sheet.DeclarationBlock]
	Specificity Specificity
	SourceOrder int
	Origin      sheet.Origin
	// hashes precomputed for ancestor bloom filter rejection.
	hashes AncestorHashes
}

// NewRule builds a rule, cloning the block handle and precomputing the
// selector's ancestor hashes.
func NewRule(sel *ComplexSelector, block shared.Arc[sheet.DeclarationBlock], order int, origin sheet.Origin) *Rule {
	return &Rule{
		Selector:    sel,
		Block:       block.Clone(),
		Specificity: sel.CalculateSpecificity(),
		SourceOrder: order,
		Origin:      origin,
		hashes:      CollectAncestorHashes(sel),
	}
}

// ToApplicableBlock tags the rule's block for insertion into an
// applicable declaration list.
func (r *Rule) ToApplicableBlock(level CascadeLevel, shadowCascadeOrder int) ApplicableDeclarationBlock {
	return ApplicableDeclarationBlock{
		Block:              r.Block,
		Level:              level,
		ShadowCascadeOrder: shadowCascadeOrder,
		Specificity:        r.Specificity,
		SourceOrder:        r.SourceOrder,
	}
}

// ApplicableDeclarationBlock is one matched declaration block plus the
// tags the downstream rule tree needs to order it.
type ApplicableDeclarationBlock struct {
	Block              shared.Arc[sheet.DeclarationBlock]
	Level              CascadeLevel
	ShadowCascadeOrder int
	Specificity        Specificity
	SourceOrder        int
}

// NewApplicableBlock tags a bare declaration block (style attribute,
// SMIL override, animations) that has no associated selector.
func NewApplicableBlock(block shared.Arc[sheet.DeclarationBlock], level CascadeLevel) ApplicableDeclarationBlock {
	return ApplicableDeclarationBlock{Block: block, Level: level}
}

// ApplicableDeclarationList is the ordered output of a rule collector
// run: cascade priority lowest to highest, source order within a
// level.
type ApplicableDeclarationList []ApplicableDeclarationBlock

// RuleTreeSink is the narrow interface to the downstream rule tree:
// it consumes an ordered block list and hands back an opaque cascaded
// style handle. The rule tree itself is outside this package.
type RuleTreeSink interface {
	InsertOrderedRules(list ApplicableDeclarationList) StyleHandle
}

// StyleHandle is an opaque reference to a cascaded style produced by
// the rule tree.
type StyleHandle interface{}

// AnimationRules carries the CSS animation and transition declaration
// blocks for one element. The collector takes them: after CollectAll
// the fields are zeroed, making accidental reuse visible.
type AnimationRules struct {
	Animations  *shared.Arc[sheet.DeclarationBlock]
	Transitions *shared.Arc[sheet.DeclarationBlock]
}
