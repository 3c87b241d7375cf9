// Package sheet turns CSS text into the rule model consumed by the
// style engine. Parsing is delegated to douceur; this package only
// shapes the result: origins, declaration blocks, and per-rule media
// conditions flattened out of @media blocks.
package sheet

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/marlinbrowser/marlin/media"
	"github.com/marlinbrowser/marlin/shared"
)

// Origin identifies which actor a stylesheet comes from.
// The numeric order matches cascade priority for normal declarations.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginUserAgent:
		return "user-agent"
	case OriginUser:
		return "user"
	default:
		return "author"
	}
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// DeclarationBlock is an immutable, shared list of declarations.
type DeclarationBlock struct {
	Declarations []Declaration
}

// Get returns the value of a property, or "" if absent.
func (b *DeclarationBlock) Get(property string) (string, bool) {
	property = strings.ToLower(property)
	for i := len(b.Declarations) - 1; i >= 0; i-- {
		if b.Declarations[i].Property == property {
			return b.Declarations[i].Value, true
		}
	}
	return "", false
}

// HasImportant reports whether any declaration carries !important.
func (b *DeclarationBlock) HasImportant() bool {
	for _, d := range b.Declarations {
		if d.Important {
			return true
		}
	}
	return false
}

// ParseDeclarationBlock parses the contents of a style attribute or
// similar bare declaration list.
func ParseDeclarationBlock(text string) (shared.Arc[DeclarationBlock], error) {
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return shared.Arc[DeclarationBlock]{}, fmt.Errorf("parsing declarations: %w", err)
	}
	return shared.New(convertBlock(decls)), nil
}

// StyleRule pairs a selector prelude with a shared declaration block.
// Media holds one query list per enclosing @media block, all of which
// must match; it is empty for rules outside any @media block.
type StyleRule struct {
	SelectorText string
	Selectors    []string
	Block        shared.Arc[DeclarationBlock]
	Media        []*media.QueryList
}

func (r *StyleRule) mediaMatches(d media.Device) bool {
	for _, ql := range r.Media {
		if !ql.Matches(d) {
			return false
		}
	}
	return true
}

// Stylesheet is an ordered list of style rules from one source.
type Stylesheet struct {
	Origin Origin
	Rules  []StyleRule
	Media  *media.QueryList // sheet-level condition (e.g. media= attribute)
}

// Parse parses CSS text into a Stylesheet for the given origin.
func Parse(cssText string, origin Origin) (*Stylesheet, error) {
	parsed, err := parser.Parse(cssText)
	if err != nil {
		return nil, fmt.Errorf("parsing stylesheet: %w", err)
	}
	s := &Stylesheet{Origin: origin}
	s.appendRules(parsed.Rules, nil)
	return s, nil
}

// MustParse is Parse for static sheets known to be well formed.
func MustParse(cssText string, origin Origin) *Stylesheet {
	s, err := Parse(cssText, origin)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Stylesheet) appendRules(rules []*css.Rule, mq []*media.QueryList) {
	for _, r := range rules {
		switch r.Kind {
		case css.QualifiedRule:
			s.Rules = append(s.Rules, StyleRule{
				SelectorText: r.Prelude,
				Selectors:    r.Selectors,
				Block:        shared.New(convertBlock(r.Declarations)),
				Media:        mq,
			})
		case css.AtRule:
			// Only @media affects which rules are effective. @import,
			// @font-face, @keyframes and friends are handled by other
			// engine subsystems and are skipped here.
			if strings.EqualFold(r.Name, "@media") {
				nested := append(mq[:len(mq):len(mq)], media.ParseQueryList(r.Prelude))
				s.appendRules(r.Rules, nested)
			}
		}
	}
}

func convertBlock(decls []*css.Declaration) DeclarationBlock {
	block := DeclarationBlock{Declarations: make([]Declaration, 0, len(decls))}
	for _, d := range decls {
		block.Declarations = append(block.Declarations, Declaration{
			Property:  strings.ToLower(d.Property),
			Value:     d.Value,
			Important: d.Important,
		})
	}
	return block
}

// EffectiveRules walks, in source order, every rule whose media
// conditions match the device. Rules carrying no condition always
// match.
func (s *Stylesheet) EffectiveRules(d media.Device, fn func(*StyleRule)) {
	if !s.Media.Matches(d) {
		return
	}
	for i := range s.Rules {
		r := &s.Rules[i]
		if r.mediaMatches(d) {
			fn(r)
		}
	}
}

// MediaFingerprint hashes every media decision this sheet makes for
// the device. Two devices with equal fingerprints select the same set
// of effective rules, so a device change between them cannot require
// a rebuild.
func (s *Stylesheet) MediaFingerprint(d media.Device) uint64 {
	h := fnv.New64a()
	writeBit := func(b bool) {
		if b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	writeBit(s.Media.Matches(d))
	for i := range s.Rules {
		writeBit(s.Rules[i].mediaMatches(d))
	}
	return h.Sum64()
}
