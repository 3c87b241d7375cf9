package style

import (
	"go.uber.org/zap"

	"github.com/marlinbrowser/marlin/media"
	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
)

// cascadeData is the compiled form of one origin's stylesheets: the
// selector maps rule collection reads. It is rebuilt from scratch on
// Stylist.Update and read-only in between.
type cascadeData struct {
	// element indexes normal rules that target elements themselves.
	element *SelectorMap
	// pseudos indexes rules per pseudo-element, built lazily per kind.
	pseudos map[PseudoElement]*SelectorMap
	// host holds :host rules, matched against the shadow host from
	// inside its own tree.
	host *SelectorMap
	// slotted holds ::slotted rules in source order.
	slotted []*Rule
}

func newCascadeData() *cascadeData {
	return &cascadeData{
		element: NewSelectorMap(),
		pseudos: make(map[PseudoElement]*SelectorMap),
		host:    NewSelectorMap(),
	}
}

// insertSheet files every effective rule of the sheet. order is the
// running source-order counter shared by all sheets of one scope.
func (c *cascadeData) insertSheet(ss *sheet.Stylesheet, d media.Device, order *int) {
	ss.EffectiveRules(d, func(sr *sheet.StyleRule) {
		selectors, err := ParseSelectorList(sr.SelectorText)
		if err != nil {
			// Malformed selectors are dropped, matching what the parse
			// stage does with malformed declarations.
			return
		}
		for _, sel := range selectors {
			rule := NewRule(sel, sr.Block, *order, ss.Origin)
			c.insertRule(rule)
		}
		*order++
	})
}

func (c *cascadeData) insertRule(rule *Rule) {
	sel := rule.Selector
	switch {
	case sel.IsSlotted():
		c.slotted = append(c.slotted, rule)
	case sel.HasHost():
		c.host.Insert(rule)
	case sel.Pseudo() != PseudoNone:
		m := c.pseudos[sel.Pseudo()]
		if m == nil {
			m = NewSelectorMap()
			c.pseudos[sel.Pseudo()] = m
		}
		m.Insert(rule)
	default:
		c.element.Insert(rule)
	}
}

// mapFor returns the selector map for a pseudo-element scope, or nil
// when no rules target it.
func (c *cascadeData) mapFor(pseudo PseudoElement) *SelectorMap {
	if pseudo == PseudoNone {
		return c.element
	}
	return c.pseudos[pseudo]
}

func (c *cascadeData) ruleCount() int {
	n := c.element.Len() + c.host.Len() + len(c.slotted)
	for _, m := range c.pseudos {
		n += m.Len()
	}
	return n
}

// Stylist owns the loaded stylesheets for a document and the selector
// maps compiled from them. It is a two-phase structure: mutations
// (AddStylesheet, SetDevice) mark it dirty; Update compiles; matching
// then proceeds on the frozen result, safely in parallel across
// elements.
type Stylist struct {
	device media.Device
	sheets []*sheet.Stylesheet
	dirty  bool

	origins [3]*cascadeData

	logger *zap.Logger
}

// StylistOption configures a Stylist.
type StylistOption func(*Stylist)

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(l *zap.Logger) StylistOption {
	return func(s *Stylist) { s.logger = l }
}

// NewStylist creates a Stylist for the given device. It starts dirty:
// Update must run before the first matching pass.
func NewStylist(device media.Device, opts ...StylistOption) *Stylist {
	s := &Stylist{
		device: device,
		dirty:  true,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStylesheet appends a stylesheet and marks the Stylist dirty.
func (s *Stylist) AddStylesheet(ss *sheet.Stylesheet) {
	s.sheets = append(s.sheets, ss)
	s.dirty = true
}

// SetDevice replaces the device. The Stylist only becomes dirty when
// the change flips at least one media decision of a loaded sheet;
// resizing within the same media boundaries keeps the compiled maps
// valid.
func (s *Stylist) SetDevice(d media.Device) {
	if !s.dirty {
		for _, ss := range s.sheets {
			if ss.MediaFingerprint(s.device) != ss.MediaFingerprint(d) {
				s.dirty = true
				break
			}
		}
	}
	s.device = d
}

// Device returns the current device.
func (s *Stylist) Device() media.Device { return s.device }

// IsDirty reports whether Update must run before matching.
func (s *Stylist) IsDirty() bool { return s.dirty }

// Update rebuilds the selector maps if the Stylist is dirty, and
// reports whether a rebuild happened. It must complete before any
// matching pass begins; this is the exclusive phase of the
// exclusive-then-shared discipline.
func (s *Stylist) Update() bool {
	if !s.dirty {
		return false
	}

	for i := range s.origins {
		s.origins[i] = newCascadeData()
	}
	orders := [3]int{}
	for _, ss := range s.sheets {
		s.origins[ss.Origin].insertSheet(ss, s.device, &orders[ss.Origin])
	}
	s.dirty = false

	s.logger.Debug("rebuilt selector maps",
		zap.Int("sheets", len(s.sheets)),
		zap.Int("ua_rules", s.origins[sheet.OriginUserAgent].ruleCount()),
		zap.Int("user_rules", s.origins[sheet.OriginUser].ruleCount()),
		zap.Int("author_rules", s.origins[sheet.OriginAuthor].ruleCount()),
	)
	return true
}

// cascadeDataFor returns the compiled data for an origin. Querying a
// dirty Stylist is a programming error.
func (s *Stylist) cascadeDataFor(origin sheet.Origin) *cascadeData {
	if s.dirty {
		panic("style: Stylist queried while dirty; call Update first")
	}
	return s.origins[origin]
}

// PushApplicableDeclarations computes the ordered applicable
// declarations for one (element, pseudo-element) query. It is the
// top-level matching entry point and requires a clean Stylist.
func (s *Stylist) PushApplicableDeclarations(
	el Element,
	pseudo PseudoElement,
	styleAttribute *shared.Arc[sheet.DeclarationBlock],
	smilOverride *shared.Arc[sheet.DeclarationBlock],
	animations AnimationRules,
	out *ApplicableDeclarationList,
	ctx *MatchingContext,
	opts CollectorOptions,
) {
	collector := NewRuleCollector(s, el, pseudo, styleAttribute, smilOverride, animations, out, ctx, opts)
	collector.CollectAll()
}

// AuthorStyles is the compiled author-origin style data scoped to one
// shadow tree. Shadow roots own one instance each; the same
// dirty/update discipline as the Stylist applies, driven by whoever
// owns the shadow root.
type AuthorStyles struct {
	sheets []*sheet.Stylesheet
	data   *cascadeData
	dirty  bool
}

// NewAuthorStyles returns an empty, clean author-style set.
func NewAuthorStyles() *AuthorStyles {
	return &AuthorStyles{data: newCascadeData()}
}

// AddStylesheet appends an author stylesheet to this shadow tree.
func (a *AuthorStyles) AddStylesheet(ss *sheet.Stylesheet) {
	if ss.Origin != sheet.OriginAuthor {
		panic("style: shadow trees only carry author-origin stylesheets")
	}
	a.sheets = append(a.sheets, ss)
	a.dirty = true
}

// IsEmpty reports whether the tree has any stylesheets at all.
func (a *AuthorStyles) IsEmpty() bool {
	return len(a.sheets) == 0
}

// Update recompiles if dirty, reporting whether a rebuild happened.
func (a *AuthorStyles) Update(d media.Device) bool {
	if !a.dirty {
		return false
	}
	a.data = newCascadeData()
	order := 0
	for _, ss := range a.sheets {
		a.data.insertSheet(ss, d, &order)
	}
	a.dirty = false
	return true
}

func (a *AuthorStyles) cascadeData() *cascadeData {
	if a.dirty {
		panic("style: AuthorStyles queried while dirty; call Update first")
	}
	return a.data
}
