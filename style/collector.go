package style

import (
	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
)

// CollectorOptions tweaks a rule collection run. The zero value is a
// normal full collection.
type CollectorOptions struct {
	// OnlyDefaultRules restricts collection to UA rules, user rules and
	// presentational hints, the set used for default style computation.
	OnlyDefaultRules bool
	// AuthorStylesDisabled stops collection after presentational hints,
	// dropping author rules, the style attribute and animations alike.
	AuthorStylesDisabled bool
}

// RuleCollector gathers the applicable declaration blocks for one
// (element, pseudo-element) pair. A collector is single-use: build
// one, call CollectAll, read the output list.
//
// The collection sequence is fixed: user agent rules, user rules,
// presentational hints, :host rules from the element's own shadow
// root, ::slotted rules from the trees the element is slotted into
// (outermost slot first), normal rules from the element's containing
// shadow tree or else the document's author rules, the style
// attribute, SMIL overrides, animations and transitions.
type RuleCollector struct {
	stylist        *Stylist
	element        Element
	ruleHashTarget Element
	pseudo         PseudoElement

	styleAttribute *shared.Arc[sheet.DeclarationBlock]
	smilOverride   *shared.Arc[sheet.DeclarationBlock]
	animations     AnimationRules

	out  *ApplicableDeclarationList
	ctx  *MatchingContext
	opts CollectorOptions

	matchesUserAndAuthorRules bool
	collected                 bool
}

// NewRuleCollector builds a collector. The matching context's target
// pseudo-element is set from pseudo; any prior value is overwritten.
func NewRuleCollector(
	stylist *Stylist,
	el Element,
	pseudo PseudoElement,
	styleAttribute *shared.Arc[sheet.DeclarationBlock],
	smilOverride *shared.Arc[sheet.DeclarationBlock],
	animations AnimationRules,
	out *ApplicableDeclarationList,
	ctx *MatchingContext,
	opts CollectorOptions,
) *RuleCollector {
	if pseudo != PseudoNone && styleAttribute != nil {
		panic("style: style attribute cannot apply to a pseudo-element query")
	}
	ctx.TargetPseudo = pseudo
	return &RuleCollector{
		stylist:                   stylist,
		element:                   el,
		ruleHashTarget:            el.RuleHashTarget(),
		pseudo:                    pseudo,
		styleAttribute:            styleAttribute,
		smilOverride:              smilOverride,
		animations:                animations,
		out:                       out,
		ctx:                       ctx,
		opts:                      opts,
		matchesUserAndAuthorRules: el.MatchesUserAndAuthorRules(),
	}
}

// CollectAll runs the full collection sequence. It may be called once.
func (c *RuleCollector) CollectAll() {
	if c.collected {
		panic("style: RuleCollector reused")
	}
	c.collected = true

	c.collectUserAgentRules()
	c.collectUserRules()
	c.collectPresentationalHints()

	if c.opts.OnlyDefaultRules || c.opts.AuthorStylesDisabled {
		return
	}

	c.collectAuthorRules()
	c.collectStyleAttribute()
	c.collectAnimationRules()
}

func (c *RuleCollector) collectFromMap(m *SelectorMap, level CascadeLevel, shadowCascadeOrder int) {
	if m == nil || m.IsEmpty() {
		return
	}
	m.GetAllMatchingRules(c.element, c.ruleHashTarget, c.out, c.ctx, level, shadowCascadeOrder)
}

// inShadowScope runs fn with :host resolving against the given tree's
// host element.
func (c *RuleCollector) inShadowScope(host Element, fn func()) {
	prev := c.ctx.ShadowHost
	c.ctx.ShadowHost = host
	fn()
	c.ctx.ShadowHost = prev
}

func (c *RuleCollector) collectUserAgentRules() {
	data := c.stylist.cascadeDataFor(sheet.OriginUserAgent)
	c.collectFromMap(data.mapFor(c.pseudo), LevelUANormal, 0)
}

func (c *RuleCollector) collectUserRules() {
	// User rules never apply inside UA widget or SVG resource trees.
	if !c.matchesUserAndAuthorRules {
		return
	}
	data := c.stylist.cascadeDataFor(sheet.OriginUser)
	c.collectFromMap(data.mapFor(c.pseudo), LevelUserNormal, 0)
}

// collectPresentationalHints appends the declaration blocks synthesized
// from legacy presentational attributes. They sit between user and
// author rules and survive author styles being disabled.
func (c *RuleCollector) collectPresentationalHints() {
	if c.pseudo != PseudoNone {
		return
	}
	for _, block := range c.element.PresentationalHints() {
		block.Level = LevelPresHints
		*c.out = append(*c.out, block)
	}
}

// slottedScope is one shadow tree contributing ::slotted rules to the
// element, through the slot the element (or its slot) is assigned to.
type slottedScope struct {
	slot   Element
	shadow ShadowRoot
}

// authorScopes are the shadow-tree scopes relevant to one element,
// with their precomputed shadow cascade orders. Outer scopes get
// strictly lower orders than inner ones; the document scope is order
// zero. The orders are assigned tree-outermost-first even though the
// collection sequence visits the scopes in a different order.
type authorScopes struct {
	containing      ShadowRoot
	containingOrder int
	// scopedOutOfDocument is set when a containing shadow tree, even a
	// styleless one, cuts the element off from the document's author
	// rules. Trees cloned for SVG <use> expansion do not.
	scopedOutOfDocument bool
	slotted       []slottedScope // outermost slot first
	slottedOrders []int
	own           ShadowRoot
	ownOrder      int
}

func (c *RuleCollector) resolveAuthorScopes() authorScopes {
	var scopes authorScopes
	next := 1

	if shadow := c.element.ContainingShadow(); shadow != nil {
		if isSVGUseShadow(shadow) {
			if styles := shadow.Styles(); styles != nil && !styles.IsEmpty() {
				panic("style: SVG <use> shadow trees must not carry stylesheets")
			}
		} else {
			scopes.scopedOutOfDocument = true
			if styles := shadow.Styles(); styles != nil && !styles.IsEmpty() {
				scopes.containing = shadow
				scopes.containingOrder = next
				next++
			}
		}
	}

	// The assignment chain walks innermost first; reverse it.
	var chain []slottedScope
	for slot := c.element.AssignedSlot(); slot != nil; slot = slot.AssignedSlot() {
		shadow := slot.ContainingShadow()
		if shadow == nil {
			break
		}
		if styles := shadow.Styles(); styles != nil && len(styles.cascadeData().slotted) > 0 {
			chain = append(chain, slottedScope{slot: slot, shadow: shadow})
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		scopes.slotted = append(scopes.slotted, chain[i])
		scopes.slottedOrders = append(scopes.slottedOrders, next)
		next++
	}

	if shadow := c.element.Shadow(); shadow != nil {
		if styles := shadow.Styles(); styles != nil && !styles.IsEmpty() {
			scopes.own = shadow
			scopes.ownOrder = next
		}
	}
	return scopes
}

func (c *RuleCollector) collectAuthorRules() {
	if !c.matchesUserAndAuthorRules {
		return
	}

	scopes := c.resolveAuthorScopes()
	c.collectHostRules(scopes)
	c.collectSlottedRules(scopes)
	if scopes.containing != nil {
		c.collectContainingShadowRules(scopes)
	}
	if !scopes.scopedOutOfDocument {
		c.collectDocumentAuthorRules()
	}
}

// isSVGUseShadow reports whether the shadow tree is the cloned content
// of an SVG <use> element. Such trees inherit the referenced content's
// document scoping instead of carrying styles of their own.
func isSVGUseShadow(shadow ShadowRoot) bool {
	host := shadow.Host()
	return host != nil && host.Namespace() == svgNamespace && host.LocalName() == "use"
}

// collectHostRules applies :host rules from the element's own shadow
// root: the tree inside the element styles its host from within.
func (c *RuleCollector) collectHostRules(scopes authorScopes) {
	if scopes.own == nil {
		return
	}
	host := scopes.own.Styles().cascadeData().host
	if host.IsEmpty() {
		return
	}
	c.inShadowScope(c.element, func() {
		c.collectFromMap(host, LevelInnerShadowNormal, scopes.ownOrder)
	})
}

// collectSlottedRules applies ::slotted rules from every shadow tree
// the element is slotted into, outermost slot first. An element
// assigned to a slot that is itself assigned to another slot can match
// ::slotted rules from several nested trees.
func (c *RuleCollector) collectSlottedRules(scopes authorScopes) {
	if c.pseudo != PseudoNone {
		return
	}
	for i, scope := range scopes.slotted {
		order := scopes.slottedOrders[i]
		c.inShadowScope(scope.shadow.Host(), func() {
			for _, rule := range scope.shadow.Styles().cascadeData().slotted {
				if MatchesSlottedSelector(rule.Selector, c.element, scope.slot, c.ctx) {
					*c.out = append(*c.out, rule.ToApplicableBlock(LevelInnerShadowNormal, order))
				}
			}
		})
	}
}

// collectContainingShadowRules applies the stylesheets of the shadow
// tree the element lives in. This is the element's same-tree author
// scope; :host rules naming the tree's own host do not resolve here
// because the element is not that host.
func (c *RuleCollector) collectContainingShadowRules(scopes authorScopes) {
	styles := scopes.containing.Styles()
	c.inShadowScope(scopes.containing.Host(), func() {
		c.collectFromMap(styles.cascadeData().mapFor(c.pseudo), LevelSameTreeAuthorNormal, scopes.containingOrder)
	})
}

func (c *RuleCollector) collectDocumentAuthorRules() {
	data := c.stylist.cascadeDataFor(sheet.OriginAuthor)
	c.collectFromMap(data.mapFor(c.pseudo), LevelSameTreeAuthorNormal, 0)
}

func (c *RuleCollector) collectStyleAttribute() {
	if c.pseudo != PseudoNone {
		return
	}
	if c.styleAttribute != nil {
		*c.out = append(*c.out, NewApplicableBlock(*c.styleAttribute, LevelStyleAttributeNormal))
	}
	if c.smilOverride != nil {
		*c.out = append(*c.out, NewApplicableBlock(*c.smilOverride, LevelSMILOverride))
	}
}

// collectAnimationRules appends animation and transition blocks and
// takes ownership of them; the AnimationRules fields are zeroed so a
// stale handle cannot be pushed twice.
func (c *RuleCollector) collectAnimationRules() {
	if block := c.animations.Animations; block != nil {
		*c.out = append(*c.out, NewApplicableBlock(*block, LevelAnimations))
		c.animations.Animations = nil
	}
	if block := c.animations.Transitions; block != nil {
		*c.out = append(*c.out, NewApplicableBlock(*block, LevelTransitions))
		c.animations.Transitions = nil
	}
}
