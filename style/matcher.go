package style

import (
	"strings"
)

// VisitedHandlingMode controls how :link and :visited resolve. Link
// visitedness is never read off element state directly; styling for
// visited links is computed in a separate pass with a different mode,
// which is the history-sniffing mitigation.
type VisitedHandlingMode int

const (
	// AllLinksUnvisited treats every link as unvisited (the mode for
	// the primary style pass).
	AllLinksUnvisited VisitedHandlingMode = iota
	// AllLinksVisitedAndUnvisited lets both :link and :visited match
	// every link, used when collecting rules that may apply in either
	// state.
	AllLinksVisitedAndUnvisited
	// RelevantLinkVisited treats the element being styled as visited
	// (the mode for the visited-style pass).
	RelevantLinkVisited
)

// MatchingContext carries the per-call mutable state of a matching
// run. One context is owned by exactly one collector or invalidation
// computation; contexts are never shared across goroutines.
type MatchingContext struct {
	VisitedHandling VisitedHandlingMode
	// Filter is the optional ancestor bloom filter maintained by the
	// tree traversal driving this match.
	Filter *AncestorFilter
	// FlagsSetter records selector-matching dependencies for
	// invalidation. May be nil.
	FlagsSetter func(Element, ElementSelectorFlags)
	// ShadowHost scopes :host matching: it is set while matching rules
	// from a shadow tree's own stylesheets.
	ShadowHost Element
	// TargetPseudo is the pseudo-element being queried, PseudoNone for
	// the element itself.
	TargetPseudo PseudoElement

	nestingLevel int
}

// NestingLevel returns the current depth of logical-combination
// pseudo-class recursion (:not, :is, ...).
func (ctx *MatchingContext) NestingLevel() int {
	return ctx.nestingLevel
}

// nest runs fn with the nesting level raised. The increment happens
// for every logical-combination recursion, including ones that merely
// delegate to a live element with no snapshot substitution; other
// bookkeeping relies on the level being accurate.
func (ctx *MatchingContext) nest(fn func() bool) bool {
	ctx.nestingLevel++
	defer func() { ctx.nestingLevel-- }()
	return fn()
}

func (ctx *MatchingContext) setFlags(el Element, flags ElementSelectorFlags) {
	if ctx.FlagsSetter != nil && el != nil {
		ctx.FlagsSetter(el, flags)
	}
}

// MatchesSelector is the entry point used by the selector map: it
// applies the bloom fast-reject and then runs the full match.
func MatchesSelector(rule *Rule, el Element, ctx *MatchingContext) bool {
	if !rule.hashes.mayMatch(ctx.Filter) {
		return false
	}
	return MatchesComplexSelector(rule.Selector, el, ctx)
}

// MatchesComplexSelector runs the right-to-left match of a complex
// selector against an element.
func MatchesComplexSelector(cs *ComplexSelector, el Element, ctx *MatchingContext) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	subject := cs.Rightmost()
	if pe := subject.PseudoElement; pe != nil && pe.Slotted == nil {
		if pe.Kind == PseudoNone || pe.Kind != ctx.TargetPseudo {
			return false
		}
	} else if ctx.TargetPseudo != PseudoNone {
		// A pseudo-element query only matches selectors naming it.
		return false
	}

	if !matchCompound(subject, el, ctx) {
		return false
	}
	return matchAncestry(cs, len(cs.Compounds)-1, el, ctx)
}

// matchAncestry matches the compounds to the left of index i against
// the tree around el, which already matched compound i.
func matchAncestry(cs *ComplexSelector, i int, el Element, ctx *MatchingContext) bool {
	current := el
	for i > 0 {
		combinator := cs.Compounds[i-1].Combinator
		i--
		compound := cs.Compounds[i]

		switch combinator {
		case CombinatorDescendant:
			for ancestor := current.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
				if matchCompound(compound, ancestor, ctx) && matchAncestry(cs, i, ancestor, ctx) {
					return true
				}
			}
			return false

		case CombinatorChild:
			parent := current.Parent()
			if parent == nil || !matchCompound(compound, parent, ctx) {
				return false
			}
			current = parent

		case CombinatorNextSibling:
			ctx.setFlags(current.Parent(), FlagHasSlowSelectorLaterSiblings)
			prev := current.PrevSibling()
			if prev == nil || !matchCompound(compound, prev, ctx) {
				return false
			}
			current = prev

		case CombinatorSubsequentSibling:
			ctx.setFlags(current.Parent(), FlagHasSlowSelectorLaterSiblings)
			for prev := current.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
				if matchCompound(compound, prev, ctx) && matchAncestry(cs, i, prev, ctx) {
					return true
				}
			}
			return false

		default:
			return false
		}
	}
	return true
}

// MatchesSlottedSelector matches a ::slotted rule: the argument
// compound against the slotted element, everything else against the
// slot the element is assigned to, inside the slot's own tree.
func MatchesSlottedSelector(cs *ComplexSelector, el Element, slot Element, ctx *MatchingContext) bool {
	subject := cs.Rightmost()
	pe := subject.PseudoElement
	if pe == nil || pe.Slotted == nil {
		return false
	}
	if !matchCompoundSimple(pe.Slotted, el, ctx) {
		return false
	}
	if !matchCompound(subject, slot, ctx) {
		return false
	}
	return matchAncestry(cs, len(cs.Compounds)-1, slot, ctx)
}

// matchCompound matches every simple selector of a compound except
// its pseudo-element (which is resolved by the caller).
func matchCompound(c *CompoundSelector, el Element, ctx *MatchingContext) bool {
	return matchCompoundSimple(c, el, ctx)
}

func matchCompoundSimple(c *CompoundSelector, el Element, ctx *MatchingContext) bool {
	if ts := c.TypeSelector; ts != nil {
		if !matchTypeSelector(ts, el) {
			return false
		}
	}
	for _, id := range c.IDSelectors {
		if el.ID() != id {
			return false
		}
	}
	for _, class := range c.ClassSelectors {
		if !el.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(pc, el, ctx) {
			return false
		}
	}
	return true
}

func matchTypeSelector(ts *TypeSelector, el Element) bool {
	if ts.Name != "*" && !strings.EqualFold(el.LocalName(), ts.Name) {
		return false
	}
	switch ts.Namespace {
	case "", "*":
		return true
	default:
		return el.Namespace() == ts.Namespace
	}
}

func matchAttributeSelector(attr *AttributeMatcher, el Element) bool {
	attrValue, ok := el.AttrValue(attr.Namespace, attr.Name)
	if !ok {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	matchValue := attr.Value
	if attr.CaseInsensitive {
		attrValue = strings.ToLower(attrValue)
		matchValue = strings.ToLower(matchValue)
	}

	switch attr.Operator {
	case AttrEquals:
		return attrValue == matchValue
	case AttrIncludes:
		for _, word := range strings.Fields(attrValue) {
			if word == matchValue {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return attrValue == matchValue || strings.HasPrefix(attrValue, matchValue+"-")
	case AttrPrefix:
		return matchValue != "" && strings.HasPrefix(attrValue, matchValue)
	case AttrSuffix:
		return matchValue != "" && strings.HasSuffix(attrValue, matchValue)
	case AttrSubstring:
		return matchValue != "" && strings.Contains(attrValue, matchValue)
	}
	return false
}

func matchPseudoClass(pc *PseudoClassSelector, el Element, ctx *MatchingContext) bool {
	if state, ok := pseudoClassStates[pc.Name]; ok {
		return el.State().Intersects(state)
	}

	switch pc.Name {
	case "link":
		switch ctx.VisitedHandling {
		case AllLinksVisitedAndUnvisited, AllLinksUnvisited:
			return el.IsLink()
		default:
			return false
		}

	case "visited":
		switch ctx.VisitedHandling {
		case AllLinksVisitedAndUnvisited, RelevantLinkVisited:
			return el.IsLink()
		default:
			return false
		}

	case "any-link":
		return el.IsLink()

	case "dir":
		state := dirState(pc.Argument)
		if state == 0 {
			return false
		}
		return el.State().Intersects(state)

	case "lang":
		return matchLang(pc.Argument, el)

	case "root":
		return el.IsRoot()

	case "empty":
		ctx.setFlags(el, FlagHasEmptySelector)
		return el.IsEmpty()

	case "first-child":
		ctx.setFlags(el.Parent(), FlagHasEdgeChildSelector)
		return el.PrevSibling() == nil

	case "last-child":
		ctx.setFlags(el.Parent(), FlagHasEdgeChildSelector)
		return el.NextSibling() == nil

	case "only-child":
		ctx.setFlags(el.Parent(), FlagHasEdgeChildSelector)
		return el.PrevSibling() == nil && el.NextSibling() == nil

	case "first-of-type":
		ctx.setFlags(el.Parent(), FlagHasSlowSelector)
		return countSiblingsOfType(el, false) == 0

	case "last-of-type":
		ctx.setFlags(el.Parent(), FlagHasSlowSelectorLaterSiblings)
		return countSiblingsOfType(el, true) == 0

	case "only-of-type":
		ctx.setFlags(el.Parent(), FlagHasSlowSelector|FlagHasSlowSelectorLaterSiblings)
		return countSiblingsOfType(el, false) == 0 && countSiblingsOfType(el, true) == 0

	case "nth-child":
		ctx.setFlags(el.Parent(), FlagHasSlowSelector)
		return matchNth(pc.Argument, el, false, false)

	case "nth-last-child":
		ctx.setFlags(el.Parent(), FlagHasSlowSelectorLaterSiblings)
		return matchNth(pc.Argument, el, true, false)

	case "nth-of-type":
		ctx.setFlags(el.Parent(), FlagHasSlowSelector)
		return matchNth(pc.Argument, el, false, true)

	case "nth-last-of-type":
		ctx.setFlags(el.Parent(), FlagHasSlowSelectorLaterSiblings)
		return matchNth(pc.Argument, el, true, true)

	case "not":
		return ctx.nest(func() bool {
			for _, inner := range pc.Selector {
				if MatchesComplexSelector(inner, el, ctx) {
					return false
				}
			}
			return true
		})

	case "is", "where", "matches", "any":
		return ctx.nest(func() bool {
			for _, inner := range pc.Selector {
				if MatchesComplexSelector(inner, el, ctx) {
					return true
				}
			}
			return false
		})

	case "has":
		return ctx.nest(func() bool {
			return hasMatchingDescendant(el, pc.Selector, ctx)
		})

	case "host":
		if ctx.ShadowHost == nil || !sameElement(el, ctx.ShadowHost) {
			return false
		}
		if pc.Compound != nil {
			return matchCompoundSimple(pc.Compound, el, ctx)
		}
		return true

	case "host-context":
		if ctx.ShadowHost == nil || !sameElement(el, ctx.ShadowHost) {
			return false
		}
		for e := el; e != nil; e = e.Parent() {
			if matchCompoundSimple(pc.Compound, e, ctx) {
				return true
			}
		}
		return false

	case "scope":
		return el.IsRoot()

	default:
		// Unknown pseudo-class: never matches.
		return false
	}
}

// sameElement compares element identity, seeing through wrappers so a
// wrapped host still counts as the host.
func sameElement(a, b Element) bool {
	if w, ok := a.(*ElementWrapper); ok {
		a = w.element
	}
	if w, ok := b.(*ElementWrapper); ok {
		b = w.element
	}
	return a == b
}

func countSiblingsOfType(el Element, later bool) int {
	name := el.LocalName()
	count := 0
	if later {
		for next := el.NextSibling(); next != nil; next = next.NextSibling() {
			if strings.EqualFold(next.LocalName(), name) {
				count++
			}
		}
	} else {
		for prev := el.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
			if strings.EqualFold(prev.LocalName(), name) {
				count++
			}
		}
	}
	return count
}

// matchNth implements :nth-child and friends with An+B arguments.
func matchNth(arg string, el Element, fromLast, ofType bool) bool {
	a, b, ok := parseAnPlusB(arg)
	if !ok {
		return false
	}

	pos := 1
	if ofType {
		pos += countSiblingsOfType(el, fromLast)
	} else if fromLast {
		for next := el.NextSibling(); next != nil; next = next.NextSibling() {
			pos++
		}
	} else {
		for prev := el.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
			pos++
		}
	}

	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

// parseAnPlusB parses an An+B expression such as "2n+1", "odd" or "3".
func parseAnPlusB(s string) (a, b int, ok bool) {
	s = strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "")
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	case "":
		return 0, 0, false
	}

	nIdx := strings.Index(s, "n")
	if nIdx == -1 {
		n, bad := atoiChecked(s)
		if bad {
			return 0, 0, false
		}
		return 0, n, true
	}

	aStr := s[:nIdx]
	switch aStr {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		var bad bool
		a, bad = atoiChecked(aStr)
		if bad {
			return 0, 0, false
		}
	}

	bStr := s[nIdx+1:]
	if bStr == "" {
		return a, 0, true
	}
	var bad bool
	b, bad = atoiChecked(bStr)
	if bad {
		return 0, 0, false
	}
	return a, b, true
}

func atoiChecked(s string) (int, bool) {
	s = strings.TrimPrefix(s, "+")
	neg := false
	if rest, found := strings.CutPrefix(s, "-"); found {
		neg = true
		s = rest
	}
	if s == "" {
		return 0, true
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, true
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, false
}

func hasMatchingDescendant(el Element, list []*ComplexSelector, ctx *MatchingContext) bool {
	for child := el.FirstChild(); child != nil; child = child.NextSibling() {
		for _, inner := range list {
			if MatchesComplexSelector(inner, child, ctx) {
				return true
			}
		}
		if hasMatchingDescendant(child, list, ctx) {
			return true
		}
	}
	return false
}

func matchLang(lang string, el Element) bool {
	if lang == "" {
		return false
	}
	elLang := strings.ToLower(langOf(el))
	if elLang == "" {
		return false
	}
	lang = strings.ToLower(lang)
	return elLang == lang || strings.HasPrefix(elLang, lang+"-")
}
