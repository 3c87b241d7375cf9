package style

import "sort"

// SelectorMap indexes rules by the fast-reject key of their subject
// compound, so that matching an element only tests rules that share
// its id, one of its classes, or its local name, plus the residual
// "other" bucket. Buckets never cause a false negative: a rule that
// could match always lands in a bucket the lookup consults.
//
// A map is built during Stylist.Update and is read-only afterwards;
// concurrent readers need no locking.
type SelectorMap struct {
	id        map[string][]*Rule
	class     map[string][]*Rule
	localName map[string][]*Rule
	other     []*Rule
	count     int
}

// NewSelectorMap returns an empty map.
func NewSelectorMap() *SelectorMap {
	return &SelectorMap{
		id:        make(map[string][]*Rule),
		class:     make(map[string][]*Rule),
		localName: make(map[string][]*Rule),
	}
}

// Len returns the number of rules inserted.
func (m *SelectorMap) Len() int { return m.count }

// IsEmpty reports whether the map holds no rules.
func (m *SelectorMap) IsEmpty() bool { return m.count == 0 }

// Insert files the rule under exactly one bucket, chosen from its
// subject compound with priority id > class > local name > other.
// Insertion order within a bucket preserves source order.
func (m *SelectorMap) Insert(rule *Rule) {
	subject := rule.Selector.Rightmost()

	if len(subject.IDSelectors) > 0 {
		key := subject.IDSelectors[0]
		m.id[key] = append(m.id[key], rule)
	} else if len(subject.ClassSelectors) > 0 {
		key := subject.ClassSelectors[0]
		m.class[key] = append(m.class[key], rule)
	} else if ts := subject.TypeSelector; ts != nil && ts.Name != "*" {
		m.localName[ts.Name] = append(m.localName[ts.Name], rule)
	} else {
		m.other = append(m.other, rule)
	}
	m.count++
}

// GetAllMatchingRules finds every rule in the map matching the
// element and appends an ApplicableDeclarationBlock per match to out,
// tagged with the given cascade level and shadow cascade order.
// Bucket lookups use the rule hash target; full matching runs against
// the element itself. Appended blocks are ordered by source order.
func (m *SelectorMap) GetAllMatchingRules(
	el Element,
	ruleHashTarget Element,
	out *ApplicableDeclarationList,
	ctx *MatchingContext,
	level CascadeLevel,
	shadowCascadeOrder int,
) {
	if m.count == 0 {
		return
	}

	var matched []*Rule
	consider := func(rules []*Rule) {
		for _, rule := range rules {
			if MatchesSelector(rule, el, ctx) {
				matched = append(matched, rule)
			}
		}
	}

	if id := ruleHashTarget.ID(); id != "" {
		consider(m.id[id])
	}
	// The class attribute may repeat a token; consult each bucket once.
	var seenClasses []string
	ruleHashTarget.EachClass(func(class string) {
		for _, seen := range seenClasses {
			if seen == class {
				return
			}
		}
		seenClasses = append(seenClasses, class)
		consider(m.class[class])
	})
	consider(m.localName[ruleHashTarget.LocalName()])
	consider(m.other)

	// Each rule lives in exactly one bucket and each bucket is visited
	// once, so no deduplication is needed; only the cross-bucket
	// ordering has to be restored.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SourceOrder < matched[j].SourceOrder
	})
	for _, rule := range matched {
		*out = append(*out, rule.ToApplicableBlock(level, shadowCascadeOrder))
	}
}
