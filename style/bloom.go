package style

import "hash/fnv"

// The ancestor filter is a counting bloom filter over the ids, classes
// and local names of every ancestor of the element currently being
// matched. A selector whose ancestor compounds demand a key that is
// not in the filter cannot possibly match, so the full right-to-left
// walk is skipped. The filter may produce false positives, never false
// negatives.

const (
	bloomKeyBits = 12
	bloomSize    = 1 << bloomKeyBits
	bloomKeyMask = bloomSize - 1
)

// countingBloomFilter holds one byte of count per slot so that entries
// can be removed when the parallel traversal pops back up the tree.
type countingBloomFilter struct {
	counters [bloomSize]uint8
}

func (f *countingBloomFilter) slots(hash uint32) (uint32, uint32) {
	return hash & bloomKeyMask, (hash >> 16) & bloomKeyMask
}

func (f *countingBloomFilter) insertHash(hash uint32) {
	s1, s2 := f.slots(hash)
	// Saturated counters stay saturated; the filter just gets more
	// permissive, which is safe.
	if f.counters[s1] != 0xff {
		f.counters[s1]++
	}
	if f.counters[s2] != 0xff {
		f.counters[s2]++
	}
}

func (f *countingBloomFilter) removeHash(hash uint32) {
	s1, s2 := f.slots(hash)
	if f.counters[s1] != 0xff {
		f.counters[s1]--
	}
	if f.counters[s2] != 0xff {
		f.counters[s2]--
	}
}

func (f *countingBloomFilter) mightContainHash(hash uint32) bool {
	s1, s2 := f.slots(hash)
	return f.counters[s1] != 0 && f.counters[s2] != 0
}

// AncestorFilter tracks the ancestor chain during a tree traversal.
// Push an element when descending into it, pop when leaving. Each
// traversal goroutine owns its filter exclusively.
type AncestorFilter struct {
	filter countingBloomFilter
}

// NewAncestorFilter returns an empty filter.
func NewAncestorFilter() *AncestorFilter {
	return &AncestorFilter{}
}

// PushElement records an element's keys in the filter.
func (a *AncestorFilter) PushElement(el Element) {
	eachRelevantHash(el, a.filter.insertHash)
}

// PopElement removes an element's keys. Elements must be popped in
// LIFO order relative to their push.
func (a *AncestorFilter) PopElement(el Element) {
	eachRelevantHash(el, a.filter.removeHash)
}

func eachRelevantHash(el Element, fn func(uint32)) {
	if name := el.LocalName(); name != "" && name != "*" {
		fn(bloomHash(hashKindLocalName, name))
	}
	if id := el.ID(); id != "" {
		fn(bloomHash(hashKindID, id))
	}
	el.EachClass(func(class string) {
		fn(bloomHash(hashKindClass, class))
	})
}

type hashKind byte

const (
	hashKindLocalName hashKind = iota + 1
	hashKindID
	hashKindClass
)

func bloomHash(kind hashKind, value string) uint32 {
	h := fnv.New32a()
	h.Write([]byte{byte(kind)})
	h.Write([]byte(value))
	return h.Sum32()
}

// maxAncestorHashes caps the per-selector hash count; selectors with
// more ancestor requirements just reject a little less eagerly.
const maxAncestorHashes = 4

// AncestorHashes holds the bloom keys a selector requires of the
// ancestor chain, precomputed once when the rule is built.
type AncestorHashes struct {
	hashes [maxAncestorHashes]uint32
	count  int
}

// CollectAncestorHashes extracts up to maxAncestorHashes keys from the
// compounds to the left of the subject that constrain ancestors (those
// reached across descendant or child combinators; compounds linked by
// sibling combinators share the same ancestor chain, so compounds
// beyond them still qualify).
func CollectAncestorHashes(cs *ComplexSelector) AncestorHashes {
	var ah AncestorHashes
	add := func(kind hashKind, value string) {
		if ah.count < maxAncestorHashes {
			ah.hashes[ah.count] = bloomHash(kind, value)
			ah.count++
		}
	}

	inAncestor := false
	for i := len(cs.Compounds) - 2; i >= 0; i-- {
		c := cs.Compounds[i]
		// Combinator linking c to the compound on its right. A
		// descendant or child crossing makes c an ancestor of the
		// subject; a sibling crossing makes c a sibling of whatever is
		// on the right, which is not an ancestor, until another
		// descendant crossing is seen.
		switch c.Combinator {
		case CombinatorDescendant, CombinatorChild:
			inAncestor = true
		case CombinatorNextSibling, CombinatorSubsequentSibling:
			inAncestor = false
		}
		if !inAncestor {
			continue
		}
		if ts := c.TypeSelector; ts != nil && ts.Name != "*" {
			add(hashKindLocalName, ts.Name)
		}
		for _, id := range c.IDSelectors {
			add(hashKindID, id)
		}
		for _, class := range c.ClassSelectors {
			add(hashKindClass, class)
		}
	}
	return ah
}

// mayMatch reports whether the filter could contain every key the
// selector requires. False means the selector definitely does not
// match with the current ancestor chain.
func (ah *AncestorHashes) mayMatch(f *AncestorFilter) bool {
	if f == nil {
		return true
	}
	for i := 0; i < ah.count; i++ {
		if !f.filter.mightContainHash(ah.hashes[i]) {
			return false
		}
	}
	return true
}
