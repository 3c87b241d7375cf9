package style

// MatchChanged reports whether a selector's match result for an
// element flipped because of the pending mutations recorded in the
// snapshot map. The before-state match runs over an ElementWrapper so
// that snapshotted attributes, state and ancestor languages are what
// the selector sees; both matches use the visited-inclusive handling
// mode, which makes the answer conservative for link styling.
func MatchChanged(sel *ComplexSelector, el Element, snapshots *SnapshotMap) bool {
	nowCtx := MatchingContext{VisitedHandling: AllLinksVisitedAndUnvisited}
	now := MatchesComplexSelector(sel, el, &nowCtx)

	beforeCtx := MatchingContext{VisitedHandling: AllLinksVisitedAndUnvisited}
	before := MatchesComplexSelector(sel, NewElementWrapper(el, snapshots), &beforeCtx)

	return now != before
}

// StateChanges returns the state bits of the element that the pending
// mutations flipped. An element without a snapshot reports no changes.
func StateChanges(el Element, snapshots *SnapshotMap) ElementState {
	return NewElementWrapper(el, snapshots).StateChanges()
}
