package style

// ElementWrapper implements the Element capability over a live element
// plus the pending snapshot map: every attribute, class, id and state
// query answers from the element's snapshot when one recorded that
// data, and delegates to the live element otherwise. Running the
// regular matcher over a wrapper therefore answers "did this selector
// match before the pending mutations", while running it over the live
// element answers "does it match now".
//
// Construction is allocation-light and wrappers are freely discarded;
// the snapshot lookup is lazy and cached for the wrapper's lifetime.
type ElementWrapper struct {
	element   Element
	snapshots *SnapshotMap

	snapshot       *ElementSnapshot
	snapshotLooked bool
}

// NewElementWrapper wraps an element over a snapshot map.
func NewElementWrapper(el Element, snapshots *SnapshotMap) *ElementWrapper {
	return &ElementWrapper{element: el, snapshots: snapshots}
}

// Inner returns the wrapped live element.
func (w *ElementWrapper) Inner() Element { return w.element }

// Snapshot returns the element's pending snapshot, nil if it has none.
func (w *ElementWrapper) Snapshot() *ElementSnapshot {
	if !w.snapshotLooked {
		w.snapshot = w.snapshots.Get(w.element)
		w.snapshotLooked = true
	}
	return w.snapshot
}

// StateChanges returns the state bits that differ between the
// snapshot and the live element. No snapshot, or a snapshot without
// recorded state, means nothing changed.
func (w *ElementWrapper) StateChanges() ElementState {
	s := w.Snapshot()
	if s == nil || !s.HasState() {
		return 0
	}
	return s.State() ^ w.element.State()
}

func (w *ElementWrapper) wrap(el Element) Element {
	if el == nil {
		return nil
	}
	return NewElementWrapper(el, w.snapshots)
}

// Tree navigation wraps relatives so that ancestor and sibling queries
// made during matching also consult snapshots; :lang() in particular
// must see an ancestor's recorded lang attribute, not its live one.

func (w *ElementWrapper) Parent() Element      { return w.wrap(w.element.Parent()) }
func (w *ElementWrapper) PrevSibling() Element { return w.wrap(w.element.PrevSibling()) }
func (w *ElementWrapper) NextSibling() Element { return w.wrap(w.element.NextSibling()) }
func (w *ElementWrapper) FirstChild() Element  { return w.wrap(w.element.FirstChild()) }
func (w *ElementWrapper) IsEmpty() bool        { return w.element.IsEmpty() }
func (w *ElementWrapper) IsRoot() bool         { return w.element.IsRoot() }

func (w *ElementWrapper) LocalName() string { return w.element.LocalName() }
func (w *ElementWrapper) Namespace() string { return w.element.Namespace() }

func (w *ElementWrapper) ID() string {
	if s := w.Snapshot(); s != nil && s.HasAttrs() {
		return s.ID()
	}
	return w.element.ID()
}

func (w *ElementWrapper) HasClass(name string) bool {
	if s := w.Snapshot(); s != nil && s.HasAttrs() {
		return s.HasClass(name)
	}
	return w.element.HasClass(name)
}

func (w *ElementWrapper) EachClass(fn func(name string)) {
	if s := w.Snapshot(); s != nil && s.HasAttrs() {
		s.EachClass(fn)
		return
	}
	w.element.EachClass(fn)
}

func (w *ElementWrapper) HasAttr(namespace, name string) bool {
	_, ok := w.AttrValue(namespace, name)
	return ok
}

func (w *ElementWrapper) AttrValue(namespace, name string) (string, bool) {
	if s := w.Snapshot(); s != nil && s.HasAttrs() {
		return s.AttrValue(namespace, name)
	}
	return w.element.AttrValue(namespace, name)
}

func (w *ElementWrapper) EachAttr(fn func(namespace, name, value string)) {
	w.element.EachAttr(fn)
}

func (w *ElementWrapper) State() ElementState {
	if s := w.Snapshot(); s != nil && s.HasState() {
		return s.State()
	}
	return w.element.State()
}

// IsLink delegates live: link-ness never resolves through element
// state, and visitedness is the matching context's call.
func (w *ElementWrapper) IsLink() bool { return w.element.IsLink() }

func (w *ElementWrapper) IsHTMLElementInHTMLDocument() bool {
	return w.element.IsHTMLElementInHTMLDocument()
}

func (w *ElementWrapper) Shadow() ShadowRoot {
	return w.wrapShadow(w.element.Shadow())
}

func (w *ElementWrapper) ContainingShadow() ShadowRoot {
	return w.wrapShadow(w.element.ContainingShadow())
}

func (w *ElementWrapper) AssignedSlot() Element {
	return w.wrap(w.element.AssignedSlot())
}

func (w *ElementWrapper) MatchesUserAndAuthorRules() bool {
	return w.element.MatchesUserAndAuthorRules()
}

// RuleHashTarget resolves through the live element's target but stays
// wrapped, so bucket lookups read snapshotted id and classes.
func (w *ElementWrapper) RuleHashTarget() Element {
	target := w.element.RuleHashTarget()
	if target == w.element {
		return w
	}
	return w.wrap(target)
}

func (w *ElementWrapper) PresentationalHints() []ApplicableDeclarationBlock {
	return w.element.PresentationalHints()
}

func (w *ElementWrapper) wrapShadow(sr ShadowRoot) ShadowRoot {
	if sr == nil {
		return nil
	}
	return &wrappedShadowRoot{inner: sr, snapshots: w.snapshots}
}

// wrappedShadowRoot keeps the host element wrapped, so that
// :host-context ancestor walks during before-change matching read
// snapshots too.
type wrappedShadowRoot struct {
	inner     ShadowRoot
	snapshots *SnapshotMap
}

func (s *wrappedShadowRoot) Host() Element {
	host := s.inner.Host()
	if host == nil {
		return nil
	}
	return NewElementWrapper(host, s.snapshots)
}

func (s *wrappedShadowRoot) Styles() *AuthorStyles { return s.inner.Styles() }
