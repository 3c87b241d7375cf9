package style

import "strings"

// SnapshotAttr is one captured attribute value.
type SnapshotAttr struct {
	Namespace string
	Name      string
	Value     string
}

// ElementSnapshot captures the parts of an element's matching-relevant
// state as they were before a mutation. A snapshot may record state
// bits, attributes, both or neither; queries distinguish "recorded as
// absent" from "not recorded".
//
// Snapshots are written by the sequential DOM-mutation path and are
// read-only once an invalidation pass starts.
type ElementSnapshot struct {
	state    ElementState
	hasState bool

	attrs    []SnapshotAttr
	hasAttrs bool

	classChanged     bool
	idChanged        bool
	otherAttrChanged bool
}

// NewElementSnapshot returns an empty snapshot.
func NewElementSnapshot() *ElementSnapshot {
	return &ElementSnapshot{}
}

// RecordState captures the element's state bitset. Later calls keep
// the first recording, which is the true pre-mutation value.
func (s *ElementSnapshot) RecordState(state ElementState) {
	if s.hasState {
		return
	}
	s.state = state
	s.hasState = true
}

// RecordAttrs captures every attribute of the element, which must not
// have been mutated yet. Later calls keep the first recording.
func (s *ElementSnapshot) RecordAttrs(el Element) {
	if s.hasAttrs {
		return
	}
	s.hasAttrs = true
	el.EachAttr(func(ns, name, value string) {
		s.attrs = append(s.attrs, SnapshotAttr{Namespace: ns, Name: name, Value: value})
	})
}

// NoteAttributeChanged marks which kind of attribute the pending
// mutation touches, so invalidation can skip work for the others.
func (s *ElementSnapshot) NoteAttributeChanged(name string) {
	switch name {
	case "class":
		s.classChanged = true
	case "id":
		s.idChanged = true
	default:
		s.otherAttrChanged = true
	}
}

// HasState reports whether the snapshot recorded a state bitset.
func (s *ElementSnapshot) HasState() bool { return s.hasState }

// State returns the recorded state bitset. Only meaningful when
// HasState reports true.
func (s *ElementSnapshot) State() ElementState { return s.state }

// HasAttrs reports whether the snapshot recorded attributes.
func (s *ElementSnapshot) HasAttrs() bool { return s.hasAttrs }

// ClassChanged reports whether the pending mutation touched class.
func (s *ElementSnapshot) ClassChanged() bool { return s.classChanged }

// IDChanged reports whether the pending mutation touched id.
func (s *ElementSnapshot) IDChanged() bool { return s.idChanged }

// OtherAttrChanged reports whether the pending mutation touched an
// attribute other than class or id.
func (s *ElementSnapshot) OtherAttrChanged() bool { return s.otherAttrChanged }

// AttrValue returns the recorded value of an attribute. Only
// meaningful when HasAttrs reports true.
func (s *ElementSnapshot) AttrValue(namespace, name string) (string, bool) {
	for _, a := range s.attrs {
		if a.Name == name && (namespace == "" || namespace == "*" || a.Namespace == namespace) {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the recorded id attribute, empty if none was recorded.
func (s *ElementSnapshot) ID() string {
	id, _ := s.AttrValue("", "id")
	return id
}

// HasClass reports whether the recorded class attribute contains name.
func (s *ElementSnapshot) HasClass(name string) bool {
	class, ok := s.AttrValue("", "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}

// EachClass calls fn for every recorded class.
func (s *ElementSnapshot) EachClass(fn func(name string)) {
	class, ok := s.AttrValue("", "class")
	if !ok {
		return
	}
	for _, c := range strings.Fields(class) {
		fn(c)
	}
}

// Lang returns the recorded lang or xml:lang attribute.
func (s *ElementSnapshot) Lang() (string, bool) {
	if v, ok := s.AttrValue("", "lang"); ok {
		return v, true
	}
	return s.AttrValue(xmlNamespace, "lang")
}

// SnapshotMap holds the pending pre-mutation snapshots of a document,
// keyed by element identity. It is an explicit context object passed
// into invalidation calls, never process-global state.
type SnapshotMap struct {
	snapshots map[Element]*ElementSnapshot
}

// NewSnapshotMap returns an empty map.
func NewSnapshotMap() *SnapshotMap {
	return &SnapshotMap{snapshots: make(map[Element]*ElementSnapshot)}
}

// Get returns the element's pending snapshot, nil if it has none.
func (m *SnapshotMap) Get(el Element) *ElementSnapshot {
	if m == nil {
		return nil
	}
	return m.snapshots[el]
}

// EnsureSnapshot returns the element's snapshot, creating an empty one
// on first use. The DOM-mutation path calls this before applying a
// change, then records the about-to-change data on the result.
func (m *SnapshotMap) EnsureSnapshot(el Element) *ElementSnapshot {
	s := m.snapshots[el]
	if s == nil {
		s = NewElementSnapshot()
		m.snapshots[el] = s
	}
	return s
}

// Len returns the number of pending snapshots.
func (m *SnapshotMap) Len() int { return len(m.snapshots) }

// Clear drops every pending snapshot, typically after the invalidation
// pass that consumed them.
func (m *SnapshotMap) Clear() {
	clear(m.snapshots)
}
