package domadapter

import (
	"github.com/marlinbrowser/marlin/dom"
	"github.com/marlinbrowser/marlin/style"
)

// The mutation helpers are the snapshot-producing write path: they
// record the element's pre-mutation data in the snapshot map, then
// apply the change. They run on the sequential DOM-mutation side; by
// the time an invalidation pass reads the map, no more mutations
// happen.

// SetAttr snapshots the element's attributes and sets an attribute.
func SetAttr(m *style.SnapshotMap, el *dom.Element, name, value string) {
	snapshotAttrs(m, el, name)
	el.SetAttr(name, value)
}

// RemoveAttr snapshots the element's attributes and removes one.
func RemoveAttr(m *style.SnapshotMap, el *dom.Element, name string) {
	snapshotAttrs(m, el, name)
	el.RemoveAttr(name)
}

// SetState snapshots the element's state bits and replaces them.
func SetState(m *style.SnapshotMap, el *dom.Element, state style.ElementState) {
	wrapped := Wrap(el)
	m.EnsureSnapshot(wrapped).RecordState(el.State)
	el.State = state
}

func snapshotAttrs(m *style.SnapshotMap, el *dom.Element, name string) {
	wrapped := Wrap(el)
	snap := m.EnsureSnapshot(wrapped)
	snap.RecordAttrs(wrapped)
	snap.NoteAttributeChanged(name)
}
