package style

import (
	"strings"

	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
)

// fakeElement is the in-package Element used by the matching and
// collection tests. Trees are built by hand with appendChild and the
// field helpers below.
type fakeElement struct {
	localName string
	namespace string
	attrs     []SnapshotAttr
	state     ElementState
	isLink    bool

	parent   *fakeElement
	children []*fakeElement

	shadow           *fakeShadowRoot
	containingShadow *fakeShadowRoot
	assignedSlot     *fakeElement

	uaOnly bool
	hints  []ApplicableDeclarationBlock
}

type fakeShadowRoot struct {
	host   *fakeElement
	styles *AuthorStyles
}

func (s *fakeShadowRoot) Host() Element {
	if s.host == nil {
		return nil
	}
	return s.host
}

func (s *fakeShadowRoot) Styles() *AuthorStyles { return s.styles }

func newFakeElement(localName string) *fakeElement {
	return &fakeElement{localName: localName, namespace: htmlNamespace}
}

func (e *fakeElement) withAttr(name, value string) *fakeElement {
	e.attrs = append(e.attrs, SnapshotAttr{Name: name, Value: value})
	return e
}

func (e *fakeElement) withID(id string) *fakeElement   { return e.withAttr("id", id) }
func (e *fakeElement) withClass(c string) *fakeElement { return e.withAttr("class", c) }
func (e *fakeElement) withState(s ElementState) *fakeElement {
	e.state = s
	return e
}

func (e *fakeElement) appendChild(child *fakeElement) *fakeElement {
	child.parent = e
	child.containingShadow = e.containingShadow
	e.children = append(e.children, child)
	return child
}

func (e *fakeElement) setAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, SnapshotAttr{Name: name, Value: value})
}

func (e *fakeElement) siblingIndex() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.children {
		if c == e {
			return i
		}
	}
	return -1
}

func (e *fakeElement) Parent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *fakeElement) PrevSibling() Element {
	if i := e.siblingIndex(); i > 0 {
		return e.parent.children[i-1]
	}
	return nil
}

func (e *fakeElement) NextSibling() Element {
	if i := e.siblingIndex(); i >= 0 && i+1 < len(e.parent.children) {
		return e.parent.children[i+1]
	}
	return nil
}

func (e *fakeElement) FirstChild() Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *fakeElement) IsEmpty() bool { return len(e.children) == 0 }
func (e *fakeElement) IsRoot() bool  { return e.parent == nil }

func (e *fakeElement) LocalName() string { return e.localName }
func (e *fakeElement) Namespace() string { return e.namespace }

func (e *fakeElement) ID() string {
	v, _ := e.AttrValue("", "id")
	return v
}

func (e *fakeElement) HasClass(name string) bool {
	found := false
	e.EachClass(func(c string) {
		if c == name {
			found = true
		}
	})
	return found
}

func (e *fakeElement) EachClass(fn func(string)) {
	v, ok := e.AttrValue("", "class")
	if !ok {
		return
	}
	for _, c := range strings.Fields(v) {
		fn(c)
	}
}

func (e *fakeElement) HasAttr(namespace, name string) bool {
	_, ok := e.AttrValue(namespace, name)
	return ok
}

func (e *fakeElement) AttrValue(namespace, name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name && (namespace == "" || namespace == "*" || a.Namespace == namespace) {
			return a.Value, true
		}
	}
	return "", false
}

func (e *fakeElement) EachAttr(fn func(namespace, name, value string)) {
	for _, a := range e.attrs {
		fn(a.Namespace, a.Name, a.Value)
	}
}

func (e *fakeElement) State() ElementState { return e.state }
func (e *fakeElement) IsLink() bool        { return e.isLink }

func (e *fakeElement) IsHTMLElementInHTMLDocument() bool {
	return e.namespace == htmlNamespace
}

func (e *fakeElement) Shadow() ShadowRoot {
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

func (e *fakeElement) ContainingShadow() ShadowRoot {
	if e.containingShadow == nil {
		return nil
	}
	return e.containingShadow
}

func (e *fakeElement) AssignedSlot() Element {
	if e.assignedSlot == nil {
		return nil
	}
	return e.assignedSlot
}

func (e *fakeElement) MatchesUserAndAuthorRules() bool { return !e.uaOnly }
func (e *fakeElement) RuleHashTarget() Element         { return e }

func (e *fakeElement) PresentationalHints() []ApplicableDeclarationBlock {
	return e.hints
}

// attachShadow makes e a shadow host with the given author styles and
// returns the shadow root; children appended to elements created under
// the root keep pointing at it.
func (e *fakeElement) attachShadow(styles *AuthorStyles) *fakeShadowRoot {
	e.shadow = &fakeShadowRoot{host: e, styles: styles}
	return e.shadow
}

// newShadowChild creates an element living inside the shadow root.
func (s *fakeShadowRoot) newShadowChild(localName string) *fakeElement {
	el := newFakeElement(localName)
	el.containingShadow = s
	return el
}

func mustSelector(s string) *ComplexSelector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// testBlock builds a one-declaration block handle.
func testBlock(property, value string, important bool) shared.Arc[sheet.DeclarationBlock] {
	return shared.New(sheet.DeclarationBlock{
		Declarations: []sheet.Declaration{
			{Property: property, Value: value, Important: important},
		},
	})
}

// firstValue reads the first declaration's value out of an applicable
// block, for asserting which rule landed where.
func firstValue(b ApplicableDeclarationBlock) string {
	decls := b.Block.Get().Declarations
	if len(decls) == 0 {
		return ""
	}
	return decls[0].Value
}
