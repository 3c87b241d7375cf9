package dom

import (
	"strings"

	"github.com/marlinbrowser/marlin/style"
)

// Namespace URIs for the documents the engine understands.
const (
	NamespaceHTML = "http://www.w3.org/1999/xhtml"
	NamespaceSVG  = "http://www.w3.org/2000/svg"
	NamespaceXML  = "http://www.w3.org/XML/1998/namespace"
)

// Attr is one attribute of an element. An empty Namespace is the null
// namespace, which is where ordinary HTML attributes live.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

// Element is an element node. Attribute names are stored lowercase;
// lookups are by exact (already lowercased) name.
type Element struct {
	Node

	LocalName string
	Namespace string
	Attrs     []Attr

	// State carries the dynamic pseudo-class bits (:hover, :focus...)
	// maintained by the embedder's event handling.
	State style.ElementState

	shadow       *ShadowRoot
	assignedSlot *Element
}

// NewElement creates a detached element in the given namespace.
func NewElement(namespace, localName string) *Element {
	el := &Element{
		LocalName: strings.ToLower(localName),
		Namespace: namespace,
	}
	el.Node.Type = ElementNode
	el.Node.element = el
	return el
}

// Append attaches child under el and returns the child for chaining.
func (el *Element) Append(child *Element) *Element {
	el.Node.AppendChild(&child.Node)
	return child
}

// AppendText attaches a text child.
func (el *Element) AppendText(text string) {
	el.Node.AppendChild(NewText(text))
}

// ParentElement returns the closest ancestor element, nil at the top
// or under a non-element root.
func (el *Element) ParentElement() *Element {
	for p := el.Node.parent; p != nil; p = p.parent {
		if p.element != nil {
			return p.element
		}
		if p.Type != ElementNode {
			return nil
		}
	}
	return nil
}

// PrevSiblingElement returns the previous sibling element.
func (el *Element) PrevSiblingElement() *Element {
	for s := el.Node.prevSibling; s != nil; s = s.prevSibling {
		if s.element != nil {
			return s.element
		}
	}
	return nil
}

// NextSiblingElement returns the next sibling element.
func (el *Element) NextSiblingElement() *Element {
	for s := el.Node.nextSibling; s != nil; s = s.nextSibling {
		if s.element != nil {
			return s.element
		}
	}
	return nil
}

// FirstChildElement returns the first child element.
func (el *Element) FirstChildElement() *Element {
	for c := el.Node.firstChild; c != nil; c = c.nextSibling {
		if c.element != nil {
			return c.element
		}
	}
	return nil
}

// EachChildElement calls fn for every child element in order.
func (el *Element) EachChildElement(fn func(*Element)) {
	for c := el.Node.firstChild; c != nil; c = c.nextSibling {
		if c.element != nil {
			fn(c.element)
		}
	}
}

// GetAttr returns an attribute value by namespace and name.
func (el *Element) GetAttr(namespace, name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name == name && a.Namespace == namespace {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute in the null namespace.
func (el *Element) SetAttr(name, value string) {
	el.SetAttrNS("", name, value)
}

// SetAttrNS sets a namespaced attribute.
func (el *Element) SetAttrNS(namespace, name, value string) {
	name = strings.ToLower(name)
	for i := range el.Attrs {
		if el.Attrs[i].Name == name && el.Attrs[i].Namespace == namespace {
			el.Attrs[i].Value = value
			return
		}
	}
	el.Attrs = append(el.Attrs, Attr{Namespace: namespace, Name: name, Value: value})
}

// RemoveAttr removes an attribute in the null namespace.
func (el *Element) RemoveAttr(name string) {
	name = strings.ToLower(name)
	for i := range el.Attrs {
		if el.Attrs[i].Name == name && el.Attrs[i].Namespace == "" {
			el.Attrs = append(el.Attrs[:i], el.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the id attribute.
func (el *Element) ID() string {
	v, _ := el.GetAttr("", "id")
	return v
}

// HasClass reports whether the class attribute contains name.
func (el *Element) HasClass(name string) bool {
	found := false
	el.EachClass(func(c string) {
		if c == name {
			found = true
		}
	})
	return found
}

// EachClass calls fn for every class in the class attribute.
func (el *Element) EachClass(fn func(string)) {
	v, ok := el.GetAttr("", "class")
	if !ok {
		return
	}
	for _, c := range strings.Fields(v) {
		fn(c)
	}
}

// IsLink reports whether the element is a hyperlink: an HTML <a> or
// <area> carrying an href attribute.
func (el *Element) IsLink() bool {
	if el.Namespace != NamespaceHTML {
		return false
	}
	if el.LocalName != "a" && el.LocalName != "area" {
		return false
	}
	_, ok := el.GetAttr("", "href")
	return ok
}

// IsEmpty reports whether the element has no element children and no
// non-whitespace text children.
func (el *Element) IsEmpty() bool {
	for c := el.Node.firstChild; c != nil; c = c.nextSibling {
		switch c.Type {
		case ElementNode:
			return false
		case TextNode:
			if strings.TrimSpace(c.Text) != "" {
				return false
			}
		}
	}
	return true
}

// Shadow returns the element's shadow root, nil for non-hosts.
func (el *Element) Shadow() *ShadowRoot { return el.shadow }

// AssignedSlot returns the slot this element is assigned to.
func (el *Element) AssignedSlot() *Element { return el.assignedSlot }

// ContainingShadow returns the shadow root whose tree the element
// lives in, nil for light DOM elements. Tree membership hangs off the
// tree's root node, so this is a walk to the top.
func (el *Element) ContainingShadow() *ShadowRoot {
	p := &el.Node
	for p.parent != nil {
		p = p.parent
	}
	return p.shadowRoot
}
