package dom

import "github.com/marlinbrowser/marlin/style"

// ShadowRootMode indicates whether a shadow root is open or closed.
// The engine styles both the same way; the mode only matters to
// script-facing layers.
type ShadowRootMode string

const (
	ShadowRootModeOpen   ShadowRootMode = "open"
	ShadowRootModeClosed ShadowRootMode = "closed"
)

// ShadowRoot is the root of a shadow tree: a host element's second,
// encapsulated subtree. Its stylesheets live in an AuthorStyles set
// scoped to the tree.
type ShadowRoot struct {
	Mode ShadowRootMode

	host   *Element
	root   Node
	styles *style.AuthorStyles
}

// AttachShadow makes el a shadow host and returns the new root.
// Attaching twice is a programming error.
func (el *Element) AttachShadow(mode ShadowRootMode) *ShadowRoot {
	if el.shadow != nil {
		panic("dom: element already hosts a shadow root")
	}
	sr := &ShadowRoot{
		Mode:   mode,
		host:   el,
		styles: style.NewAuthorStyles(),
	}
	sr.root.Type = DocumentNode
	sr.root.shadowRoot = sr
	el.shadow = sr
	return sr
}

// Host returns the element hosting this tree.
func (sr *ShadowRoot) Host() *Element { return sr.host }

// Root returns the tree's root node; build the shadow tree under it.
func (sr *ShadowRoot) Root() *Node { return &sr.root }

// Styles returns the author style data scoped to this tree.
func (sr *ShadowRoot) Styles() *style.AuthorStyles { return sr.styles }

// Append attaches an element directly under the shadow root and
// returns it.
func (sr *ShadowRoot) Append(el *Element) *Element {
	sr.root.AppendChild(&el.Node)
	return el
}

// AssignSlots runs named slot assignment: every light-DOM child
// element of the host is assigned to the tree's slot whose name
// attribute equals the child's slot attribute, with the unnamed slot
// as the default. Children with no matching slot are left unassigned.
// Call it again after mutating the host's children or the tree's
// slots; assignment is recomputed from scratch.
func (sr *ShadowRoot) AssignSlots() {
	slots := map[string]*Element{}
	var walk func(*Node)
	walk = func(n *Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if el := c.Element(); el != nil {
				if el.Namespace == NamespaceHTML && el.LocalName == "slot" {
					name, _ := el.GetAttr("", "name")
					if _, taken := slots[name]; !taken {
						slots[name] = el
					}
				}
				// Slots inside nested shadow hosts belong to the inner
				// tree, not this one.
				if el.shadow == nil {
					walk(c)
				}
			}
		}
	}
	walk(&sr.root)

	sr.host.EachChildElement(func(child *Element) {
		name, _ := child.GetAttr("", "slot")
		child.assignedSlot = slots[name]
	})
}
