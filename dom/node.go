// Package dom is the minimal document tree the style engine matches
// against: elements with attributes and dynamic state, text, shadow
// roots with named slot assignment. It is not a full WHATWG DOM; it
// carries exactly what selector matching consumes.
package dom

import "strings"

// NodeType identifies the kind of a node.
type NodeType int

const (
	DocumentNode NodeType = iota + 1
	ElementNode
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "#document"
	case ElementNode:
		return "element"
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	}
	return "unknown"
}

// Node is the base of the tree. Element embeds it; text and comment
// nodes are bare Nodes carrying their content in Text.
type Node struct {
	Type NodeType
	// Text holds the content of text and comment nodes.
	Text string

	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// element points back to the Element this node belongs to, nil for
	// non-element nodes.
	element *Element

	// shadowRoot is set on the root node of a shadow tree only.
	shadowRoot *ShadowRoot
}

// Parent returns the parent node, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child node.
func (n *Node) LastChild() *Node { return n.lastChild }

// PrevSibling returns the previous sibling node.
func (n *Node) PrevSibling() *Node { return n.prevSibling }

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node { return n.nextSibling }

// Element returns the element this node is, nil for text and comments.
func (n *Node) Element() *Element { return n.element }

// AppendChild adds child as the last child of n. The child is detached
// from any previous parent first.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.parent = n
	if n.lastChild != nil {
		n.lastChild.nextSibling = child
		child.prevSibling = n.lastChild
	} else {
		n.firstChild = child
	}
	n.lastChild = child
}

// InsertBefore inserts child immediately before ref, which must be a
// child of n. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	child.Detach()
	child.parent = n
	child.nextSibling = ref
	child.prevSibling = ref.prevSibling
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = child
	} else {
		n.firstChild = child
	}
	ref.prevSibling = child
}

// Detach removes n from its parent, a no-op for parentless nodes.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	if n.prevSibling != nil {
		n.prevSibling.nextSibling = n.nextSibling
	} else {
		n.parent.firstChild = n.nextSibling
	}
	if n.nextSibling != nil {
		n.nextSibling.prevSibling = n.prevSibling
	} else {
		n.parent.lastChild = n.prevSibling
	}
	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		if node.Type == TextNode {
			b.WriteString(node.Text)
		}
		for c := node.firstChild; c != nil; c = c.nextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// NewComment creates a comment node.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Text: text}
}
