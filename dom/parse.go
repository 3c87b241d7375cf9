package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed document tree.
type Document struct {
	node Node
}

// Root returns the document's root element, usually <html>.
func (d *Document) Root() *Element {
	for c := d.node.FirstChild(); c != nil; c = c.NextSibling() {
		if c.element != nil {
			return c.element
		}
	}
	return nil
}

// Node returns the document node itself.
func (d *Document) Node() *Node { return &d.node }

// EachElement walks every element of the document tree in document
// order, light DOM only.
func (d *Document) EachElement(fn func(*Element)) {
	var walk func(*Node)
	walk = func(n *Node) {
		if n.element != nil {
			fn(n.element)
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(&d.node)
}

// StyleTexts returns the text content of every <style> element in
// document order.
func (d *Document) StyleTexts() []string {
	var texts []string
	d.EachElement(func(el *Element) {
		if el.Namespace == NamespaceHTML && el.LocalName == "style" {
			texts = append(texts, el.Node.TextContent())
		}
	})
	return texts
}

// ParseHTML parses an HTML document into a tree.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	doc := &Document{}
	doc.node.Type = DocumentNode
	convertChildren(&doc.node, root)
	return doc, nil
}

// ParseHTMLString parses an HTML document held in a string.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

func convertChildren(parent *Node, src *html.Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if n := convertNode(c); n != nil {
			parent.AppendChild(n)
			convertChildren(n, c)
		}
	}
}

func convertNode(src *html.Node) *Node {
	switch src.Type {
	case html.ElementNode:
		name := src.Data
		if src.DataAtom != atom.Atom(0) {
			// Interned names are canonical lowercase.
			name = src.DataAtom.String()
		}
		el := NewElement(namespaceURI(src.Namespace), name)
		for _, a := range src.Attr {
			el.SetAttrNS(attrNamespaceURI(a.Namespace), a.Key, a.Val)
		}
		return &el.Node
	case html.TextNode:
		return NewText(src.Data)
	case html.CommentNode:
		return NewComment(src.Data)
	default:
		// Doctype and document nodes carry nothing the engine matches
		// against.
		return nil
	}
}

// namespaceURI maps the parser's short namespace tag to a URI. The
// HTML parser uses "" for HTML elements.
func namespaceURI(ns string) string {
	switch ns {
	case "", "html":
		return NamespaceHTML
	case "svg":
		return NamespaceSVG
	default:
		return ns
	}
}

func attrNamespaceURI(ns string) string {
	switch ns {
	case "":
		return ""
	case "xml":
		return NamespaceXML
	default:
		return ns
	}
}

// ElementByID returns the first element with the given id.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	d.EachElement(func(el *Element) {
		if found == nil && el.ID() == id {
			found = el
		}
	})
	return found
}

// ElementsByTag returns every element with the given local name.
func (d *Document) ElementsByTag(localName string) []*Element {
	localName = strings.ToLower(localName)
	var out []*Element
	d.EachElement(func(el *Element) {
		if el.LocalName == localName {
			out = append(out, el)
		}
	})
	return out
}
