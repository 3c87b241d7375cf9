// Package domadapter bridges the dom tree to the style engine's
// Element capability. Adapters are comparable values over the element
// pointer, so identity comparisons and snapshot map keys behave the
// same whether the engine saw the element once or many times.
package domadapter

import (
	"strconv"

	"github.com/marlinbrowser/marlin/dom"
	"github.com/marlinbrowser/marlin/shared"
	"github.com/marlinbrowser/marlin/sheet"
	"github.com/marlinbrowser/marlin/style"
)

// Wrap adapts a dom element for the style engine. A nil element maps
// to a nil interface.
func Wrap(el *dom.Element) style.Element {
	if el == nil {
		return nil
	}
	return elementAdapter{el}
}

// Unwrap recovers the dom element behind an adapter, nil for foreign
// implementations.
func Unwrap(el style.Element) *dom.Element {
	if a, ok := el.(elementAdapter); ok {
		return a.el
	}
	return nil
}

type elementAdapter struct {
	el *dom.Element
}

func (a elementAdapter) Parent() style.Element      { return Wrap(a.el.ParentElement()) }
func (a elementAdapter) PrevSibling() style.Element { return Wrap(a.el.PrevSiblingElement()) }
func (a elementAdapter) NextSibling() style.Element { return Wrap(a.el.NextSiblingElement()) }
func (a elementAdapter) FirstChild() style.Element  { return Wrap(a.el.FirstChildElement()) }

func (a elementAdapter) IsEmpty() bool { return a.el.IsEmpty() }

func (a elementAdapter) IsRoot() bool {
	return a.el.ParentElement() == nil && a.el.ContainingShadow() == nil
}

func (a elementAdapter) LocalName() string { return a.el.LocalName }
func (a elementAdapter) Namespace() string { return a.el.Namespace }
func (a elementAdapter) ID() string        { return a.el.ID() }

func (a elementAdapter) HasClass(name string) bool { return a.el.HasClass(name) }
func (a elementAdapter) EachClass(fn func(string)) { a.el.EachClass(fn) }

func (a elementAdapter) HasAttr(namespace, name string) bool {
	_, ok := a.AttrValue(namespace, name)
	return ok
}

func (a elementAdapter) AttrValue(namespace, name string) (string, bool) {
	if namespace == "*" {
		for _, attr := range a.el.Attrs {
			if attr.Name == name {
				return attr.Value, true
			}
		}
		return "", false
	}
	return a.el.GetAttr(namespace, name)
}

func (a elementAdapter) EachAttr(fn func(namespace, name, value string)) {
	for _, attr := range a.el.Attrs {
		fn(attr.Namespace, attr.Name, attr.Value)
	}
}

func (a elementAdapter) State() style.ElementState { return a.el.State }
func (a elementAdapter) IsLink() bool              { return a.el.IsLink() }

func (a elementAdapter) IsHTMLElementInHTMLDocument() bool {
	return a.el.Namespace == dom.NamespaceHTML
}

func (a elementAdapter) Shadow() style.ShadowRoot {
	return wrapShadow(a.el.Shadow())
}

func (a elementAdapter) ContainingShadow() style.ShadowRoot {
	return wrapShadow(a.el.ContainingShadow())
}

func (a elementAdapter) AssignedSlot() style.Element {
	return Wrap(a.el.AssignedSlot())
}

func (a elementAdapter) MatchesUserAndAuthorRules() bool { return true }

func (a elementAdapter) RuleHashTarget() style.Element { return a }

type shadowAdapter struct {
	sr *dom.ShadowRoot
}

func wrapShadow(sr *dom.ShadowRoot) style.ShadowRoot {
	if sr == nil {
		return nil
	}
	return shadowAdapter{sr}
}

func (s shadowAdapter) Host() style.Element        { return Wrap(s.sr.Host()) }
func (s shadowAdapter) Styles() *style.AuthorStyles { return s.sr.Styles() }

// PresentationalHints maps legacy HTML presentational attributes to
// declaration blocks. The mapping covers the attributes the engine's
// default stylesheets do not, the way the HTML rendering section
// specifies them.
func (a elementAdapter) PresentationalHints() []style.ApplicableDeclarationBlock {
	if a.el.Namespace != dom.NamespaceHTML {
		return nil
	}
	var decls []sheet.Declaration
	add := func(property, value string) {
		decls = append(decls, sheet.Declaration{Property: property, Value: value})
	}

	if v, ok := a.el.GetAttr("", "bgcolor"); ok && v != "" {
		add("background-color", v)
	}
	switch a.el.LocalName {
	case "table", "td", "th", "img", "iframe":
		if v, ok := a.el.GetAttr("", "width"); ok && v != "" {
			add("width", dimensionValue(v))
		}
		if v, ok := a.el.GetAttr("", "height"); ok && v != "" {
			add("height", dimensionValue(v))
		}
	case "font":
		if v, ok := a.el.GetAttr("", "color"); ok && v != "" {
			add("color", v)
		}
	}
	if v, ok := a.el.GetAttr("", "align"); ok {
		switch v {
		case "left", "right", "center", "justify":
			add("text-align", v)
		}
	}

	if len(decls) == 0 {
		return nil
	}
	block := shared.New(sheet.DeclarationBlock{Declarations: decls})
	return []style.ApplicableDeclarationBlock{
		style.NewApplicableBlock(block, style.LevelPresHints),
	}
}

// dimensionValue turns a bare legacy number into pixels, leaving
// percentages and anything else alone.
func dimensionValue(v string) string {
	if _, err := strconv.Atoi(v); err == nil {
		return v + "px"
	}
	return v
}
