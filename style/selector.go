package style

import (
	"fmt"
	"strings"

	"github.com/gorilla/css/scanner"
)

// ComplexSelector is a chain of compound selectors separated by
// combinators. Each Rule holds exactly one complex selector; a
// comma-separated selector list expands into one rule per member.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors plus the
// combinator linking it to the compound on its right.
type CompoundSelector struct {
	TypeSelector      *TypeSelector
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	PseudoElement     *PseudoElementSelector
	Combinator        CombinatorType // combinator following this compound
}

// CombinatorType represents the type of combinator.
type CombinatorType int

// Combinators between compound selectors: descendant (whitespace),
// child (>), next sibling (+), subsequent sibling (~).
const (
	CombinatorNone CombinatorType = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
)

// TypeSelector represents a type (tag) selector.
type TypeSelector struct {
	Namespace string // "*" for any, "" for no namespace constraint
	Name      string // "*" for universal, or lowercase tag name
}

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Namespace       string
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// PseudoClassSelector represents a pseudo-class. Selector is set for
// logical combinations (:not, :is, :where, :matches, :any, :has);
// Compound is set for :host(...).
type PseudoClassSelector struct {
	Name     string
	Argument string
	Selector []*ComplexSelector
	Compound *CompoundSelector
}

// PseudoElementSelector represents a pseudo-element. Kind is the
// closed enum used by the engine; Slotted carries the argument
// compound of ::slotted(...).
type PseudoElementSelector struct {
	Name    string
	Kind    PseudoElement
	Slotted *CompoundSelector
}

// Rightmost returns the subject compound of the selector.
func (cs *ComplexSelector) Rightmost() *CompoundSelector {
	return cs.Compounds[len(cs.Compounds)-1]
}

// Pseudo returns the pseudo-element this selector targets, or
// PseudoNone. ::slotted selectors report PseudoNone: they target the
// slotted element itself and live in dedicated maps.
func (cs *ComplexSelector) Pseudo() PseudoElement {
	pe := cs.Rightmost().PseudoElement
	if pe == nil || pe.Slotted != nil {
		return PseudoNone
	}
	return pe.Kind
}

// IsSlotted reports whether this is a ::slotted(...) selector.
func (cs *ComplexSelector) IsSlotted() bool {
	pe := cs.Rightmost().PseudoElement
	return pe != nil && pe.Slotted != nil
}

// HasHost reports whether the subject compound contains :host.
func (cs *ComplexSelector) HasHost() bool {
	for _, pc := range cs.Rightmost().PseudoClasses {
		if pc.Name == "host" {
			return true
		}
	}
	return false
}

// String reconstructs an approximate textual form, for diagnostics.
func (cs *ComplexSelector) String() string {
	var b strings.Builder
	for i, c := range cs.Compounds {
		if i > 0 {
			switch cs.Compounds[i-1].Combinator {
			case CombinatorChild:
				b.WriteString(" > ")
			case CombinatorNextSibling:
				b.WriteString(" + ")
			case CombinatorSubsequentSibling:
				b.WriteString(" ~ ")
			default:
				b.WriteString(" ")
			}
		}
		c.writeTo(&b)
	}
	return b.String()
}

func (c *CompoundSelector) writeTo(b *strings.Builder) {
	if c.TypeSelector != nil {
		b.WriteString(c.TypeSelector.Name)
	}
	for _, id := range c.IDSelectors {
		b.WriteString("#" + id)
	}
	for _, cl := range c.ClassSelectors {
		b.WriteString("." + cl)
	}
	for _, a := range c.AttributeMatchers {
		b.WriteString("[" + a.Name + "]")
	}
	for _, pc := range c.PseudoClasses {
		b.WriteString(":" + pc.Name)
	}
	if c.PseudoElement != nil {
		b.WriteString("::" + c.PseudoElement.Name)
	}
}

// selectorParser parses selectors from a pre-scanned token slice.
type selectorParser struct {
	tokens []scanner.Token
	pos    int
}

// ParseSelectorList parses a comma-separated selector list.
func ParseSelectorList(input string) ([]*ComplexSelector, error) {
	s := scanner.New(input)
	var tokens []scanner.Token
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenError {
			return nil, fmt.Errorf("scanning selector %q: bad token at %d:%d", input, tok.Line, tok.Column)
		}
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenComment || tok.Type == scanner.TokenBOM {
			continue
		}
		tokens = append(tokens, *tok)
	}
	p := &selectorParser{tokens: tokens}
	return p.parseSelectorList()
}

// ParseSelector parses a single complex selector.
func ParseSelector(input string) (*ComplexSelector, error) {
	list, err := ParseSelectorList(input)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty selector %q", input)
	}
	return list[0], nil
}

var eofToken = scanner.Token{Type: scanner.TokenEOF}

func (p *selectorParser) current() scanner.Token {
	if p.pos >= len(p.tokens) {
		return eofToken
	}
	return p.tokens[p.pos]
}

func (p *selectorParser) peek(offset int) scanner.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) || pos < 0 {
		return eofToken
	}
	return p.tokens[pos]
}

func (p *selectorParser) consume() scanner.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *selectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == scanner.TokenS {
		p.consume()
		skipped = true
	}
	return skipped
}

func isChar(tok scanner.Token, c byte) bool {
	return tok.Type == scanner.TokenChar && len(tok.Value) == 1 && tok.Value[0] == c
}

func (p *selectorParser) parseSelectorList() ([]*ComplexSelector, error) {
	var list []*ComplexSelector

	p.skipWhitespace()
	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		if complex != nil {
			list = append(list, complex)
		}

		p.skipWhitespace()
		if isChar(p.current(), ',') {
			p.consume()
			p.skipWhitespace()
			continue
		}
		break
	}
	return list, nil
}

func (p *selectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			break
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		tok := p.current()
		switch {
		case isChar(tok, '>'):
			p.consume()
			compound.Combinator = CombinatorChild
			p.skipWhitespace()
		case isChar(tok, '+'):
			p.consume()
			compound.Combinator = CombinatorNextSibling
			p.skipWhitespace()
		case isChar(tok, '~'):
			p.consume()
			compound.Combinator = CombinatorSubsequentSibling
			p.skipWhitespace()
		case tok.Type == scanner.TokenEOF || isChar(tok, ',') || isChar(tok, ')'):
			return complex, nil
		default:
			if hadWhitespace {
				compound.Combinator = CombinatorDescendant
			} else {
				return complex, nil
			}
		}
	}

	if len(complex.Compounds) == 0 {
		return nil, nil
	}
	return complex, nil
}

func (p *selectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	for {
		tok := p.current()
		switch {
		case tok.Type == scanner.TokenIdent:
			if hasContent {
				return compound, nil
			}
			p.consume()
			compound.TypeSelector = &TypeSelector{Name: strings.ToLower(tok.Value)}
			hasContent = true

		case isChar(tok, '*'):
			if hasContent {
				return compound, nil
			}
			p.consume()
			compound.TypeSelector = &TypeSelector{Name: "*"}
			hasContent = true

		case tok.Type == scanner.TokenHash:
			p.consume()
			compound.IDSelectors = append(compound.IDSelectors, strings.TrimPrefix(tok.Value, "#"))
			hasContent = true

		case isChar(tok, '.'):
			p.consume()
			if p.current().Type != scanner.TokenIdent {
				return nil, fmt.Errorf("expected class name after '.'")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, p.consume().Value)
			hasContent = true

		case isChar(tok, '['):
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
			hasContent = true

		case isChar(tok, ':'):
			p.consume()
			if isChar(p.current(), ':') {
				p.consume()
				pe, err := p.parsePseudoElement()
				if err != nil {
					return nil, err
				}
				compound.PseudoElement = pe
				hasContent = true
				continue
			}
			// Legacy single-colon pseudo-element notation.
			if p.current().Type == scanner.TokenIdent {
				if _, ok := pseudoElementNames[strings.ToLower(p.current().Value)]; ok {
					pe, err := p.parsePseudoElement()
					if err != nil {
						return nil, err
					}
					compound.PseudoElement = pe
					hasContent = true
					continue
				}
			}
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)
			hasContent = true

		default:
			if !hasContent {
				return nil, nil
			}
			return compound, nil
		}
	}
}

func (p *selectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.consume() // [
	attr := &AttributeMatcher{}
	p.skipWhitespace()

	if p.current().Type != scanner.TokenIdent {
		return nil, fmt.Errorf("expected attribute name")
	}
	attr.Name = strings.ToLower(p.consume().Value)
	p.skipWhitespace()

	tok := p.current()
	switch {
	case isChar(tok, ']'):
		p.consume()
		attr.Operator = AttrExists
		return attr, nil
	case isChar(tok, '='):
		p.consume()
		attr.Operator = AttrEquals
	case tok.Type == scanner.TokenIncludes:
		p.consume()
		attr.Operator = AttrIncludes
	case tok.Type == scanner.TokenDashMatch:
		p.consume()
		attr.Operator = AttrDashMatch
	case tok.Type == scanner.TokenPrefixMatch:
		p.consume()
		attr.Operator = AttrPrefix
	case tok.Type == scanner.TokenSuffixMatch:
		p.consume()
		attr.Operator = AttrSuffix
	case tok.Type == scanner.TokenSubstringMatch:
		p.consume()
		attr.Operator = AttrSubstring
	default:
		return nil, fmt.Errorf("unexpected token %q in attribute selector", tok.Value)
	}

	p.skipWhitespace()
	tok = p.current()
	switch tok.Type {
	case scanner.TokenString:
		attr.Value = unquote(p.consume().Value)
	case scanner.TokenIdent, scanner.TokenNumber, scanner.TokenDimension:
		attr.Value = p.consume().Value
	default:
		return nil, fmt.Errorf("expected attribute value")
	}

	p.skipWhitespace()
	if tok := p.current(); tok.Type == scanner.TokenIdent {
		switch tok.Value {
		case "i", "I":
			attr.CaseInsensitive = true
			p.consume()
			p.skipWhitespace()
		case "s", "S":
			p.consume()
			p.skipWhitespace()
		}
	}

	if !isChar(p.current(), ']') {
		return nil, fmt.Errorf("unterminated attribute selector")
	}
	p.consume()
	return attr, nil
}

func (p *selectorParser) parsePseudoClass() (*PseudoClassSelector, error) {
	pc := &PseudoClassSelector{}
	tok := p.current()

	switch tok.Type {
	case scanner.TokenIdent:
		pc.Name = strings.ToLower(p.consume().Value)
		return pc, nil

	case scanner.TokenFunction:
		pc.Name = strings.ToLower(strings.TrimSuffix(p.consume().Value, "("))
		p.skipWhitespace()

		switch pc.Name {
		case "not", "is", "where", "matches", "any", "has":
			inner, err := p.parseSelectorList()
			if err != nil {
				return nil, err
			}
			pc.Selector = inner
		case "host", "host-context":
			inner, err := p.parseCompoundSelector()
			if err != nil {
				return nil, err
			}
			pc.Compound = inner
		default:
			pc.Argument = strings.ToLower(strings.TrimSpace(p.consumeRawArgument()))
		}

		p.skipWhitespace()
		if !isChar(p.current(), ')') {
			return nil, fmt.Errorf("unterminated :%s(", pc.Name)
		}
		p.consume()
		return pc, nil

	default:
		return nil, fmt.Errorf("expected pseudo-class name, got %q", tok.Value)
	}
}

// consumeRawArgument concatenates token text until the closing paren,
// which is left unconsumed. Used for arguments like 2n+1 or a
// language tag.
func (p *selectorParser) consumeRawArgument() string {
	var b strings.Builder
	depth := 0
	for {
		tok := p.current()
		if tok.Type == scanner.TokenEOF {
			return b.String()
		}
		if tok.Type == scanner.TokenFunction || isChar(tok, '(') {
			depth++
		}
		if isChar(tok, ')') {
			if depth == 0 {
				return b.String()
			}
			depth--
		}
		if tok.Type == scanner.TokenS {
			b.WriteByte(' ')
		} else if tok.Type == scanner.TokenString {
			b.WriteString(unquote(tok.Value))
		} else {
			b.WriteString(tok.Value)
		}
		p.consume()
	}
}

func (p *selectorParser) parsePseudoElement() (*PseudoElementSelector, error) {
	tok := p.current()
	switch tok.Type {
	case scanner.TokenIdent:
		pe := &PseudoElementSelector{Name: strings.ToLower(p.consume().Value)}
		pe.Kind = pseudoElementNames[pe.Name]
		if pe.Kind == PseudoNone && pe.Name != "" {
			// Unknown pseudo-element: keep the name so the selector can
			// be reported, but it will never match.
			pe.Kind = PseudoNone
		}
		return pe, nil

	case scanner.TokenFunction:
		name := strings.ToLower(strings.TrimSuffix(p.consume().Value, "("))
		pe := &PseudoElementSelector{Name: name}
		if name != "slotted" {
			return nil, fmt.Errorf("unsupported functional pseudo-element ::%s", name)
		}
		p.skipWhitespace()
		inner, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, fmt.Errorf("::slotted requires a compound selector argument")
		}
		pe.Slotted = inner
		p.skipWhitespace()
		if !isChar(p.current(), ')') {
			return nil, fmt.Errorf("unterminated ::slotted(")
		}
		p.consume()
		return pe, nil

	default:
		return nil, fmt.Errorf("expected pseudo-element name, got %q", tok.Value)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Specificity represents CSS selector specificity.
// Per https://www.w3.org/TR/selectors-4/#specificity
type Specificity struct {
	A int // ID selectors
	B int // class selectors, attribute selectors, pseudo-classes
	C int // type selectors, pseudo-elements
}

// Compare compares two specificities. Returns -1, 0, or 1.
func (s Specificity) Compare(other Specificity) int {
	if s.A != other.A {
		if s.A > other.A {
			return 1
		}
		return -1
	}
	if s.B != other.B {
		if s.B > other.B {
			return 1
		}
		return -1
	}
	if s.C != other.C {
		if s.C > other.C {
			return 1
		}
		return -1
	}
	return 0
}

// Less returns true if this specificity is less than the other.
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

// CalculateSpecificity calculates the specificity of a complex selector.
func (cs *ComplexSelector) CalculateSpecificity() Specificity {
	var spec Specificity
	for _, compound := range cs.Compounds {
		spec = spec.add(compound.specificity())
	}
	return spec
}

// Each component saturates at 1023, matching the 10-bit packing that
// downstream consumers assume.
const specificityComponentMax = 1023

func (s Specificity) add(other Specificity) Specificity {
	return Specificity{
		A: saturatingAdd(s.A, other.A),
		B: saturatingAdd(s.B, other.B),
		C: saturatingAdd(s.C, other.C),
	}
}

func saturatingAdd(a, b int) int {
	if sum := a + b; sum <= specificityComponentMax {
		return sum
	}
	return specificityComponentMax
}

func (c *CompoundSelector) specificity() Specificity {
	var spec Specificity
	spec.A += len(c.IDSelectors)
	spec.B += len(c.ClassSelectors)
	spec.B += len(c.AttributeMatchers)
	for _, pc := range c.PseudoClasses {
		switch pc.Name {
		case "where":
			// :where contributes nothing.
		case "not", "is", "matches", "any":
			spec = spec.add(maxSpecificity(pc.Selector))
		case "host", "host-context":
			spec.B++
			if pc.Compound != nil {
				spec = spec.add(pc.Compound.specificity())
			}
		default:
			spec.B++
		}
	}
	if c.TypeSelector != nil && c.TypeSelector.Name != "*" {
		spec.C++
	}
	if pe := c.PseudoElement; pe != nil {
		spec.C++
		if pe.Slotted != nil {
			spec = spec.add(pe.Slotted.specificity())
		}
	}
	return spec
}

func maxSpecificity(list []*ComplexSelector) Specificity {
	var max Specificity
	for _, cs := range list {
		if s := cs.CalculateSpecificity(); max.Less(s) {
			max = s
		}
	}
	return max
}
