// Package media provides the device/viewport context that stylesheet
// media conditions are evaluated against.
// Reference: https://www.w3.org/TR/mediaqueries-4/
package media

import (
	"strconv"
	"strings"
)

// Medium is the broad class of output device.
type Medium int

const (
	MediumAll Medium = iota
	MediumScreen
	MediumPrint
)

func (m Medium) String() string {
	switch m {
	case MediumScreen:
		return "screen"
	case MediumPrint:
		return "print"
	default:
		return "all"
	}
}

// Device describes the rendering target a document is styled for.
// It is an immutable value; changing the viewport means handing the
// style engine a new Device.
type Device struct {
	Width  float64 // CSS pixels
	Height float64 // CSS pixels
	Medium Medium
}

// DefaultDevice returns a screen device with a common desktop viewport.
func DefaultDevice() Device {
	return Device{Width: 1024, Height: 768, Medium: MediumScreen}
}

// feature is a single parenthesized condition, e.g. (min-width: 600px).
type feature struct {
	name  string
	value float64
	known bool
}

// Query is one parsed media query: an optional medium plus a
// conjunction of features. Unknown features or media types make the
// query evaluate to false; they are never an error.
type Query struct {
	medium    Medium
	hasMedium bool
	negated   bool
	features  []feature
}

// ParseQuery parses a single media query such as
// "screen and (min-width: 600px)".
func ParseQuery(text string) Query {
	var q Query
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return q
	}
	if rest, ok := strings.CutPrefix(text, "not "); ok {
		q.negated = true
		text = strings.TrimSpace(rest)
	}
	text = strings.TrimPrefix(text, "only ")

	for _, part := range strings.Split(text, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "(") {
			q.features = append(q.features, parseFeature(part))
			continue
		}
		q.hasMedium = true
		switch part {
		case "screen":
			q.medium = MediumScreen
		case "print":
			q.medium = MediumPrint
		case "all":
			q.medium = MediumAll
		default:
			// Unknown media type: mark as a feature that never matches.
			q.features = append(q.features, feature{})
		}
	}
	return q
}

func parseFeature(part string) feature {
	part = strings.TrimPrefix(part, "(")
	part = strings.TrimSuffix(part, ")")
	name, value, found := strings.Cut(part, ":")
	f := feature{name: strings.TrimSpace(name)}
	if !found {
		return f
	}
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, "px")
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return f
	}
	f.value = n
	switch f.name {
	case "min-width", "max-width", "min-height", "max-height", "width", "height":
		f.known = true
	}
	return f
}

// Matches evaluates the query against a device.
func (q Query) Matches(d Device) bool {
	m := q.matchesModulo(d)
	if q.negated {
		return !m
	}
	return m
}

func (q Query) matchesModulo(d Device) bool {
	if q.hasMedium && q.medium != MediumAll && q.medium != d.Medium {
		return false
	}
	for _, f := range q.features {
		if !f.known {
			return false
		}
		switch f.name {
		case "min-width":
			if d.Width < f.value {
				return false
			}
		case "max-width":
			if d.Width > f.value {
				return false
			}
		case "min-height":
			if d.Height < f.value {
				return false
			}
		case "max-height":
			if d.Height > f.value {
				return false
			}
		case "width":
			if d.Width != f.value {
				return false
			}
		case "height":
			if d.Height != f.value {
				return false
			}
		}
	}
	return true
}

// QueryList is a comma-separated list of queries. The empty list
// matches every device.
type QueryList struct {
	queries []Query
}

// ParseQueryList parses a comma-separated media query list.
func ParseQueryList(text string) *QueryList {
	ql := &QueryList{}
	text = strings.TrimSpace(text)
	if text == "" {
		return ql
	}
	for _, part := range strings.Split(text, ",") {
		ql.queries = append(ql.queries, ParseQuery(part))
	}
	return ql
}

// Matches reports whether any query in the list matches the device.
func (ql *QueryList) Matches(d Device) bool {
	if ql == nil || len(ql.queries) == 0 {
		return true
	}
	for _, q := range ql.queries {
		if q.Matches(d) {
			return true
		}
	}
	return false
}
