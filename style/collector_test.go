package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinbrowser/marlin/media"
	"github.com/marlinbrowser/marlin/sheet"
)

func collectFor(t *testing.T, s *Stylist, el Element) ApplicableDeclarationList {
	t.Helper()
	s.Update()
	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(el, PseudoNone, nil, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{})
	return out
}

// UA rule and author rule on the same element: UA first, author after,
// so the author declaration wins downstream.
func TestCollectOriginOrder(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("a { color: blue }", sheet.OriginAuthor))
	s.AddStylesheet(sheet.MustParse("a { color: red }", sheet.OriginUserAgent))

	out := collectFor(t, s, newFakeElement("a"))
	require.Len(t, out, 2)
	assert.Equal(t, "red", firstValue(out[0]))
	assert.Equal(t, LevelUANormal, out[0].Level)
	assert.Equal(t, "blue", firstValue(out[1]))
	assert.Equal(t, LevelSameTreeAuthorNormal, out[1].Level)
}

func TestCollectUserBetweenUAAndAuthor(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: blue }", sheet.OriginAuthor))
	s.AddStylesheet(sheet.MustParse("p { color: green }", sheet.OriginUser))
	s.AddStylesheet(sheet.MustParse("p { color: red }", sheet.OriginUserAgent))

	out := collectFor(t, s, newFakeElement("p"))
	require.Len(t, out, 3)
	assert.Equal(t, []CascadeLevel{LevelUANormal, LevelUserNormal, LevelSameTreeAuthorNormal},
		[]CascadeLevel{out[0].Level, out[1].Level, out[2].Level})
}

// Style attribute sorts after matching author rules.
func TestCollectStyleAttributeAfterAuthor(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: blue }", sheet.OriginAuthor))
	s.Update()

	styleAttr := testBlock("color", "green", false)
	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(newFakeElement("p"), PseudoNone, &styleAttr, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{})

	require.Len(t, out, 2)
	assert.Equal(t, LevelSameTreeAuthorNormal, out[0].Level)
	assert.Equal(t, LevelStyleAttributeNormal, out[1].Level)
	assert.Equal(t, "green", firstValue(out[1]))
}

func TestCollectHostRules(t *testing.T) {
	styles := NewAuthorStyles()
	styles.AddStylesheet(sheet.MustParse(":host { color: red }", sheet.OriginAuthor))
	styles.Update(media.DefaultDevice())

	host := newFakeElement("x-panel")
	host.attachShadow(styles)

	s := NewStylist(media.DefaultDevice())
	out := collectFor(t, s, host)

	require.Len(t, out, 1)
	assert.Equal(t, LevelInnerShadowNormal, out[0].Level)
	assert.Equal(t, "red", firstValue(out[0]))
}

// An element inside a shadow tree gets that tree's rules and not the
// document's author rules.
func TestCollectContainingShadowScoping(t *testing.T) {
	styles := NewAuthorStyles()
	styles.AddStylesheet(sheet.MustParse("p { color: purple }", sheet.OriginAuthor))
	styles.Update(media.DefaultDevice())

	host := newFakeElement("x-panel")
	shadow := host.attachShadow(styles)
	inner := shadow.newShadowChild("p")

	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: black }", sheet.OriginAuthor))
	out := collectFor(t, s, inner)

	require.Len(t, out, 1, "document author rules must not leak into the tree")
	assert.Equal(t, "purple", firstValue(out[0]))
	assert.Equal(t, LevelSameTreeAuthorNormal, out[0].Level)
}

// A shadow tree without stylesheets still scopes its elements out of
// the document's author rules.
func TestCollectStylelessShadowStillScopes(t *testing.T) {
	host := newFakeElement("x-panel")
	shadow := host.attachShadow(nil)
	inner := shadow.newShadowChild("p")

	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: black }", sheet.OriginAuthor))
	out := collectFor(t, s, inner)
	assert.Empty(t, out)
}

// SVG <use> clone trees are pass-through: their elements keep matching
// the document's author rules.
func TestCollectSVGUseShadowPassThrough(t *testing.T) {
	use := newFakeElement("use")
	use.namespace = svgNamespace
	shadow := use.attachShadow(nil)
	clone := shadow.newShadowChild("circle")
	clone.namespace = svgNamespace

	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("circle { fill: red }", sheet.OriginAuthor))
	out := collectFor(t, s, clone)

	require.Len(t, out, 1)
	assert.Equal(t, "red", firstValue(out[0]))
}

func TestCollectSVGUseShadowWithStylesPanics(t *testing.T) {
	styles := NewAuthorStyles()
	styles.AddStylesheet(sheet.MustParse("circle { fill: blue }", sheet.OriginAuthor))
	styles.Update(media.DefaultDevice())

	use := newFakeElement("use")
	use.namespace = svgNamespace
	shadow := use.attachShadow(styles)
	clone := shadow.newShadowChild("circle")

	s := NewStylist(media.DefaultDevice())
	assert.Panics(t, func() { collectFor(t, s, clone) })
}

func TestCollectSlottedRules(t *testing.T) {
	innerStyles := NewAuthorStyles()
	innerStyles.AddStylesheet(sheet.MustParse("::slotted(span) { color: red }", sheet.OriginAuthor))
	innerStyles.Update(media.DefaultDevice())

	host := newFakeElement("x-card")
	shadow := host.attachShadow(innerStyles)
	slot := shadow.newShadowChild("slot")

	content := newFakeElement("span")
	content.assignedSlot = slot

	s := NewStylist(media.DefaultDevice())
	out := collectFor(t, s, content)

	require.Len(t, out, 1)
	assert.Equal(t, LevelInnerShadowNormal, out[0].Level)
	assert.Equal(t, "red", firstValue(out[0]))
	assert.Greater(t, out[0].ShadowCascadeOrder, 0)
}

// With chained slot assignment, the tree at the far end of the chain
// is the outer scope: its ::slotted rules come first and carry the
// lower shadow cascade order.
func TestCollectSlottedRuleOrderAcrossTrees(t *testing.T) {
	nearStyles := NewAuthorStyles()
	nearStyles.AddStylesheet(sheet.MustParse("::slotted(span) { color: near }", sheet.OriginAuthor))
	nearStyles.Update(media.DefaultDevice())
	farStyles := NewAuthorStyles()
	farStyles.AddStylesheet(sheet.MustParse("::slotted(span) { color: far }", sheet.OriginAuthor))
	farStyles.Update(media.DefaultDevice())

	nearHost := newFakeElement("x-inner")
	nearShadow := nearHost.attachShadow(nearStyles)
	nearSlot := nearShadow.newShadowChild("slot")

	farHost := newFakeElement("x-outer")
	farShadow := farHost.attachShadow(farStyles)
	farSlot := farShadow.newShadowChild("slot")
	nearSlot.assignedSlot = farSlot

	content := newFakeElement("span")
	content.assignedSlot = nearSlot

	s := NewStylist(media.DefaultDevice())
	out := collectFor(t, s, content)

	require.Len(t, out, 2)
	assert.Equal(t, "far", firstValue(out[0]), "outer tree's slotted rules first")
	assert.Equal(t, "near", firstValue(out[1]))
	assert.Less(t, out[0].ShadowCascadeOrder, out[1].ShadowCascadeOrder)
}

func TestCollectPresentationalHints(t *testing.T) {
	el := newFakeElement("table")
	el.hints = []ApplicableDeclarationBlock{
		NewApplicableBlock(testBlock("width", "400px", false), LevelPresHints),
	}

	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("table { width: auto }", sheet.OriginUserAgent))
	out := collectFor(t, s, el)

	require.Len(t, out, 2)
	assert.Equal(t, LevelUANormal, out[0].Level)
	assert.Equal(t, LevelPresHints, out[1].Level, "hints sit between user and author rules")
}

// Hints survive author styles being disabled; everything after them is
// dropped.
func TestCollectAuthorStylesDisabled(t *testing.T) {
	el := newFakeElement("table")
	el.hints = []ApplicableDeclarationBlock{
		NewApplicableBlock(testBlock("width", "400px", false), LevelPresHints),
	}

	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("table { color: blue }", sheet.OriginAuthor))
	s.Update()

	styleAttr := testBlock("color", "green", false)
	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(el, PseudoNone, &styleAttr, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{AuthorStylesDisabled: true})

	require.Len(t, out, 1)
	assert.Equal(t, LevelPresHints, out[0].Level)
}

func TestCollectOnlyDefaultRules(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: red }", sheet.OriginUserAgent))
	s.AddStylesheet(sheet.MustParse("p { color: green }", sheet.OriginUser))
	s.AddStylesheet(sheet.MustParse("p { color: blue }", sheet.OriginAuthor))
	s.Update()

	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(newFakeElement("p"), PseudoNone, nil, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{OnlyDefaultRules: true})

	require.Len(t, out, 2)
	assert.Equal(t, LevelUANormal, out[0].Level)
	assert.Equal(t, LevelUserNormal, out[1].Level)
}

func TestCollectAnimationAndTransitionOrder(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.Update()

	styleAttr := testBlock("color", "green", false)
	smil := testBlock("fill", "orange", false)
	animBlock := testBlock("opacity", "0.5", false)
	transBlock := testBlock("opacity", "1", false)
	anims := AnimationRules{Animations: &animBlock, Transitions: &transBlock}

	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(newFakeElement("p"), PseudoNone, &styleAttr, &smil, anims, &out, &MatchingContext{}, CollectorOptions{})

	require.Len(t, out, 4)
	want := []CascadeLevel{LevelStyleAttributeNormal, LevelSMILOverride, LevelAnimations, LevelTransitions}
	for i, lvl := range want {
		assert.Equal(t, lvl, out[i].Level, "position %d", i)
	}
}

func TestCollectUAOnlyElement(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse("p { color: red }", sheet.OriginUserAgent))
	s.AddStylesheet(sheet.MustParse("p { color: green }", sheet.OriginUser))
	s.AddStylesheet(sheet.MustParse("p { color: blue }", sheet.OriginAuthor))

	el := newFakeElement("p")
	el.uaOnly = true
	out := collectFor(t, s, el)

	require.Len(t, out, 1, "internally synthesized content takes UA rules only")
	assert.Equal(t, LevelUANormal, out[0].Level)
}

func TestCollectPseudoElementQuery(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.AddStylesheet(sheet.MustParse(`
		p { color: blue }
		p::before { content: x }
	`, sheet.OriginAuthor))
	s.Update()

	var out ApplicableDeclarationList
	s.PushApplicableDeclarations(newFakeElement("p"), PseudoBefore, nil, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{})

	require.Len(t, out, 1)
	assert.Equal(t, "x", firstValue(out[0]))
	assert.Equal(t, LevelSameTreeAuthorNormal, out[0].Level)
}

func TestCollectorStyleAttributeOnPseudoPanics(t *testing.T) {
	s := NewStylist(media.DefaultDevice())
	s.Update()
	styleAttr := testBlock("color", "green", false)
	assert.Panics(t, func() {
		var out ApplicableDeclarationList
		s.PushApplicableDeclarations(newFakeElement("p"), PseudoBefore, &styleAttr, nil, AnimationRules{}, &out, &MatchingContext{}, CollectorOptions{})
	})
}
