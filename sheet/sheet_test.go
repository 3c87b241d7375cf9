package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinbrowser/marlin/media"
)

func TestParseBasicRules(t *testing.T) {
	s, err := Parse(`
		p { color: blue; }
		a, .link { color: red !important; text-decoration: underline; }
	`, OriginAuthor)
	require.NoError(t, err)
	require.Len(t, s.Rules, 2)

	assert.Equal(t, OriginAuthor, s.Origin)
	assert.Equal(t, []string{"p"}, s.Rules[0].Selectors)
	assert.Equal(t, []string{"a", ".link"}, s.Rules[1].Selectors)

	block := s.Rules[1].Block.Get()
	require.Len(t, block.Declarations, 2)
	assert.Equal(t, "color", block.Declarations[0].Property)
	assert.True(t, block.Declarations[0].Important)
	assert.False(t, block.Declarations[1].Important)
	assert.True(t, block.HasImportant())
}

func TestParseMediaBlocks(t *testing.T) {
	s, err := Parse(`
		p { color: black; }
		@media screen and (min-width: 600px) {
			p { color: green; }
		}
		@media print {
			p { color: gray; }
		}
	`, OriginAuthor)
	require.NoError(t, err)
	require.Len(t, s.Rules, 3)

	assert.Empty(t, s.Rules[0].Media)
	require.Len(t, s.Rules[1].Media, 1)

	wide := media.Device{Width: 800, Height: 600, Medium: media.MediumScreen}
	narrow := media.Device{Width: 400, Height: 600, Medium: media.MediumScreen}

	var wideRules, narrowRules []string
	s.EffectiveRules(wide, func(r *StyleRule) {
		wideRules = append(wideRules, r.SelectorText)
	})
	s.EffectiveRules(narrow, func(r *StyleRule) {
		narrowRules = append(narrowRules, r.SelectorText)
	})
	assert.Len(t, wideRules, 2)
	assert.Len(t, narrowRules, 1)
}

func TestMediaFingerprint(t *testing.T) {
	s := MustParse(`
		p { color: black; }
		@media (min-width: 600px) { p { color: green; } }
	`, OriginAuthor)

	wide := media.Device{Width: 800, Medium: media.MediumScreen}
	wider := media.Device{Width: 1200, Medium: media.MediumScreen}
	narrow := media.Device{Width: 400, Medium: media.MediumScreen}

	assert.Equal(t, s.MediaFingerprint(wide), s.MediaFingerprint(wider),
		"devices selecting the same rules must fingerprint equally")
	assert.NotEqual(t, s.MediaFingerprint(wide), s.MediaFingerprint(narrow),
		"crossing a media boundary must change the fingerprint")
}

func TestParseDeclarationBlock(t *testing.T) {
	block, err := ParseDeclarationBlock("color: green; margin: 0")
	require.NoError(t, err)
	defer block.Release()

	v, ok := block.Get().Get("color")
	require.True(t, ok)
	assert.Equal(t, "green", v)

	_, ok = block.Get().Get("padding")
	assert.False(t, ok)
}

func TestUserAgentSheet(t *testing.T) {
	ua := UserAgent()
	require.NotEmpty(t, ua.Rules)
	assert.Equal(t, OriginUserAgent, ua.Origin)
	assert.Same(t, ua, UserAgent(), "UA sheet should be parsed once and shared")
}
