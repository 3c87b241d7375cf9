package sheet

import "sync"

// userAgentCSS contains the default browser styles.
// Based on the HTML5 specification rendering section.
var userAgentCSS = `
/* Block elements */
html, body, div, p, article, aside, footer, header, nav, section,
main, figure, figcaption, blockquote, pre, address {
	display: block;
}

body {
	margin: 8px;
}

/* Headings */
h1, h2, h3, h4, h5, h6 {
	display: block;
	font-weight: bold;
}

h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; }

/* Lists */
ul, ol {
	display: block;
	margin-top: 1em;
	margin-bottom: 1em;
	padding-left: 40px;
}
li { display: list-item; }

/* Links */
a {
	color: blue;
	text-decoration: underline;
	cursor: pointer;
}
a:visited { color: purple; }
a:active { color: red; }

/* Tables */
table { display: table; border-collapse: separate; border-spacing: 2px; }
tr { display: table-row; }
td, th { display: table-cell; padding: 1px; }
th { font-weight: bold; text-align: center; }

/* Form controls */
input, button, select, textarea { display: inline-block; }
button { text-align: center; cursor: default; }
input:disabled, button:disabled, select:disabled, textarea:disabled {
	color: graytext;
}

/* Inline elements */
b, strong { font-weight: bold; }
i, em, cite, var { font-style: italic; }
code, kbd, samp, pre, tt { font-family: monospace; }
u, ins { text-decoration: underline; }
s, del, strike { text-decoration: line-through; }
small { font-size: smaller; }
sub { vertical-align: sub; font-size: smaller; }
sup { vertical-align: super; font-size: smaller; }

/* Hidden elements */
head, style, script, title, meta, link, base { display: none; }
[hidden] { display: none; }

hr {
	display: block;
	margin-top: 0.5em;
	margin-bottom: 0.5em;
	border-style: inset;
	border-width: 1px;
}
`

var userAgentSheet = sync.OnceValue(func() *Stylesheet {
	return MustParse(userAgentCSS, OriginUserAgent)
})

// UserAgent returns the built-in user agent stylesheet. The sheet is
// parsed once and shared; callers must treat it as read-only.
func UserAgent() *Stylesheet {
	return userAgentSheet()
}
