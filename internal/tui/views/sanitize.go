package views

import (
	"strings"
	"unicode"

	"github.com/rivo/tview"
)

// joiners are codepoints that glue emoji into sequences tcell measures
// differently from most terminals.
var joiners = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f3fb, Hi: 0x1f3ff, Stride: 1},
		{Lo: 0xe0100, Hi: 0xe01ef, Stride: 1},
	},
}

// sanitize strips emoji joiners, skin tone modifiers and control
// characters other than newlines, then escapes tview color tags.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.Is(joiners, r), unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return tview.Escape(s)
}

// sanitizeLine is sanitize for table cells, folding newlines into spaces.
func sanitizeLine(s string) string {
	return strings.ReplaceAll(sanitize(s), "\n", " ")
}
