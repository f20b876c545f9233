package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// MenuHint describes a keyboard shortcut for display in the menu.
type MenuHint struct {
	Key         string
	Description string
}

// Menu displays keyboard shortcut hints in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
}

// NewMenu creates a menu that lays hints out top-to-bottom, rows per column.
func NewMenu(theme *Theme, rows int) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{TextView: tv, theme: theme, rows: max(rows, 1)}
}

// Update renders hints.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout(hints))
}

func (m *Menu) layout(hints []MenuHint) string {
	keyColor := Tag(m.theme.MenuKeyColor)
	cells := make([]string, len(hints))
	for i, h := range hints {
		cells[i] = fmt.Sprintf("[%s::b]<%s>[-:-:-] %-10s", keyColor, tview.Escape(h.Key), h.Description)
	}

	var out string
	for r := 0; r < m.rows; r++ {
		for i := r; i < len(cells); i += m.rows {
			out += cells[i] + "  "
		}
		out += "\n"
	}
	return out
}
