package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

// SearchView lists message search results.
type SearchView struct {
	*tview.Table
	theme  *ui.Theme
	titles func(convID string) string
	hits   []wire.SearchHit
}

// NewSearchView creates a new search view. titles maps a conversation id
// to its display title.
func NewSearchView(theme *ui.Theme, titles func(convID string) string) *SearchView {
	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitle(" Search ")
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	return &SearchView{Table: results, theme: theme, titles: titles}
}

// Update renders hits for query.
func (sv *SearchView) Update(query string, hits []wire.SearchHit) {
	sv.hits = hits
	sv.Clear()

	for col, h := range []string{" CHAT", " FROM", " MATCH", " WHEN"} {
		sv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}

	for i, h := range hits {
		row := i + 1
		from := h.Message.SenderName
		if h.Message.Outgoing {
			from = "You"
		}
		sv.SetCell(row, 0, tview.NewTableCell(" "+sanitizeLine(sv.titles(h.Message.ConvID))).SetMaxWidth(24).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 1, tview.NewTableCell(" "+sanitizeLine(from)).SetMaxWidth(16).SetTextColor(sv.theme.CounterColor))
		sv.SetCell(row, 2, tview.NewTableCell(" "+sanitizeLine(h.Snippet)).SetExpansion(1).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 3, tview.NewTableCell(" "+time.UnixMilli(h.Message.At).Format("01/02 15:04")).SetTextColor(sv.theme.MutedColor))
	}
	sv.SetTitle(fmt.Sprintf(" Search %q (%d) ", tview.Escape(query), len(hits)))
	sv.Select(1, 0)
}

// Selected returns the conversation id of the highlighted hit.
func (sv *SearchView) Selected() string {
	row, _ := sv.GetSelection()
	if row < 1 || row > len(sv.hits) {
		return ""
	}
	return sv.hits[row-1].Message.ConvID
}
