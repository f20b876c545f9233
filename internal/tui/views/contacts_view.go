package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/qr"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactsView lists contacts grouped under their index letters, with a
// card for the highlighted contact.
type ContactsView struct {
	*tview.Flex
	theme *ui.Theme
	table *tview.Table
	card  *tview.TextView
	rows  map[int]chat.Contact
	total int
}

// NewContactsView creates the contacts page.
func NewContactsView(theme *ui.Theme) *ContactsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	card := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	card.SetBorder(true)
	card.SetBorderColor(theme.BorderColor)
	card.SetBackgroundColor(theme.BgColor)
	card.SetTextColor(theme.FgColor)
	card.SetTitle(" Contact ")
	card.SetTitleColor(theme.TitleColor)

	cv := &ContactsView{
		Flex: tview.NewFlex().
			AddItem(table, 0, 1, true).
			AddItem(card, 0, 1, false),
		theme: theme,
		table: table,
		card:  card,
		rows:  make(map[int]chat.Contact),
	}
	table.SetSelectionChangedFunc(func(row, _ int) {
		if c, ok := cv.rows[row]; ok {
			cv.showCard(c, false)
		}
	})
	return cv
}

// Update renders sections. Letter rows are not selectable.
func (cv *ContactsView) Update(sections []chat.Section) {
	selected, _ := cv.Selected()
	cv.table.Clear()
	clear(cv.rows)
	cv.total = 0

	row := 0
	for _, s := range sections {
		cv.table.SetCell(row, 0, tview.NewTableCell(" "+s.Letter).
			SetSelectable(false).
			SetTextColor(cv.theme.SectionColor).
			SetAttributes(tcell.AttrBold))
		row++
		for _, c := range s.Contacts {
			cv.table.SetCell(row, 0, tview.NewTableCell("   "+sanitizeLine(c.Name)).
				SetExpansion(1).
				SetTextColor(cv.theme.FgColor))
			cv.table.SetCell(row, 1, tview.NewTableCell(sanitizeLine(c.LastSeenText)+" ").
				SetAlign(tview.AlignRight).
				SetTextColor(cv.theme.MutedColor))
			cv.rows[row] = c
			cv.total++
			row++
		}
	}
	cv.table.SetTitle(fmt.Sprintf(" Contacts (%d) ", cv.total))

	for r, c := range cv.rows {
		if c.ID == selected {
			cv.table.Select(r, 0)
			return
		}
	}
	if cv.total > 0 {
		cv.table.Select(cv.firstRow(), 0)
	}
}

func (cv *ContactsView) firstRow() int {
	first := -1
	for r := range cv.rows {
		if first < 0 || r < first {
			first = r
		}
	}
	return first
}

// Selected returns the highlighted contact id.
func (cv *ContactsView) Selected() (string, bool) {
	row, _ := cv.table.GetSelection()
	c, ok := cv.rows[row]
	return c.ID, ok
}

// ShowQR toggles the card for the highlighted contact between details and
// a vCard QR code.
func (cv *ContactsView) ShowQR() {
	row, _ := cv.table.GetSelection()
	if c, ok := cv.rows[row]; ok {
		cv.showCard(c, true)
	}
}

func (cv *ContactsView) showCard(c chat.Contact, withQR bool) {
	cv.card.Clear()
	cv.card.SetTitle(fmt.Sprintf(" %s ", sanitizeLine(c.Name)))
	writeRows(cv.card, cv.theme, [][2]string{
		{"Name", c.Name},
		{"Username", c.Username},
		{"Phone", c.Phone},
		{"Seen", c.LastSeenText},
		{"Bio", c.Bio},
	})
	if !withQR {
		_, _ = fmt.Fprintf(cv.card, "\n [::d]v: show QR  Enter: chat[-:-:-]")
		return
	}
	code, err := qr.Render(qr.VCard(c), " ")
	if err != nil {
		_, _ = fmt.Fprintf(cv.card, "\n [%s]%s[-]", ui.Tag(cv.theme.FlashErrColor), tview.Escape(err.Error()))
		return
	}
	_, _ = fmt.Fprintf(cv.card, "\n%s", code)
}

// Table returns the contact table (for focus management).
func (cv *ContactsView) Table() *tview.Table {
	return cv.table
}
