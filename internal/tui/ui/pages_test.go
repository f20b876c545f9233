package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
)

func newTestPages(names ...string) *Pages {
	p := NewPages()
	for _, n := range names {
		p.AddPage(n, tview.NewBox(), true, false)
	}
	return p
}

func TestPagesPushPop(t *testing.T) {
	p := newTestPages("chats", "thread", "info")
	var seen [][]string
	p.SetOnChange(func(stack []string) { seen = append(seen, stack) })

	p.Reset("chats")
	p.Push("thread")
	p.Push("info")
	assert.Equal(t, "info", p.Current())
	assert.Equal(t, []string{"chats", "thread", "info"}, p.Stack())

	assert.Equal(t, "info", p.Pop())
	assert.Equal(t, "thread", p.Pop())
	assert.Equal(t, "", p.Pop(), "root page stays")
	assert.Equal(t, "chats", p.Current())
	assert.Len(t, seen, 5)
}

func TestPagesPushExistingTruncates(t *testing.T) {
	p := newTestPages("chats", "thread", "info")
	p.Reset("chats")
	p.Push("thread")
	p.Push("info")

	p.Push("thread")
	assert.Equal(t, []string{"chats", "thread"}, p.Stack())
}

func TestMenuLayoutColumns(t *testing.T) {
	m := NewMenu(DefaultTheme(), 2)
	out := m.layout([]MenuHint{{Key: "a", Description: "A"}, {Key: "b", Description: "B"}, {Key: "c", Description: "C"}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "<a>")
	assert.Contains(t, lines[0], "<c>")
	assert.Contains(t, lines[1], "<b>")
}

func TestPromptSubmitAndCancel(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	var got []string
	p.SetOnSubmit(func(mode PromptMode, text string) {
		assert.Equal(t, PromptSearch, mode)
		got = append(got, text)
	})
	cancels := 0
	p.SetOnCancel(func() { cancels++ })

	p.Activate(PromptSearch)
	assert.Equal(t, "?", p.GetLabel())
	p.SetText("  hello  ")
	p.done(tcell.KeyEnter)
	assert.Equal(t, []string{"hello"}, got)
	assert.Equal(t, "", p.GetText())

	p.SetText("   ")
	p.done(tcell.KeyEnter)
	p.done(tcell.KeyEscape)
	assert.Equal(t, 2, cancels)
	assert.Len(t, got, 1)
}
