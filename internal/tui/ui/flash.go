package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  10 * time.Second,
}

// FlashMessage is one notification and the time it stops showing.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the latest notification. Any goroutine may post; the
// UI goroutine drains Watch to redraw.
type FlashModel struct {
	mu      sync.Mutex
	current FlashMessage
	now     func() time.Time
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now, watchCh: make(chan FlashMessage, 8)}
}

func (f *FlashModel) Info(msg string) { f.post(FlashInfo, msg) }

func (f *FlashModel) Infof(format string, args ...any) {
	f.post(FlashInfo, fmt.Sprintf(format, args...))
}

func (f *FlashModel) Warn(msg string) { f.post(FlashWarn, msg) }

func (f *FlashModel) Err(err error) { f.post(FlashErr, err.Error()) }

func (f *FlashModel) post(level FlashLevel, msg string) {
	fm := FlashMessage{Text: msg, Level: level, Expires: f.now().Add(flashTTL[level])}
	f.mu.Lock()
	f.current = fm
	f.mu.Unlock()
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Current returns the live message, if it has not expired.
func (f *FlashModel) Current() (FlashMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || !f.now().Before(f.current.Expires) {
		return FlashMessage{}, false
	}
	return f.current, true
}

// Watch delivers each posted message. Posts are dropped while the buffer
// is full; Current always has the latest.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar renders the current flash message.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{TextView: tv, theme: theme}
}

// Show renders msg, or clears the bar when ok is false.
func (fb *FlashBar) Show(msg FlashMessage, ok bool) {
	fb.Clear()
	if !ok {
		return
	}
	color := map[FlashLevel]string{
		FlashInfo: Tag(fb.theme.FlashInfoColor),
		FlashWarn: Tag(fb.theme.FlashWarnColor),
		FlashErr:  Tag(fb.theme.FlashErrColor),
	}[msg.Level]
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, tview.Escape(msg.Text))
}
