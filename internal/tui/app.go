package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatkit/internal/bus"
	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/tui/client"
	"github.com/matheus3301/chatkit/internal/tui/keys"
	"github.com/matheus3301/chatkit/internal/tui/model"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/tui/views"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

const (
	pageChats    = "chats"
	pageThread   = "thread"
	pageContacts = "contacts"
	pageSearch   = "search"
	pageDetails  = "details"
	pageHelp     = "help"
	pageConfirm  = "confirm"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	client   *client.Client
	vm       *model.ViewModel
	registry *keys.Registry
	session  string

	main     *tview.Flex
	pages    *ui.Pages
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.SessionInfo
	prompt   *ui.Prompt
	flash    *ui.FlashModel
	flashBar *ui.FlashBar

	chats    *views.ConversationList
	thread   *views.MessageThread
	contacts *views.ContactsView
	search   *views.SearchView
	details  *views.ConversationInfo
	help     *views.HelpView

	titles    map[string]string
	confirmOn bool
	reloadCh  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, sessionName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		client:   c,
		vm:       model.NewViewModel(c),
		registry: keys.NewRegistry(),
		session:  sessionName,
		pages:    ui.NewPages(),
		crumbs:   ui.NewCrumbs(theme),
		menu:     ui.NewMenu(theme, 6),
		info:     ui.NewSessionInfo(theme),
		prompt:   ui.NewPrompt(theme),
		flash:    ui.NewFlashModel(),
		flashBar: ui.NewFlashBar(theme),
		chats:    views.NewConversationList(theme),
		thread:   views.NewMessageThread(theme),
		contacts: views.NewContactsView(theme),
		details:  views.NewConversationInfo(theme),
		help:     views.NewHelpView(theme),
		titles: map[string]string{
			pageChats:    "Chats",
			pageContacts: "Contacts",
			pageSearch:   "Search",
			pageDetails:  "Details",
			pageHelp:     "Help",
		},
		reloadCh: make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	a.search = views.NewSearchView(theme, a.conversationTitle)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func onRune(r rune, desc string, fn func()) *keys.Action {
	return &keys.Action{Key: tcell.KeyRune, Rune: r, Description: desc, Handler: fn}
}

func (a *App) setupBindings() {
	r := a.registry

	r.AddGlobal(onRune(':', "Command", func() { a.showPrompt(ui.PromptCommand) }))
	r.AddGlobal(onRune('c', "Contacts", a.showContacts))
	r.AddGlobal(onRune('s', "Search", func() { a.showPrompt(ui.PromptSearch) }))
	r.AddGlobal(onRune('?', "Help", a.showHelp))
	r.AddGlobal(onRune('q', "Quit/Back", a.back))
	r.AddGlobal(&keys.Action{Key: tcell.KeyEscape, Label: "Esc", Description: "Back", Handler: func() {
		if a.pages.Current() != pageChats || a.chats.Filter() != "" {
			a.back()
		}
	}})

	r.AddView(pageChats, &keys.Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Handler: func() {
		a.openConversation(a.chats.Selected())
	}})
	r.AddView(pageChats, onRune('/', "Filter", func() { a.showPrompt(ui.PromptFilter) }))
	r.AddView(pageChats, onRune('p', "Pin", func() { a.toggle(wire.MethodTogglePin, a.chats.Selected()) }))
	r.AddView(pageChats, onRune('m', "Mute", func() { a.toggle(wire.MethodToggleMute, a.chats.Selected()) }))
	r.AddView(pageChats, onRune('u', "Read/Unread", func() { a.toggleUnread(a.chats.Selected()) }))
	r.AddView(pageChats, onRune('d', "Details", func() { a.showDetails(a.chats.Selected()) }))
	r.AddView(pageChats, onRune('x', "Delete", func() { a.confirmDelete(a.chats.Selected()) }))
	r.AddView(pageChats, onRune('0', "Clear filter", func() { a.chats.SetFilter("") }))
	for n := 1; n <= 9; n++ {
		r.AddView(pageChats, &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n), Hidden: true,
			Description: fmt.Sprintf("Open chat %d", n),
			Handler:     func() { a.openConversation(a.chats.ByIndex(n)) },
		})
	}

	r.AddView(pageThread, onRune('i', "Compose", a.focusComposer))
	r.AddView(pageThread, onRune('r', "Simulate reply", func() { a.showPrompt(ui.PromptReply) }))
	r.AddView(pageThread, onRune('p', "Pin", func() { a.toggle(wire.MethodTogglePin, a.vm.ActiveConvID()) }))
	r.AddView(pageThread, onRune('m', "Mute", func() { a.toggle(wire.MethodToggleMute, a.vm.ActiveConvID()) }))
	r.AddView(pageThread, onRune('u', "Mark unread", a.leaveUnread))
	r.AddView(pageThread, onRune('d', "Details", func() { a.showDetails(a.vm.ActiveConvID()) }))

	r.AddView(pageContacts, &keys.Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Chat", Handler: a.chatWithSelected})
	r.AddView(pageContacts, onRune('v', "vCard QR", a.contacts.ShowQR))

	r.AddView(pageSearch, &keys.Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Handler: func() {
		a.openConversation(a.search.Selected())
	}})
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack, a.titles)
		a.menu.Update(a.registry.Hints(a.pages.Current()))
		a.app.SetFocus(a.focusTarget(a.pages.Current()))
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(text)
		case ui.PromptFilter:
			a.chats.SetFilter(text)
		case ui.PromptSearch:
			a.runSearch(text)
		case ui.PromptReply:
			a.simulateReply(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.thread.SetOnSend(a.send)
	a.thread.SetOnLeaveComposer(func() { a.app.SetFocus(a.thread.Messages()) })
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageChats, a.chats, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageContacts, a.contacts, true, false)
	a.pages.AddPage(pageSearch, a.search, true, false)
	a.pages.AddPage(pageDetails, a.details, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)

	header := tview.NewFlex().
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 14, 0, false)

	a.main = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.main, true)
	a.app.SetInputCapture(a.handleKey)
	a.pages.Reset(pageChats)
}

func (a *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if a.confirmOn {
		return ev
	}
	switch a.app.GetFocus().(type) {
	case *tview.InputField, *ui.Prompt:
		return ev
	}
	if a.registry.HandleEvent(a.pages.Current(), ev) {
		return nil
	}
	return ev
}

func (a *App) focusTarget(page string) tview.Primitive {
	switch page {
	case pageThread:
		return a.thread.Messages()
	case pageContacts:
		return a.contacts.Table()
	case pageSearch:
		return a.search
	case pageDetails:
		return a.details
	case pageHelp:
		return a.help
	default:
		return a.chats
	}
}

// back pops one page. On the chat list it clears the filter, then quits.
func (a *App) back() {
	switch a.pages.Current() {
	case pageChats:
		if a.chats.Filter() != "" {
			a.chats.SetFilter("")
			return
		}
		a.Stop()
		return
	case pageThread:
		a.vm.Close()
	}
	a.pages.Pop()
	if a.pages.Current() == pageThread {
		a.renderThread()
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	if mode == ui.PromptReply && a.vm.ActiveConvID() == "" {
		return
	}
	a.prompt.Activate(mode)
	a.main.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.main.ResizeItem(a.prompt, 0, 0)
	a.app.SetFocus(a.focusTarget(a.pages.Current()))
}

func (a *App) runCommand(line string) {
	cmd, err := ParseCommand(line)
	if err != nil {
		a.flash.Err(err)
		return
	}
	switch cmd.Kind {
	case CmdQuit:
		a.Stop()
	case CmdHelp:
		a.showHelp()
	case CmdChats:
		a.vm.Close()
		a.pages.Reset(pageChats)
	case CmdContacts:
		a.showContacts()
	case CmdSearch:
		a.runSearch(cmd.Args)
	case CmdChat:
		a.openByTitle(cmd.Args)
	case CmdReply:
		a.simulateReply(cmd.Args)
	case CmdCheckpoint:
		a.checkpoint()
	}
}

func (a *App) conversationTitle(convID string) string {
	if it, ok := a.vm.Conversation(convID); ok {
		return it.Title
	}
	return convID
}

func (a *App) openByTitle(query string) {
	q := strings.ToLower(query)
	for _, it := range a.vm.Conversations().Items {
		if strings.Contains(strings.ToLower(it.Title), q) {
			a.openConversation(it.ID)
			return
		}
	}
	a.flash.Warn(fmt.Sprintf("no chat matching %q", query))
}

func (a *App) openConversation(convID string) {
	if convID == "" {
		return
	}
	go func() {
		conv, err := a.vm.Open(a.ctx, convID)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.titles[pageThread] = conv.Title
			a.thread.SetConversation(conv)
			a.thread.Update(a.vm.Messages())
			a.pages.Push(pageThread)
		})
		a.reload()
	}()
}

func (a *App) renderThread() {
	if it, ok := a.vm.Conversation(a.vm.ActiveConvID()); ok {
		a.thread.SetConversation(it)
	}
	a.thread.Update(a.vm.Messages())
}

func (a *App) focusComposer() {
	a.app.SetFocus(a.thread.Composer())
}

func (a *App) send(text string) {
	go func() {
		sent, err := a.vm.Send(a.ctx, text)
		switch {
		case err != nil:
			a.flash.Err(fmt.Errorf("send: %w", err))
		case sent:
			a.reload()
		}
	}()
}

func (a *App) simulateReply(text string) {
	go func() {
		ok, err := a.vm.SimulateReply(a.ctx, text)
		switch {
		case err != nil:
			a.flash.Err(fmt.Errorf("reply: %w", err))
		case !ok:
			a.flash.Warn("no open chat")
		default:
			a.reload()
		}
	}()
}

func (a *App) toggle(method, convID string) {
	if convID == "" {
		return
	}
	go func() {
		it, found, err := a.vm.Apply(a.ctx, method, convID)
		switch {
		case err != nil:
			a.flash.Err(err)
		case !found:
			a.flash.Warn("chat no longer exists")
		default:
			a.flash.Info(describe(method, it))
			a.reload()
		}
	}()
}

func describe(method string, it wire.ConversationItem) string {
	switch method {
	case wire.MethodTogglePin:
		if it.Pinned {
			return "Pinned " + it.Title
		}
		return "Unpinned " + it.Title
	case wire.MethodToggleMute:
		if it.Muted {
			return "Muted " + it.Title
		}
		return "Unmuted " + it.Title
	case wire.MethodMarkUnread:
		return "Marked " + it.Title + " unread"
	case wire.MethodMarkRead:
		return "Marked " + it.Title + " read"
	}
	return it.Title
}

func (a *App) toggleUnread(convID string) {
	it, ok := a.vm.Conversation(convID)
	if !ok {
		return
	}
	if it.Unread > 0 {
		a.toggle(wire.MethodMarkRead, convID)
	} else {
		a.toggle(wire.MethodMarkUnread, convID)
	}
}

func (a *App) leaveUnread() {
	convID := a.vm.ActiveConvID()
	a.back()
	a.toggle(wire.MethodMarkUnread, convID)
}

func (a *App) confirmDelete(convID string) {
	it, ok := a.vm.Conversation(convID)
	if !ok {
		return
	}
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %q and all its messages?", it.Title)).
		AddButtons([]string{"Cancel", "Delete"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(pageConfirm)
			a.confirmOn = false
			a.app.SetFocus(a.focusTarget(a.pages.Current()))
			if label == "Delete" {
				a.delete(convID)
			}
		})
	a.confirmOn = true
	a.pages.AddPage(pageConfirm, modal, false, true)
	a.app.SetFocus(modal)
}

func (a *App) delete(convID string) {
	go func() {
		ok, err := a.vm.Delete(a.ctx, convID)
		switch {
		case err != nil:
			a.flash.Err(err)
		case !ok:
			a.flash.Warn("chat no longer exists")
		default:
			a.flash.Info("Chat deleted")
			a.reload()
		}
	}()
}

func (a *App) showDetails(convID string) {
	it, ok := a.vm.Conversation(convID)
	if !ok {
		return
	}
	go func() {
		var peer *chat.Contact
		if !it.IsGroup && it.PeerContactID != "" {
			if c, err := a.vm.Contact(a.ctx, it.PeerContactID); err == nil {
				peer = &c
			}
		}
		a.app.QueueUpdateDraw(func() {
			a.details.Update(it, peer)
			a.pages.Push(pageDetails)
		})
	}()
}

func (a *App) showContacts() {
	a.contacts.Update(a.vm.Sections())
	a.pages.Push(pageContacts)
}

func (a *App) chatWithSelected() {
	contactID, ok := a.contacts.Selected()
	if !ok {
		return
	}
	go func() {
		it, found, err := a.vm.StartDirect(a.ctx, contactID)
		switch {
		case err != nil:
			a.flash.Err(err)
		case !found:
			a.flash.Warn("unknown contact")
		default:
			a.openConversation(it.ID)
		}
	}()
}

func (a *App) runSearch(query string) {
	go func() {
		hits, err := a.vm.Search(a.ctx, query)
		if err != nil {
			a.flash.Err(fmt.Errorf("search: %w", err))
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.search.Update(query, hits)
			a.pages.Push(pageSearch)
		})
	}()
}

func (a *App) checkpoint() {
	go func() {
		res, err := a.client.Checkpoint(a.ctx)
		switch {
		case err != nil:
			a.flash.Err(fmt.Errorf("checkpoint: %w", err))
		case res.Saved:
			a.flash.Infof("Saved snapshot v%d", res.Version)
		default:
			a.flash.Info("Nothing to save")
		}
		a.reload()
	}()
}

func (a *App) showHelp() {
	a.help.Update([]views.HelpSection{
		{Title: "Global", Hints: a.registry.Hints("")},
		{Title: "Chats", Hints: append(a.registry.ViewHints(pageChats), ui.MenuHint{Key: "1-9", Description: "Open Nth chat"})},
		{Title: "Thread", Hints: append(a.registry.ViewHints(pageThread),
			ui.MenuHint{Key: "Enter", Description: "Send (in composer)"},
			ui.MenuHint{Key: "Esc", Description: "Leave composer"})},
		{Title: "Contacts", Hints: a.registry.ViewHints(pageContacts)},
		{Title: "Search", Hints: a.registry.ViewHints(pageSearch)},
		{Title: "Commands", Hints: []ui.MenuHint{
			{Key: ":search <text>", Description: "Search messages"},
			{Key: ":chat <title>", Description: "Open chat by title"},
			{Key: ":reply <text>", Description: "Simulate an incoming reply"},
			{Key: ":contacts", Description: "Show contacts"},
			{Key: ":chats", Description: "Back to the chat list"},
			{Key: ":save", Description: "Checkpoint now"},
			{Key: ":q", Description: "Quit"},
		}},
	})
	a.pages.Push(pageHelp)
}

// reload schedules a refresh; bursts collapse into one.
func (a *App) reload() {
	select {
	case a.reloadCh <- struct{}{}:
	default:
	}
}

func (a *App) refreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.reloadCh:
			_ = a.vm.LoadConversations(a.ctx)
			_ = a.vm.LoadMessages(a.ctx)
			_ = a.vm.LoadStatus(a.ctx)
		case <-ticker.C:
			if err := a.vm.LoadStatus(a.ctx); err != nil && a.ctx.Err() == nil {
				a.flash.Warn("daemon unreachable")
			}
		case <-a.ctx.Done():
			return
		}
		a.app.QueueUpdateDraw(a.render)
	}
}

func (a *App) render() {
	a.info.Update(a.vm.Status())
	a.chats.Update(a.vm.Conversations())
	if a.vm.ActiveConvID() != "" {
		a.renderThread()
	}
}

// watchEvents streams chat events from the daemon and schedules reloads,
// reconnecting until the app stops.
func (a *App) watchEvents() {
	for a.ctx.Err() == nil {
		err := a.consumeEvents()
		if a.ctx.Err() != nil {
			return
		}
		if err != nil {
			a.flash.Warn("event stream lost, retrying")
		}
		select {
		case <-time.After(2 * time.Second):
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) consumeEvents() error {
	stream, err := a.client.WatchEvents(a.ctx, "chat.")
	if err != nil {
		return err
	}
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Kind == bus.ConversationDeleted && ev.ConvID == a.vm.ActiveConvID() {
			a.app.QueueUpdateDraw(func() {
				if a.pages.Current() == pageThread {
					a.back()
				}
			})
		}
		a.reload()
	}
}

func (a *App) watchFlash() {
	for {
		select {
		case msg := <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Show(msg, true) })
			expiry := time.Until(msg.Expires)
			time.AfterFunc(expiry, func() {
				a.app.QueueUpdateDraw(func() { a.flashBar.Show(a.flash.Current()) })
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// Run loads the initial state and blocks until the user quits.
func (a *App) Run() error {
	go a.watchFlash()
	go func() {
		if err := a.vm.LoadAll(a.ctx); err != nil {
			a.flash.Err(fmt.Errorf("load: %w", err))
		}
		a.app.QueueUpdateDraw(func() {
			a.render()
			a.flash.Infof("Session %s: %d chats", a.session, len(a.vm.Conversations().Items))
		})
		go a.watchEvents()
		a.refreshLoop()
	}()

	defer a.cancel()
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
