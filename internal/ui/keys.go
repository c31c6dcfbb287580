package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/procviewer/internal/input"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Delete    key.Binding
	ForceQuit key.Binding

	// help-only bindings; the state machine reads the runes itself
	Search    key.Binding
	Sort      key.Binding
	Tree      key.Binding
	Filter    key.Binding
	Clear     key.Binding
	Terminate key.Binding
	Quit      key.Binding
	Statuses  key.Binding
	Confirm   key.Binding
	Entry     key.Binding
	Choose    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "select")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Delete:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:      key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "sort")),
		Tree:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tree")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Terminate: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "terminate")),
		Quit:      key.NewBinding(key.WithKeys("q", "Q"), key.WithHelp("q", "quit")),
		Statuses:  key.NewBinding(key.WithKeys("r", "s", "t", "z"), key.WithHelp("r/s/t/z", "running/sleeping/stopped/zombie")),
		Confirm:   key.NewBinding(key.WithKeys("y", "n"), key.WithHelp("y/n", "confirm")),
		Entry:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Choose:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "choose")),
	}
}

// translate maps a bubbletea key to the state machine's key. Anything the
// state machine has no use for becomes KeyNone.
func (k keyMap) translate(msg tea.KeyMsg) input.Key {
	switch {
	case key.Matches(msg, k.Up):
		return input.Key{Type: input.KeyUp}
	case key.Matches(msg, k.Down):
		return input.Key{Type: input.KeyDown}
	case key.Matches(msg, k.Enter):
		return input.Key{Type: input.KeyEnter}
	case key.Matches(msg, k.Back):
		return input.Key{Type: input.KeyEscape}
	case key.Matches(msg, k.Delete):
		return input.Key{Type: input.KeyBackspace}
	}
	if (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt && len(msg.Runes) == 1 {
		return input.Rune(msg.Runes[0])
	}
	return input.Key{}
}

// forMode lists the bindings shown in the help bar.
func (k keyMap) forMode(m input.Mode) []key.Binding {
	switch m {
	case input.ModeNormal:
		return []key.Binding{k.Up, k.Search, k.Sort, k.Tree, k.Filter, k.Clear, k.Enter, k.Terminate, k.Quit}
	case input.ModeSearching, input.ModeFilterCPU, input.ModeFilterMemory, input.ModeFilterUser:
		return []key.Binding{k.Entry, k.Delete, k.Back}
	case input.ModeFilterMenu:
		return []key.Binding{k.Choose, k.Clear, k.Back}
	case input.ModeFilterStatus:
		return []key.Binding{k.Statuses, k.Back}
	case input.ModeDetails:
		return []key.Binding{k.Quit, k.Back}
	case input.ModeConfirmTerminate:
		return []key.Binding{k.Confirm, k.Back}
	}
	return nil
}
