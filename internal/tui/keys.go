package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"enrichment/internal/session"
)

type keyMap struct {
	quit     key.Binding
	focus    key.Binding
	left     key.Binding
	right    key.Binding
	press    key.Binding
	paste    key.Binding
	cancel   key.Binding
	up       key.Binding
	down     key.Binding
	help     key.Binding
	shortcut map[session.Action]key.Binding
}

func newKeyMap() keyMap {
	k := keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "input/buttons"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "select button"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press"),
		),
		paste: key.NewBinding(
			key.WithKeys("ctrl+y", "ctrl+v"),
			key.WithHelp("ctrl+y", "paste clipboard"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		shortcut: make(map[session.Action]key.Binding, len(session.Actions)),
	}
	fkeys := []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8"}
	for i, a := range session.Actions {
		if i >= len(fkeys) {
			break
		}
		k.shortcut[a] = key.NewBinding(
			key.WithKeys(fkeys[i]),
			key.WithHelp("F"+fkeys[i][1:], a.Label()),
		)
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.left, k.press, k.paste, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	actions := make([]key.Binding, 0, len(k.shortcut))
	for _, a := range session.Actions {
		if b, ok := k.shortcut[a]; ok {
			actions = append(actions, b)
		}
	}
	return [][]key.Binding{
		{k.focus, k.left, k.press, k.cancel},
		actions,
		{k.paste, k.help, k.quit},
	}
}
