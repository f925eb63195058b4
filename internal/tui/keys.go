package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the form's bindings.
type KeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	NextSample key.Binding
	PrevSample key.Binding
	Clear      key.Binding
	Submit     key.Binding
	Info       key.Binding
	Actual     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		NextSample: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next city")),
		PrevSample: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev city")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "predict")),
		Info:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "about field")),
		Actual:     key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "actual AQI")),
		Help:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextSample, k.Clear, k.Info, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.NextSample, k.PrevSample, k.Clear},
		{k.Info, k.Actual, k.Help, k.Quit},
	}
}
