package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Pause      key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Brighter   key.Binding
	Duller     key.Binding
	ResetSpeed key.Binding
	Next       key.Binding
	Previous   key.Binding
	Expand     key.Binding
	Toolbar    key.Binding
	Magnifier  key.Binding
	Mode       key.Binding
	Open       key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/stop"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "contrast +"),
		),
		Duller: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "contrast -"),
		),
		ResetSpeed: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "speed 1x"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "n"),
			key.WithHelp("l", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("h", "b"),
			key.WithHelp("h", "previous"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "expand"),
		),
		Toolbar: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toolbar"),
		),
		Magnifier: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "magnifier"),
		),
		Mode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "blocks/braille"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open images"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Pause, k.Open, k.Expand, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Pause, k.Faster, k.Slower, k.ResetSpeed},
		{k.Brighter, k.Duller, k.Next, k.Previous},
		{k.Expand, k.Toolbar, k.Magnifier, k.Mode},
		{k.Open, k.Clear, k.Help, k.Quit},
	}
}
