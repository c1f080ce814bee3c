package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Train    key.Binding
	Generate key.Binding
	Toggle   key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Train:    key.NewBinding(key.WithKeys("t", "enter"), key.WithHelp("t/enter", "train")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		Toggle:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "show/hide words")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Train, k.Generate, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
