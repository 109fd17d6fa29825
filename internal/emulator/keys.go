package emulator

import (
	"strings"

	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Menu        key.Binding
	Power       key.Binding
	LongMenu    key.Binding
	SmallScreen key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Menu: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab", "next"),
		),
		Power: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		LongMenu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle menu"),
		),
		SmallScreen: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "small screen"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// button maps a key to a device button.
func (k keyMap) button(msg tea.KeyMsg) (api.Button, bool) {
	switch {
	case key.Matches(msg, k.Menu):
		return api.ButtonMenu, true
	case key.Matches(msg, k.Power):
		return api.ButtonPower, true
	case key.Matches(msg, k.LongMenu):
		return api.ButtonLongMenu, true
	}
	return 0, false
}

func (k keyMap) help() string {
	bindings := []key.Binding{k.Menu, k.Power, k.LongMenu, k.SmallScreen, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
