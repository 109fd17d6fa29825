// Package mainmenu is the built-in app registered at index 0. It lists every
// interactive app and shows the last fatal error.
package mainmenu

import (
	"github.com/atomicstack/custom-menu/internal/api"
	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/atomicstack/custom-menu/internal/ui"
	"github.com/atomicstack/custom-menu/internal/ui/action"
	"github.com/atomicstack/custom-menu/internal/ui/screen"
)

const (
	Name  = "Main Menu"
	Title = "Custom Menu"
	Back  = api.GlyphArrowBack + " Back"
)

// Controller is the part of the host the main menu drives.
type Controller interface {
	Apps() []host.AppInfo
	SetActiveApp(index int)
	SetActive(active bool)
	TakeErrorMessage() (string, bool)
}

type mainMenu struct {
	ctrl    Controller
	app     *ui.SessionApp
	menu    *screen.Menu
	actions []action.Action
	message string
}

// New builds the main menu app for ctrl.
func New(ctrl Controller) *api.Descriptor {
	m := &mainMenu{ctrl: ctrl}
	m.app = ui.NewSessionApp(Name, m.setup)
	desc := m.app.Descriptor()

	enter, leave := desc.OnEnter, desc.OnLeave
	desc.OnEnter = func(s api.Surface) {
		m.rebuild()
		enter(s)
	}
	desc.OnLeave = func(s api.Surface) {
		leave(s)
		m.message = ""
	}
	return desc
}

// ForHost adapts New to host.MainMenuFunc.
func ForHost(h *host.Host) *api.Descriptor {
	return New(h)
}

func (m *mainMenu) setup(_ api.Surface, session *ui.Session) {
	m.menu = screen.NewMenu(&m.actions, Title)
	session.PushNoRender(m.menu)
}

func (m *mainMenu) rebuild() {
	if msg, ok := m.ctrl.TakeErrorMessage(); ok {
		m.message = msg
	}

	actions := []action.Action{action.NewButton(Back, m.back)}
	for _, info := range m.ctrl.Apps() {
		if info.Index == 0 || !info.Interactive {
			continue
		}
		index := info.Index
		actions = append(actions, action.NewButton(info.Name, func() {
			m.ctrl.SetActiveApp(index)
		}))
	}
	if m.message != "" {
		actions = append(actions, action.NewLabel(api.GlyphWarning+" "+m.message, true))
	}
	m.actions = actions

	if m.menu != nil && m.menu.ActiveEntry() >= len(m.actions) {
		m.menu.SetActiveEntry(0)
	}
}

func (m *mainMenu) back() {
	m.ctrl.SetActive(false)
	if m.menu != nil {
		m.menu.SetActiveEntry(0)
	}
}
