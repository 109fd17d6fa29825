package ui

import "github.com/atomicstack/custom-menu/internal/api"

// SessionApp adapts a Session-driven UI to an app descriptor. Setup runs once,
// on the first enter, and usually pushes the initial screen without rendering.
type SessionApp struct {
	Name     string
	Setup    func(s api.Surface, session *Session)
	Teardown func(s api.Surface)

	session     *Session
	initialized bool
}

// NewSessionApp creates an app named name.
func NewSessionApp(name string, setup func(api.Surface, *Session)) *SessionApp {
	return &SessionApp{Name: name, Setup: setup}
}

// Session returns the app's session, or nil before the first enter.
func (a *SessionApp) Session() *Session {
	return a.session
}

// Descriptor returns the lifecycle hooks for registering the app.
func (a *SessionApp) Descriptor() *api.Descriptor {
	return &api.Descriptor{
		Name:       a.Name,
		OnEnter:    a.enter,
		OnLeave:    a.leave,
		OnKeypress: a.keypress,
		OnTeardown: a.teardown,
	}
}

func (a *SessionApp) enter(s api.Surface) {
	if a.session == nil {
		a.session = NewSession(s)
	}
	if !a.initialized {
		a.initialized = true
		if a.Setup != nil {
			a.Setup(s, a.session)
		}
	}
	a.session.OnEnter()
}

func (a *SessionApp) leave(api.Surface) {
	if a.session != nil {
		a.session.OnLeave()
	}
}

func (a *SessionApp) keypress(_ api.Surface, b api.Button) {
	if a.session != nil {
		a.session.HandleKeypress(b)
	}
}

func (a *SessionApp) teardown(s api.Surface) {
	if a.session != nil {
		a.session.OnLeave()
	}
	if a.Teardown != nil {
		a.Teardown(s)
	}
}
