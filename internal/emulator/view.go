package emulator

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const hiddenMessage = "menu hidden, press m"

// View implements tea.Model.
func (m *Model) View() string {
	parts := []string{
		styles.Frame.Render(m.screenView()),
		m.statusLine(),
	}
	if m.lastErr != "" {
		parts = append(parts, styles.Error.Render(m.fit(m.lastErr)))
	}
	parts = append(parts, styles.Help.Render(m.fit(m.keys.help())))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) screenView() string {
	if m.host.Active() {
		return m.screen.View()
	}
	cols, rows := m.screen.Size()
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, styles.StatusOff.Render(hiddenMessage))
}

func (m *Model) statusLine() string {
	size := fmt.Sprintf("%dx%d", m.host.ScreenWidth(), m.host.ScreenHeight())
	if !m.host.Active() {
		return styles.StatusOff.Render("off") + styles.Status.Render("  "+size)
	}
	name := "-"
	if idx, ok := m.host.ActiveApp(); ok {
		if apps := m.host.Apps(); idx < len(apps) {
			name = apps[idx].Name
		}
	}
	return styles.StatusApp.Render(name) + styles.Status.Render("  "+size)
}

func (m *Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width), "…")
}
