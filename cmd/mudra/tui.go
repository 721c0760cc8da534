package main

import (
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/app"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	arrowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Messages from the frame loop
type statusMsg app.Status
type closedMsg struct{}

type statusModel struct {
	mode    string
	updates <-chan app.Status
	toggle  func(enabled bool)
	status  app.Status
	seen    bool
	enabled bool
	width   int
}

func newStatusModel(mode string, updates <-chan app.Status, toggle func(bool)) statusModel {
	return statusModel{
		mode:    mode,
		updates: updates,
		toggle:  toggle,
		enabled: true,
	}
}

func waitForStatus(updates <-chan app.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return statusMsg(status)
	}
}

func (m statusModel) Init() tea.Cmd {
	return waitForStatus(m.updates)
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "e":
			m.enabled = !m.enabled
			if m.toggle != nil {
				m.toggle(m.enabled)
			}
		}

	case statusMsg:
		m.status = app.Status(msg)
		m.seen = true
		return m, waitForStatus(m.updates)

	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mudra · " + m.mode))
	b.WriteString("\n\n")

	var rows []string
	if m.enabled {
		rows = append(rows, row("detection", onStyle.Render("enabled")))
	} else {
		rows = append(rows, row("detection", offStyle.Render("disabled")))
	}

	if !m.seen {
		rows = append(rows, row("camera", "waiting for frames…"))
	} else {
		s := m.status
		hand := "none"
		if s.Hand {
			hand = s.Fingers
		}
		rows = append(rows,
			row("fps", fmt.Sprintf("%.1f", s.FPS)),
			row("hand", hand),
			row("gesture", s.Gesture),
		)
		rows = append(rows, m.modeRows()...)
		if s.LastEvent != nil {
			rows = append(rows, row("last", s.LastEvent.String()))
		}
	}

	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: toggle detection · q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m statusModel) modeRows() []string {
	s := m.status
	switch {
	case s.Volume != nil:
		state := s.Volume.Status
		if s.Volume.State == "locked" {
			state = lockedStyle.Render(state)
		}
		return []string{
			row("volume", fmt.Sprintf("%s %3.0f%%", volumeBar(s.Volume.Percent), s.Volume.Percent)),
			row("state", state),
		}
	case s.Cursor != nil:
		return []string{row("cursor", fmt.Sprintf("%.0f, %.0f", s.Cursor.X, s.Cursor.Y))}
	case s.Mode == "arrows":
		label := "-"
		if s.Direction != "" {
			label = arrowStyle.Render(strings.ToUpper(s.Direction))
		}
		return []string{row("arrow", label)}
	}
	return nil
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
}

// volumeBar renders percent (0 to 100) as a fixed-width bar.
func volumeBar(percent float64) string {
	filled := int(percent/100*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return barStyle.Render(strings.Repeat("█", filled)) + labelStyle.Render(strings.Repeat("░", barWidth-filled))
}
