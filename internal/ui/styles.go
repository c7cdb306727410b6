// internal/ui/styles.go

package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"sshMenu/internal/models"
)

// Progi kolorowania opóźnień
const (
	FastLatency = 100 * time.Millisecond
	SlowLatency = 300 * time.Millisecond
)

var (
	// Kolory
	Subtle    lipgloss.Color
	Highlight lipgloss.Color
	Special   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color

	TitleStyle        lipgloss.Style
	SelectedItemStyle lipgloss.Style
	ItemStyle         lipgloss.Style
	ActionStyle       lipgloss.Style
	DescriptionStyle  lipgloss.Style
	HostStyle         lipgloss.Style
	LabelStyle        lipgloss.Style
	SuccessStyle      lipgloss.Style
	WarningStyle      lipgloss.Style
	ErrorStyle        lipgloss.Style
	StatusStyle       lipgloss.Style
)

func init() {
	updateStyles(themes[currentThemeIndex])
}

func updateStyles(theme Theme) {
	Subtle = theme.Subtle
	Highlight = theme.Highlight
	Special = theme.Special
	Warning = theme.Warning
	Error = theme.Error
	Border = theme.Border

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(Highlight).
		Bold(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(theme.ItemColor)

	ActionStyle = lipgloss.NewStyle().
		Foreground(Special).
		Italic(true)

	DescriptionStyle = lipgloss.NewStyle().
		Foreground(Subtle)

	HostStyle = lipgloss.NewStyle().
		Foreground(theme.HostColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(theme.LabelColor)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(Special).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	StatusStyle = lipgloss.NewStyle().
		Foreground(Subtle).
		Italic(true)
}

// LatencyStyle dobiera kolor do wyniku sondy
func LatencyStyle(latency models.Latency) lipgloss.Style {
	switch {
	case latency.State == models.LatencyUnreachable:
		return ErrorStyle
	case latency.State != models.LatencyMeasured:
		return DescriptionStyle
	case latency.Duration < FastLatency:
		return SuccessStyle
	case latency.Duration < SlowLatency:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// RenderLatency zwraca pokolorowany opis opóźnienia; pusty dla hostów
// jeszcze niesprawdzanych
func RenderLatency(latency models.Latency) string {
	if latency.State == models.LatencyUnprobed {
		return ""
	}
	return LatencyStyle(latency).Render(latency.String())
}
