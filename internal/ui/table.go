// internal/ui/table.go

package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"sshMenu/internal/models"
)

var hostTableHeaders = []string{"#", "Alias", "Hostname", "User", "Identity", "Latency"}

// HostRows zwraca wiersze tabeli hostów w kolejności aliasów
func HostRows(registry *models.Registry) [][]string {
	entries := registry.Sorted()
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		latency := ""
		if e.Latency.State != models.LatencyUnprobed {
			latency = e.Latency.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(i), e.Alias, e.Hostname, e.Username, e.IdentityFile, latency,
		})
	}
	return rows
}

// RenderHostTable renderuje rejestr jako tabelę lipgloss
func RenderHostTable(registry *models.Registry) string {
	entries := registry.Sorted()

	tableStyle := func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case row == -1: // Nagłówki
			return base.Foreground(Highlight).Bold(true)
		case col == 1:
			return base.Foreground(CurrentTheme().ItemColor)
		case col == 2:
			return base.Inherit(HostStyle)
		case col == 5 && row >= 0 && row < len(entries):
			return base.Inherit(LatencyStyle(entries[row].Latency))
		default:
			return base.Foreground(CurrentTheme().LabelColor)
		}
	}

	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		StyleFunc(tableStyle).
		Headers(hostTableHeaders...).
		Rows(HostRows(registry)...).
		Render()
}
