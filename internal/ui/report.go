// internal/ui/report.go

package ui

import (
	"fmt"
	"io"

	"sshMenu/internal/models"
)

// ProbeReporter zwraca callback wypisujący wynik sondy dla każdego hosta
func ProbeReporter(w io.Writer) func(*models.HostEntry) {
	width := 0
	return func(entry *models.HostEntry) {
		if n := len(entry.Alias); n > width {
			width = n
		}
		fmt.Fprintf(w, "%s %-*s %s\n",
			ActionStyle.Render("⟳"),
			width, entry.Alias,
			LatencyStyle(entry.Latency).Render(entry.Latency.String()))
	}
}
