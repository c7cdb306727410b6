// internal/app/select.go

package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"sshMenu/internal/models"
	"sshMenu/internal/probe"
	"sshMenu/internal/ui"
)

// statusSetter jest opcjonalną możliwością selektora: pokazanie wyniku
// ostatniego odświeżenia pod listą
type statusSetter interface {
	SetStatus(status string)
}

// Select wyświetla menu, aż użytkownik wybierze hosta albo je zamknie.
// Wybór "odśwież" sonduje wszystkie hosty i wyświetla menu ponownie.
// Błąd selektora oznacza brak wyboru. Zwraca alias i true dla wybranego hosta.
func Select(ctx context.Context, registry *models.Registry, chooser ui.Chooser, prober probe.Prober, onResult func(*models.HostEntry)) (string, bool) {
	for {
		if ctx.Err() != nil {
			return "", false
		}

		choice, err := chooser.Choose(registry)
		if err != nil {
			log.Warnf("selection aborted: %v", err)
			return "", false
		}

		switch choice.Kind {
		case ui.ChoiceRefresh:
			summary := probe.ProbeAll(ctx, registry, prober, onResult)
			log.Debugf("refresh finished: %s", summary)
			if s, ok := chooser.(statusSetter); ok {
				s.SetStatus(summary.String())
			}
		case ui.ChoiceHost:
			if _, ok := registry.Get(choice.Alias); !ok {
				// Selektor zwrócił alias spoza rejestru, pokaż menu jeszcze raz
				log.Warnf("unknown host %q selected", choice.Alias)
				continue
			}
			return choice.Alias, true
		default:
			return "", false
		}
	}
}
