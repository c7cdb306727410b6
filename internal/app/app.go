// internal/app/app.go

package app

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
	"sshMenu/internal/probe"
	"sshMenu/internal/ssh"
	"sshMenu/internal/ui"
)

// App łączy rejestr hostów, sondę, selektor i launcher w jeden przebieg:
// (menu → opcjonalne sondowanie → menu) → sesja → koniec
type App struct {
	Registry   *models.Registry
	ConfigPath string

	Chooser  ui.Chooser
	Prober   probe.Prober
	Launcher ssh.Launcher

	// Out dostaje komunikaty dla użytkownika i postęp sondowania
	Out io.Writer

	ProbeOnStart bool
	ListOnly     bool

	// RequireTTY (może być nil) jest wołane tylko wtedy, gdy menu zostanie
	// wyświetlone; błąd kończy przebieg
	RequireTTY func() error

	// SessionContext (może być nil) zastępuje ctx na czas sesji. Ctrl+C
	// należy wtedy do klienta ssh i nie powinno jej przerywać.
	SessionContext context.Context
}

// Run wykonuje jeden przebieg. alias (może być pusty) pomija menu.
// Brak hostów i brak wyboru nie są błędami.
func (a *App) Run(ctx context.Context, alias string) error {
	if a.Registry.Len() == 0 {
		fmt.Fprintf(a.Out, "No hosts found in %s\n", a.ConfigPath)
		return nil
	}
	log.Debugf("loaded %d hosts from %s", a.Registry.Len(), a.ConfigPath)

	// Menu potrzebuje terminala; sprawdzane dopiero gdy wiadomo, że się pokaże
	if alias == "" && !a.ListOnly && a.RequireTTY != nil {
		if err := a.RequireTTY(); err != nil {
			return err
		}
	}

	reporter := ui.ProbeReporter(a.Out)

	if a.ProbeOnStart {
		summary := probe.ProbeAll(ctx, a.Registry, a.Prober, reporter)
		fmt.Fprintln(a.Out, ui.StatusStyle.Render(summary.String()))
		if s, ok := a.Chooser.(statusSetter); ok {
			s.SetStatus(summary.String())
		}
	}

	if a.ListOnly {
		fmt.Fprintln(a.Out, ui.RenderHostTable(a.Registry))
		return nil
	}

	if alias == "" {
		selected, ok := Select(ctx, a.Registry, a.Chooser, a.Prober, reporter)
		if !ok {
			fmt.Fprintln(a.Out, "No host selected")
			return nil
		}
		alias = selected
	}

	entry, ok := a.Registry.Get(alias)
	if !ok {
		return apperr.New(apperr.NotFoundError, fmt.Sprintf("host %q not found in %s", alias, a.ConfigPath), nil)
	}

	log.Debugf("launching session to %s (%s)", entry.Alias, entry.Target())
	sessionCtx := ctx
	if a.SessionContext != nil {
		sessionCtx = a.SessionContext
	}
	return a.Launcher.Launch(sessionCtx, entry)
}
