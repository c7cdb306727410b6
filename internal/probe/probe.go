// Package probe mierzy osiągalność hostów z rejestru.
//
// Sonda nigdy nie zwraca błędu: nieudany pomiar to models.Unreachable(),
// a host, którego nie sprawdzano, ma models.Unprobed(). Każde wywołanie
// ocenia host od nowa, wyniki porażek nie są zapamiętywane.
package probe

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"sshMenu/internal/config"
	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
)

// Prober wykonuje jeden ograniczony czasowo pomiar dla jednego hosta
type Prober interface {
	Probe(ctx context.Context, entry *models.HostEntry) models.Latency
}

// ProberFunc pozwala użyć zwykłej funkcji jako Prober
type ProberFunc func(ctx context.Context, entry *models.HostEntry) models.Latency

func (f ProberFunc) Probe(ctx context.Context, entry *models.HostEntry) models.Latency {
	return f(ctx, entry)
}

// PortResolver podaje port dla aliasu (używany przez sondę natywną)
type PortResolver interface {
	Port(alias string) string
}

// Summary podsumowuje jedno odświeżenie
type Summary struct {
	Probed    int
	Reachable int
	Elapsed   time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d hosts reachable (%s)", s.Reachable, s.Probed, s.Elapsed.Round(time.Millisecond))
}

// ProbeAll sprawdza wszystkie hosty po kolei, w kolejności aliasów, i zapisuje
// wyniki w rejestrze. onResult (może być nil) dostaje każdy wpis zaraz po pomiarze.
// Anulowany kontekst przerywa pętlę; niesprawdzone hosty zachowują poprzedni stan.
func ProbeAll(ctx context.Context, registry *models.Registry, prober Prober, onResult func(*models.HostEntry)) Summary {
	start := time.Now()
	var summary Summary

	for _, entry := range registry.Sorted() {
		if ctx.Err() != nil {
			log.Debugf("probing interrupted: %v", ctx.Err())
			break
		}

		latency := prober.Probe(ctx, entry)
		registry.SetLatency(entry.Alias, latency)
		summary.Probed++
		if latency.IsMeasured() {
			summary.Reachable++
		}
		log.Debugf("probe %s (%s): %s", entry.Alias, entry.Hostname, latency)

		if onResult != nil {
			onResult(entry)
		}
	}

	summary.Elapsed = time.Since(start)
	return summary
}

// New buduje sondę na podstawie ustawień
func New(settings config.Settings, resolver PortResolver) (Prober, error) {
	switch settings.Probe.Strategy {
	case config.ProbeSSH:
		return NewHandshakeProber(ExecRunner{}, settings.SSHBinary, settings.Probe.Timeout), nil
	case config.ProbePing:
		return NewPingProber(ExecRunner{}, settings.PingBinary, settings.Probe.Timeout), nil
	case config.ProbeNative:
		return NewNativeProber(resolver, settings.Probe.Timeout), nil
	default:
		return nil, apperr.New(apperr.ValidationError, fmt.Sprintf("unknown probe strategy %q", settings.Probe.Strategy), nil)
	}
}
