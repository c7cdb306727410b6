// internal/models/host.go

package models

import (
	"fmt"
	"sort"
	"time"
)

// HostEntry to pojedynczy blok Host z konfiguracji klienta SSH
type HostEntry struct {
	Alias        string
	Hostname     string
	Username     string
	IdentityFile string
	Latency      Latency
}

// NewHostEntry tworzy wpis, w którym hostname domyślnie równa się aliasowi
func NewHostEntry(alias string) *HostEntry {
	return &HostEntry{
		Alias:    alias,
		Hostname: alias,
	}
}

// Target zwraca cel połączenia w postaci user@hostname albo samego hostname
func (h *HostEntry) Target() string {
	if h.Username != "" {
		return fmt.Sprintf("%s@%s", h.Username, h.Hostname)
	}
	return h.Hostname
}

// Registry mapuje alias na wpis hosta. Budowany od nowa przy każdym uruchomieniu.
type Registry struct {
	hosts map[string]*HostEntry
}

func NewRegistry() *Registry {
	return &Registry{hosts: make(map[string]*HostEntry)}
}

// Add wstawia wpis; powtórzony alias zastępuje poprzedni w całości
func (r *Registry) Add(entry *HostEntry) {
	if entry.Hostname == "" {
		entry.Hostname = entry.Alias
	}
	r.hosts[entry.Alias] = entry
}

func (r *Registry) Get(alias string) (*HostEntry, bool) {
	entry, ok := r.hosts[alias]
	return entry, ok
}

func (r *Registry) Len() int {
	return len(r.hosts)
}

// SortedAliases zwraca aliasy posortowane rosnąco
func (r *Registry) SortedAliases() []string {
	aliases := make([]string, 0, len(r.hosts))
	for alias := range r.hosts {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Sorted zwraca wpisy w kolejności aliasów
func (r *Registry) Sorted() []*HostEntry {
	aliases := r.SortedAliases()
	entries := make([]*HostEntry, 0, len(aliases))
	for _, alias := range aliases {
		entries = append(entries, r.hosts[alias])
	}
	return entries
}

// SetLatency zapisuje wynik pomiaru; nieznany alias jest ignorowany
func (r *Registry) SetLatency(alias string, latency Latency) bool {
	entry, ok := r.hosts[alias]
	if !ok {
		return false
	}
	entry.Latency = latency
	return true
}

// LatencyState rozróżnia "nie mierzono", "nieosiągalny" i "zmierzono"
type LatencyState int

const (
	LatencyUnprobed LatencyState = iota
	LatencyUnreachable
	LatencyMeasured
)

// Latency to wynik sondy dla jednego hosta
type Latency struct {
	State    LatencyState
	Duration time.Duration
}

func Unprobed() Latency {
	return Latency{State: LatencyUnprobed}
}

func Unreachable() Latency {
	return Latency{State: LatencyUnreachable}
}

func Measured(d time.Duration) Latency {
	return Latency{State: LatencyMeasured, Duration: d}
}

func (l Latency) IsMeasured() bool {
	return l.State == LatencyMeasured
}

// Milliseconds zwraca pomiar w ms; false gdy pomiaru brak
func (l Latency) Milliseconds() (float64, bool) {
	if l.State != LatencyMeasured {
		return 0, false
	}
	return float64(l.Duration) / float64(time.Millisecond), true
}

func (l Latency) String() string {
	switch l.State {
	case LatencyUnreachable:
		return "unreachable"
	case LatencyMeasured:
		ms, _ := l.Milliseconds()
		if ms < 10 {
			return fmt.Sprintf("%.1f ms", ms)
		}
		return fmt.Sprintf("%.0f ms", ms)
	default:
		return "—"
	}
}
