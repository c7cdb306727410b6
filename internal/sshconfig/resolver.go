package sshconfig

import (
	"os"
	"strings"

	"github.com/kevinburke/ssh_config"
	log "github.com/sirupsen/logrus"
)

const DefaultPort = "22"

// Resolver odpowiada na pytania o dyrektywy, których parser celowo nie czyta.
// Używany tylko przez natywne sondy i natywny launcher, które same wybierają port.
type Resolver struct {
	cfg *ssh_config.Config
}

// NewResolver dekoduje plik przez ssh_config. Błąd dekodowania nie jest
// krytyczny: resolver zwraca wtedy wartości domyślne.
func NewResolver(path string) *Resolver {
	f, err := os.Open(path)
	if err != nil {
		log.Debugf("port resolver disabled: %v", err)
		return &Resolver{}
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		log.Warnf("cannot decode %s for port lookup, using port %s: %v", path, DefaultPort, err)
		return &Resolver{}
	}
	return &Resolver{cfg: cfg}
}

// Port zwraca port dla aliasu (domyślnie 22). Przy powtórzonym aliasie
// liczy się ostatni blok Host, tak jak w rejestrze; gdy ten blok nie ma
// własnego Port, obowiązuje zwykłe wyszukiwanie ssh_config (np. z Host *).
func (r *Resolver) Port(alias string) string {
	if r == nil || r.cfg == nil {
		return DefaultPort
	}
	if port := r.lastBlockValue(alias, "Port"); port != "" {
		return port
	}
	port, err := r.cfg.Get(alias, "Port")
	if err != nil || port == "" {
		return DefaultPort
	}
	return port
}

// lastBlockValue szuka klucza w ostatnim bloku, którego lista wzorców
// jest dosłownie równa aliasowi
func (r *Resolver) lastBlockValue(alias, key string) string {
	for i := len(r.cfg.Hosts) - 1; i >= 0; i-- {
		host := r.cfg.Hosts[i]
		if !blockNamed(host, alias) {
			continue
		}
		for _, node := range host.Nodes {
			if kv, ok := node.(*ssh_config.KV); ok && strings.EqualFold(kv.Key, key) {
				return strings.TrimSpace(kv.Value)
			}
		}
		return ""
	}
	return ""
}

func blockNamed(host *ssh_config.Host, alias string) bool {
	names := make([]string, 0, len(host.Patterns))
	for _, p := range host.Patterns {
		names = append(names, p.String())
	}
	return strings.Join(names, " ") == alias
}
