// Package sshconfig odczytuje plik konfiguracyjny klienta SSH (~/.ssh/config)
// i buduje z niego rejestr hostów.
//
// Rozpoznawane są tylko cztery dyrektywy: Host, Hostname, User i IdentityFile.
// Dopasowanie jest dosłowne, po prefiksie przyciętej linii, z rozróżnieniem
// wielkości liter. Cała reszta składni jest ignorowana.
package sshconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
)

const (
	DefaultConfigDir      = ".ssh"
	DefaultConfigFileName = "config"
)

const (
	hostDirective         = "Host "
	hostnameDirective     = "Hostname "
	userDirective         = "User "
	identityFileDirective = "IdentityFile "
)

// DefaultPath zwraca ścieżkę ~/.ssh/config
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", apperr.New(apperr.NotFoundError, "home directory not found", err)
	}
	if homeDir == "" {
		return "", apperr.New(apperr.NotFoundError, "home directory not found", nil)
	}
	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFileName), nil
}

// Parse wczytuje plik spod path. Brak pliku to NotFoundError, każdy inny
// problem z odczytem to IOError.
func Parse(path string) (*models.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.NotFoundError, fmt.Sprintf("ssh config %s not found", path), err)
		}
		return nil, apperr.New(apperr.IOError, fmt.Sprintf("cannot open ssh config %s", path), err)
	}
	defer f.Close()

	registry, err := ParseReader(f)
	if err != nil {
		return nil, apperr.New(apperr.IOError, fmt.Sprintf("cannot read ssh config %s", path), err)
	}
	return registry, nil
}

// ParseReader buduje rejestr z dowolnego strumienia. Długość linii nie
// jest ograniczona: długie komentarze czy ProxyCommand są po prostu pomijane.
func ParseReader(r io.Reader) (*models.Registry, error) {
	p := &lineParser{registry: models.NewRegistry()}

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			p.feed(strings.TrimSpace(raw))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return p.registry, nil
}

type lineParser struct {
	registry *models.Registry
	current  *models.HostEntry
}

func (p *lineParser) feed(line string) {
	switch {
	case strings.HasPrefix(line, hostDirective):
		alias := strings.TrimSpace(strings.TrimPrefix(line, hostDirective))
		if alias == "" {
			p.current = nil
			return
		}
		// Powtórzony alias zaczyna od zera, bez łączenia z poprzednim blokiem
		p.current = models.NewHostEntry(alias)
		p.registry.Add(p.current)

	case p.current == nil:
		// Dyrektywy przed pierwszym blokiem Host nie mają do czego trafić

	case strings.HasPrefix(line, hostnameDirective):
		if value := directiveValue(line, hostnameDirective); value != "" {
			p.current.Hostname = value
		}

	case strings.HasPrefix(line, userDirective):
		p.current.Username = directiveValue(line, userDirective)

	case strings.HasPrefix(line, identityFileDirective):
		p.current.IdentityFile = directiveValue(line, identityFileDirective)
	}
}

func directiveValue(line, directive string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, directive))
}
