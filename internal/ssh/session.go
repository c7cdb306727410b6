// internal/ssh/session.go

package ssh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// SessionState reprezentuje stan sesji SSH
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

const defaultTermType = "xterm-256color"

// SSHSession reprezentuje aktywną, interaktywną sesję SSH
type SSHSession struct {
	client     *ssh.Client
	session    *ssh.Session
	state      SessionState
	lastError  error
	stdin      *os.File
	stdout     *os.File
	stderr     io.Writer
	termWidth  int
	termHeight int
	keepAlive  time.Duration
	stopChan   chan struct{}
	closeOnce  sync.Once
	stateMutex sync.RWMutex
}

// NewSSHSession tworzy nową sesję na istniejącym kliencie
func NewSSHSession(client *ssh.Client) (*SSHSession, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Pobierz aktualny rozmiar terminala
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24 // Wartości domyślne
	}

	return &SSHSession{
		client:     client,
		session:    session,
		state:      StateConnecting,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		termWidth:  width,
		termHeight: height,
		keepAlive:  30 * time.Second,
		stopChan:   make(chan struct{}),
	}, nil
}

// ConfigureTerminal żąda PTY o rozmiarze lokalnego terminala
func (s *SSHSession) ConfigureTerminal(termType string) error {
	if termType == "" {
		termType = defaultTermType
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}

	if err := s.session.RequestPty(termType, s.termHeight, s.termWidth, modes); err != nil {
		return fmt.Errorf("failed to request PTY: %w", err)
	}
	return nil
}

// StartShell uruchamia powłokę i blokuje do końca sesji.
// Terminal lokalny wraca do trybu sprzed sesji na każdej ścieżce wyjścia.
func (s *SSHSession) StartShell() error {
	s.session.Stdin = s.stdin
	s.session.Stdout = s.stdout
	s.session.Stderr = s.stderr

	fd := int(s.stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw terminal: %w", err)
		}
		defer func() {
			if err := term.Restore(fd, oldState); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to restore terminal state: %v\n", err)
			}
		}()
	}

	go s.watchResize()
	if s.keepAlive > 0 {
		go s.keepAliveLoop()
	}

	if err := s.session.Shell(); err != nil {
		s.setError(err)
		return fmt.Errorf("failed to start shell: %w", err)
	}
	s.setState(StateConnected)

	err := s.session.Wait()
	s.setState(StateDisconnected)

	// Kod wyjścia zdalnej powłoki nie jest błędem uruchomienia sesji
	var exitErr *ssh.ExitError
	var missing *ssh.ExitMissingError
	if err == nil || errors.As(err, &exitErr) || errors.As(err, &missing) {
		return nil
	}
	return fmt.Errorf("session ended with error: %w", err)
}

func (s *SSHSession) updateTerminalSize() error {
	width, height, err := term.GetSize(int(s.stdout.Fd()))
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	// Sprawdź czy rozmiar rzeczywiście się zmienił
	if width == s.termWidth && height == s.termHeight {
		return nil
	}

	if err := s.session.WindowChange(height, width); err != nil {
		return fmt.Errorf("failed to update window size: %w", err)
	}

	s.termWidth = width
	s.termHeight = height
	return nil
}

// keepAliveLoop wysyła pakiety keepalive
func (s *SSHSession) keepAliveLoop() {
	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, _, err := s.client.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				s.setError(fmt.Errorf("keepalive failed: %w", err))
				s.Close()
				return
			}
		case <-s.stopChan:
			return
		}
	}
}

// Close zamyka sesję i klienta
func (s *SSHSession) Close() error {
	var errs []string

	s.closeOnce.Do(func() {
		close(s.stopChan)

		if err := s.session.Close(); err != nil && !errors.Is(err, io.EOF) {
			errs = append(errs, fmt.Sprintf("session close error: %v", err))
		}
		if err := s.client.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("client close error: %v", err))
		}
		s.setState(StateDisconnected)
	})

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s *SSHSession) setState(state SessionState) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.state = state
}

func (s *SSHSession) setError(err error) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.lastError = err
	s.state = StateError
}

// GetState zwraca aktualny stan sesji
func (s *SSHSession) GetState() SessionState {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.state
}

// GetLastError zwraca ostatni błąd
func (s *SSHSession) GetLastError() error {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.lastError
}

// SetKeepAlive ustawia interwał keepalive (0 wyłącza)
func (s *SSHSession) SetKeepAlive(duration time.Duration) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	s.keepAlive = duration
}
