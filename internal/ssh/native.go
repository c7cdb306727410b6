// internal/ssh/native.go

package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
	"sshMenu/internal/utils"
)

const (
	knownHostsFileName = "known_hosts"
	defaultDialTimeout = 10 * time.Second
	defaultKeepAlive   = 30 * time.Second
	defaultPort        = "22"
)

// PortResolver podaje port dla aliasu
type PortResolver interface {
	Port(alias string) string
}

// NativeLauncher otwiera sesję przez golang.org/x/crypto/ssh zamiast
// zewnętrznego klienta. Klucze hostów są sprawdzane z ~/.ssh/known_hosts
// i nic nie jest do tego pliku dopisywane.
type NativeLauncher struct {
	Resolver       PortResolver
	KnownHostsPath string
	DialTimeout    time.Duration
	KeepAlive      time.Duration
	TermType       string

	// agentSocket zwraca ścieżkę gniazda agenta; domyślnie SSH_AUTH_SOCK
	agentSocket func() string
}

func NewNativeLauncher(resolver PortResolver) *NativeLauncher {
	return &NativeLauncher{
		Resolver:       resolver,
		KnownHostsPath: defaultKnownHostsPath(),
		DialTimeout:    defaultDialTimeout,
		KeepAlive:      defaultKeepAlive,
		TermType:       os.Getenv("TERM"),
		agentSocket:    func() string { return os.Getenv("SSH_AUTH_SOCK") },
	}
}

func defaultKnownHostsPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".ssh", knownHostsFileName)
}

// ClientConfig buduje konfigurację klienta dla wpisu: użytkownik, metody
// uwierzytelnienia (klucz z IdentityFile, potem agent) i weryfikacja klucza hosta.
func (l *NativeLauncher) ClientConfig(entry *models.HostEntry) (*ssh.ClientConfig, func(), error) {
	username := entry.Username
	if username == "" {
		u, err := user.Current()
		if err != nil {
			return nil, nil, apperr.New(apperr.ConfigError, "cannot determine local user name", err)
		}
		username = u.Username
	}

	authMethods, cleanup := l.authMethods(entry)
	if len(authMethods) == 0 {
		cleanup()
		return nil, nil, apperr.New(apperr.ConnectionError,
			fmt.Sprintf("no usable key for %s (set IdentityFile or start ssh-agent)", entry.Alias), nil)
	}

	hostKeyCallback, err := l.hostKeyCallback()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	timeout := l.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	return &ssh.ClientConfig{
		User:            username,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, cleanup, nil
}

func (l *NativeLauncher) authMethods(entry *models.HostEntry) ([]ssh.AuthMethod, func()) {
	var methods []ssh.AuthMethod
	cleanup := func() {}

	if entry.IdentityFile != "" {
		signer, err := loadSigner(utils.LocalPath(entry.IdentityFile))
		if err != nil {
			log.Warnf("skipping identity file %s: %v", entry.IdentityFile, err)
		} else {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	if l.agentSocket != nil {
		if socket := l.agentSocket(); socket != "" {
			conn, err := net.Dial("unix", socket)
			if err != nil {
				log.Debugf("ssh-agent unavailable at %s: %v", socket, err)
			} else {
				agentClient := agent.NewClient(conn)
				methods = append(methods, ssh.PublicKeysCallback(agentClient.Signers))
				cleanup = func() { _ = conn.Close() }
			}
		}
	}

	return methods, cleanup
}

func loadSigner(path string) (ssh.Signer, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		var passErr *ssh.PassphraseMissingError
		if errors.As(err, &passErr) {
			return nil, fmt.Errorf("key is passphrase protected, load it into ssh-agent: %w", err)
		}
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	return signer, nil
}

func (l *NativeLauncher) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if l.KnownHostsPath == "" {
		return nil, apperr.New(apperr.ConfigError, "known_hosts path is not set", nil)
	}
	callback, err := knownhosts.New(l.KnownHostsPath)
	if err != nil {
		return nil, apperr.New(apperr.ConfigError,
			fmt.Sprintf("cannot load %s (connect once with ssh to record host keys)", l.KnownHostsPath), err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) {
			if len(keyErr.Want) > 0 {
				return fmt.Errorf("host key mismatch for %s (fingerprint %s): %w", hostname, ssh.FingerprintSHA256(key), err)
			}
			return fmt.Errorf("unknown host %s (fingerprint %s), connect once with ssh to verify it: %w", hostname, ssh.FingerprintSHA256(key), err)
		}
		return err
	}, nil
}

func (l *NativeLauncher) addr(entry *models.HostEntry) string {
	port := defaultPort
	if l.Resolver != nil {
		if p := l.Resolver.Port(entry.Alias); p != "" {
			port = p
		}
	}
	return net.JoinHostPort(entry.Hostname, port)
}

// Dial nawiązuje uwierzytelnione połączenie z hostem
func (l *NativeLauncher) Dial(ctx context.Context, entry *models.HostEntry) (*ssh.Client, error) {
	config, cleanup, err := l.ClientConfig(entry)
	if err != nil {
		return nil, err
	}

	addr := l.addr(entry)
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		cleanup()
		return nil, apperr.New(apperr.ConnectionError, fmt.Sprintf("failed to connect to %s", addr), err)
	}

	_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		cleanup()
		return nil, apperr.New(apperr.ConnectionError, fmt.Sprintf("ssh handshake with %s failed", addr), err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(c, chans, reqs)
	// Agent jest potrzebny tylko do uwierzytelnienia
	cleanup()
	return client, nil
}

// Launch łączy się i prowadzi interaktywną powłokę do jej zakończenia
func (l *NativeLauncher) Launch(ctx context.Context, entry *models.HostEntry) error {
	client, err := l.Dial(ctx, entry)
	if err != nil {
		return err
	}

	session, err := NewSSHSession(client)
	if err != nil {
		_ = client.Close()
		return apperr.New(apperr.ConnectionError, "failed to open session", err)
	}
	defer session.Close()
	session.SetKeepAlive(l.KeepAlive)

	if err := session.ConfigureTerminal(l.TermType); err != nil {
		return apperr.New(apperr.ConnectionError, "failed to configure terminal", err)
	}
	err = session.StartShell()
	log.Debugf("native session to %s ended in state %s", entry.Alias, session.GetState())
	if err != nil {
		return apperr.New(apperr.ConnectionError, "shell error", err)
	}
	// Zerwane połączenie (np. brak odpowiedzi na keepalive) kończy Wait bez błędu
	if lastErr := session.GetLastError(); lastErr != nil {
		return apperr.New(apperr.ConnectionError, fmt.Sprintf("connection to %s lost", entry.Alias), lastErr)
	}
	return nil
}
