package probe

import (
	"context"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"sshMenu/internal/models"
)

const defaultPort = "22"

// NativeProber łączy się po TCP i prowadzi wymianę kluczy SSH do momentu,
// w którym serwer pokaże klucz hosta. Uwierzytelnienie nie jest potrzebne.
type NativeProber struct {
	resolver PortResolver
	timeout  time.Duration
	dialer   *net.Dialer
	now      func() time.Time
}

func NewNativeProber(resolver PortResolver, timeout time.Duration) *NativeProber {
	return &NativeProber{
		resolver: resolver,
		timeout:  timeout,
		dialer:   &net.Dialer{Timeout: timeout},
		now:      time.Now,
	}
}

func (p *NativeProber) port(alias string) string {
	if p.resolver == nil {
		return defaultPort
	}
	if port := p.resolver.Port(alias); port != "" {
		return port
	}
	return defaultPort
}

func (p *NativeProber) Probe(ctx context.Context, entry *models.HostEntry) models.Latency {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(entry.Hostname, p.port(entry.Alias))
	start := p.now()

	conn, err := p.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Debugf("native probe %s: dial %s: %v", entry.Alias, addr, err)
		return models.Unreachable()
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var (
		seen    bool
		elapsed time.Duration
	)
	user := entry.Username
	if user == "" {
		user = "probe"
	}
	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{},
		// Wystarczy nam moment otrzymania klucza; przerywamy handshake
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			elapsed = p.now().Sub(start)
			seen = true
			return errHostKeySeen
		},
		Timeout: p.timeout,
	}

	_, _, _, err = ssh.NewClientConn(conn, addr, config)
	if !seen {
		log.Debugf("native probe %s: handshake with %s: %v", entry.Alias, addr, err)
		return models.Unreachable()
	}
	return models.Measured(elapsed)
}

type hostKeySeenError struct{}

func (hostKeySeenError) Error() string { return "host key received" }

var errHostKeySeen error = hostKeySeenError{}
