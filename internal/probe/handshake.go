package probe

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"sshMenu/internal/models"
	"sshMenu/internal/utils"
)

// Zapas ponad ConnectTimeout na uwierzytelnienie i zdalne "true"
const handshakeGrace = 2 * time.Second

// HandshakeProber uruchamia klienta ssh w trybie wsadowym, tylko z kluczami,
// z krótkim ConnectTimeout i pustym poleceniem zdalnym. Mierzy czas całego wywołania.
type HandshakeProber struct {
	runner  Runner
	binary  string
	timeout time.Duration
	now     func() time.Time
}

func NewHandshakeProber(runner Runner, binary string, timeout time.Duration) *HandshakeProber {
	if binary == "" {
		binary = "ssh"
	}
	return &HandshakeProber{
		runner:  runner,
		binary:  binary,
		timeout: timeout,
		now:     time.Now,
	}
}

// Args zwraca argumenty klienta ssh dla sondy
func (p *HandshakeProber) Args(entry *models.HostEntry) []string {
	connectTimeout := int(math.Ceil(p.timeout.Seconds()))
	if connectTimeout < 1 {
		connectTimeout = 1
	}

	args := []string{
		"-n",
		"-o", "BatchMode=yes",
		"-o", "PasswordAuthentication=no",
		"-o", "KbdInteractiveAuthentication=no",
		"-o", "PreferredAuthentications=publickey",
		"-o", fmt.Sprintf("ConnectTimeout=%d", connectTimeout),
	}
	if entry.IdentityFile != "" {
		args = append(args, "-i", utils.LocalPath(entry.IdentityFile))
	}
	return append(args, entry.Target(), "true")
}

func (p *HandshakeProber) Probe(ctx context.Context, entry *models.HostEntry) models.Latency {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout+handshakeGrace)
		defer cancel()
	}

	start := p.now()
	out, err := p.runner.Run(ctx, p.binary, p.Args(entry)...)
	elapsed := p.now().Sub(start)
	if err != nil {
		log.Debugf("ssh probe %s failed after %s: %v: %s", entry.Alias, elapsed.Round(time.Millisecond), err, out)
		return models.Unreachable()
	}
	return models.Measured(elapsed)
}
