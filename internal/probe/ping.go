package probe

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"sshMenu/internal/models"
)

// PingProber wysyła jedno echo ICMP zewnętrznym programem ping i odczytuje
// czas z jego wyjścia.
type PingProber struct {
	runner  Runner
	binary  string
	timeout time.Duration
	goos    string
}

func NewPingProber(runner Runner, binary string, timeout time.Duration) *PingProber {
	if binary == "" {
		binary = "ping"
	}
	return &PingProber{
		runner:  runner,
		binary:  binary,
		timeout: timeout,
		goos:    runtime.GOOS,
	}
}

func (p *PingProber) args(hostname string) []string {
	if p.goos == "windows" {
		return []string{"-n", "1", hostname}
	}
	return []string{"-c", "1", hostname}
}

func (p *PingProber) Probe(ctx context.Context, entry *models.HostEntry) models.Latency {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.runner.Run(ctx, p.binary, p.args(entry.Hostname)...)
	if err != nil {
		log.Debugf("ping %s failed: %v", entry.Hostname, err)
		return models.Unreachable()
	}

	d, ok := ParsePingTime(string(out))
	if !ok {
		log.Debugf("ping %s: no round-trip time in output", entry.Hostname)
		return models.Unreachable()
	}
	return models.Measured(d)
}

// ParsePingTime szuka znacznika time= (albo time< z Windows) i czyta liczbę
// do najbliższego białego znaku. Sufiks "ms" jest dopuszczalny.
func ParsePingTime(output string) (time.Duration, bool) {
	idx := strings.Index(output, "time=")
	if idx < 0 {
		idx = strings.Index(output, "time<")
	}
	if idx < 0 {
		return 0, false
	}

	rest := output[idx+len("time="):]
	if end := strings.IndexFunc(rest, isSpace); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSuffix(rest, "ms")

	ms, err := strconv.ParseFloat(rest, 64)
	if err != nil || ms < 0 {
		return 0, false
	}
	return time.Duration(math.Round(ms * float64(time.Millisecond))), true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
