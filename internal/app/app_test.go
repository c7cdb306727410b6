package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
	"sshMenu/internal/probe"
	"sshMenu/internal/ui"
)

// scriptedChooser zwraca kolejne zaplanowane wybory i zapisuje stan
// rejestru widziany przy każdym wyświetleniu
type scriptedChooser struct {
	choices []ui.Choice
	err     error
	calls   int
	seen    []map[string]models.Latency
	status  string
}

func (c *scriptedChooser) Choose(registry *models.Registry) (ui.Choice, error) {
	c.calls++
	snapshot := make(map[string]models.Latency)
	for _, e := range registry.Sorted() {
		snapshot[e.Alias] = e.Latency
	}
	c.seen = append(c.seen, snapshot)

	if c.err != nil {
		return ui.Abort(), c.err
	}
	if len(c.choices) == 0 {
		return ui.Abort(), nil
	}
	next := c.choices[0]
	c.choices = c.choices[1:]
	return next, nil
}

func (c *scriptedChooser) SetStatus(status string) {
	c.status = status
}

type countingProber struct {
	calls   int
	latency models.Latency
}

func (p *countingProber) Probe(ctx context.Context, entry *models.HostEntry) models.Latency {
	p.calls++
	return p.latency
}

type recordingLauncher struct {
	launched []string
	ctxErrs  []error
	err      error
}

func (l *recordingLauncher) Launch(ctx context.Context, entry *models.HostEntry) error {
	l.launched = append(l.launched, entry.Alias)
	l.ctxErrs = append(l.ctxErrs, ctx.Err())
	return l.err
}

// ttyCheck liczy wywołania i zwraca zadany błąd
type ttyCheck struct {
	calls int
	err   error
}

func (c *ttyCheck) check() error {
	c.calls++
	return c.err
}

func newRegistry(aliases ...string) *models.Registry {
	reg := models.NewRegistry()
	for _, alias := range aliases {
		reg.Add(models.NewHostEntry(alias))
	}
	return reg
}

func TestSelectReturnsChosenHost(t *testing.T) {
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Host("beta")}}
	prober := &countingProber{}

	alias, ok := Select(context.Background(), newRegistry("alpha", "beta"), chooser, prober, nil)

	assert.True(t, ok)
	assert.Equal(t, "beta", alias)
	assert.Equal(t, 1, chooser.calls)
	assert.Zero(t, prober.calls, "no probing without an explicit refresh")
}

func TestSelectRefreshRedisplaysWithLatencies(t *testing.T) {
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Refresh(), ui.Refresh(), ui.Host("alpha")}}
	prober := &countingProber{latency: models.Measured(12 * time.Millisecond)}

	var reported []string
	onResult := func(e *models.HostEntry) { reported = append(reported, e.Alias) }

	alias, ok := Select(context.Background(), newRegistry("alpha", "beta"), chooser, prober, onResult)

	require.True(t, ok)
	assert.Equal(t, "alpha", alias)
	assert.Equal(t, 3, chooser.calls)
	assert.Equal(t, 4, prober.calls)
	assert.Equal(t, []string{"alpha", "beta", "alpha", "beta"}, reported)

	assert.Equal(t, models.Unprobed(), chooser.seen[0]["alpha"])
	assert.Equal(t, models.Measured(12*time.Millisecond), chooser.seen[1]["alpha"])
	assert.Contains(t, chooser.status, "2/2 hosts reachable")
}

func TestSelectRefreshWithUnreachableHosts(t *testing.T) {
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Refresh(), ui.Host("alpha")}}
	prober := &countingProber{latency: models.Unreachable()}

	alias, ok := Select(context.Background(), newRegistry("alpha"), chooser, prober, nil)

	require.True(t, ok)
	assert.Equal(t, "alpha", alias)
	assert.Equal(t, models.Unreachable(), chooser.seen[1]["alpha"])
	assert.Contains(t, chooser.status, "0/1 hosts reachable")
}

func TestSelectAbort(t *testing.T) {
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Abort()}}

	alias, ok := Select(context.Background(), newRegistry("alpha"), chooser, &countingProber{}, nil)

	assert.False(t, ok)
	assert.Empty(t, alias)
}

func TestSelectChooserErrorIsNoSelection(t *testing.T) {
	chooser := &scriptedChooser{err: errors.New("terminal went away")}

	alias, ok := Select(context.Background(), newRegistry("alpha"), chooser, &countingProber{}, nil)

	assert.False(t, ok)
	assert.Empty(t, alias)
}

func TestSelectIgnoresUnknownAlias(t *testing.T) {
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Host("ghost"), ui.Host("alpha")}}

	alias, ok := Select(context.Background(), newRegistry("alpha"), chooser, &countingProber{}, nil)

	assert.True(t, ok)
	assert.Equal(t, "alpha", alias)
	assert.Equal(t, 2, chooser.calls)
}

func TestSelectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Host("alpha")}}

	_, ok := Select(ctx, newRegistry("alpha"), chooser, &countingProber{}, nil)

	assert.False(t, ok)
	assert.Zero(t, chooser.calls)
}

func TestRunEmptyRegistryNeverShowsSelector(t *testing.T) {
	var out bytes.Buffer
	chooser := &scriptedChooser{}
	launcher := &recordingLauncher{}

	a := &App{
		Registry:   models.NewRegistry(),
		ConfigPath: "/home/ops/.ssh/config",
		Chooser:    chooser,
		Prober:     &countingProber{},
		Launcher:   launcher,
		Out:        &out,
	}

	require.NoError(t, a.Run(context.Background(), ""))
	assert.Zero(t, chooser.calls)
	assert.Empty(t, launcher.launched)
	assert.Contains(t, out.String(), "No hosts found in /home/ops/.ssh/config")
}

func TestRunLaunchesSelectedHost(t *testing.T) {
	var out bytes.Buffer
	launcher := &recordingLauncher{}

	a := &App{
		Registry: newRegistry("alpha", "beta"),
		Chooser:  &scriptedChooser{choices: []ui.Choice{ui.Refresh(), ui.Host("beta")}},
		Prober:   &countingProber{latency: models.Measured(5 * time.Millisecond)},
		Launcher: launcher,
		Out:      &out,
	}

	require.NoError(t, a.Run(context.Background(), ""))
	assert.Equal(t, []string{"beta"}, launcher.launched)
	assert.Contains(t, out.String(), "alpha")
}

func TestRunNoSelectionIsCleanExit(t *testing.T) {
	var out bytes.Buffer
	launcher := &recordingLauncher{}

	a := &App{
		Registry: newRegistry("alpha"),
		Chooser:  &scriptedChooser{choices: []ui.Choice{ui.Abort()}},
		Prober:   &countingProber{},
		Launcher: launcher,
		Out:      &out,
	}

	require.NoError(t, a.Run(context.Background(), ""))
	assert.Empty(t, launcher.launched)
	assert.Contains(t, out.String(), "No host selected")
}

func TestRunWithAliasSkipsSelector(t *testing.T) {
	chooser := &scriptedChooser{}
	launcher := &recordingLauncher{}

	a := &App{
		Registry: newRegistry("alpha", "beta"),
		Chooser:  chooser,
		Prober:   &countingProber{},
		Launcher: launcher,
		Out:      &bytes.Buffer{},
	}

	require.NoError(t, a.Run(context.Background(), "alpha"))
	assert.Zero(t, chooser.calls)
	assert.Equal(t, []string{"alpha"}, launcher.launched)
}

func TestRunUnknownAlias(t *testing.T) {
	a := &App{
		Registry:   newRegistry("alpha"),
		ConfigPath: "cfg",
		Chooser:    &scriptedChooser{},
		Prober:     &countingProber{},
		Launcher:   &recordingLauncher{},
		Out:        &bytes.Buffer{},
	}

	err := a.Run(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestRunPropagatesLauncherError(t *testing.T) {
	launchErr := apperr.New(apperr.ProcessError, "ssh session failed", errors.New("exec: not found"))
	a := &App{
		Registry: newRegistry("alpha"),
		Chooser:  &scriptedChooser{choices: []ui.Choice{ui.Host("alpha")}},
		Prober:   &countingProber{},
		Launcher: &recordingLauncher{err: launchErr},
		Out:      &bytes.Buffer{},
	}

	err := a.Run(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrProcess)
}

func TestRunProbeOnStartAndList(t *testing.T) {
	var out bytes.Buffer
	prober := &countingProber{latency: models.Measured(80 * time.Millisecond)}
	chooser := &scriptedChooser{}
	launcher := &recordingLauncher{}

	a := &App{
		Registry:     newRegistry("alpha", "beta"),
		Chooser:      chooser,
		Prober:       prober,
		Launcher:     launcher,
		Out:          &out,
		ProbeOnStart: true,
		ListOnly:     true,
	}

	require.NoError(t, a.Run(context.Background(), ""))
	assert.Equal(t, 2, prober.calls)
	assert.Zero(t, chooser.calls)
	assert.Empty(t, launcher.launched)
	assert.Contains(t, out.String(), "80 ms")
	assert.Contains(t, out.String(), "2/2 hosts reachable")
	assert.Contains(t, chooser.status, "2/2 hosts reachable")
}

// Zawsze nieudana sonda daje "unreachable" dla każdego hosta, bez paniki
func TestRunAlwaysFailingProbe(t *testing.T) {
	failing := probe.ProberFunc(func(ctx context.Context, e *models.HostEntry) models.Latency {
		return models.Unreachable()
	})
	reg := newRegistry("alpha", "beta", "gamma")

	a := &App{
		Registry: reg,
		Chooser:  &scriptedChooser{choices: []ui.Choice{ui.Refresh()}},
		Prober:   failing,
		Launcher: &recordingLauncher{},
		Out:      &bytes.Buffer{},
	}

	require.NoError(t, a.Run(context.Background(), ""))
	for _, e := range reg.Sorted() {
		assert.Equal(t, models.Unreachable(), e.Latency, e.Alias)
	}
}

func TestRunEmptyRegistrySkipsTerminalCheck(t *testing.T) {
	var out bytes.Buffer
	tty := &ttyCheck{err: apperr.New(apperr.ValidationError, "an interactive terminal is required", nil)}

	a := &App{
		Registry:   models.NewRegistry(),
		ConfigPath: "cfg",
		Chooser:    &scriptedChooser{},
		Prober:     &countingProber{},
		Launcher:   &recordingLauncher{},
		Out:        &out,
		RequireTTY: tty.check,
	}

	require.NoError(t, a.Run(context.Background(), ""))
	assert.Zero(t, tty.calls)
	assert.Contains(t, out.String(), "No hosts found in cfg")
}

func TestRunTerminalCheckBeforeMenu(t *testing.T) {
	tty := &ttyCheck{err: apperr.New(apperr.ValidationError, "an interactive terminal is required", nil)}
	chooser := &scriptedChooser{choices: []ui.Choice{ui.Host("alpha")}}
	prober := &countingProber{}

	a := &App{
		Registry:     newRegistry("alpha"),
		Chooser:      chooser,
		Prober:       prober,
		Launcher:     &recordingLauncher{},
		Out:          &bytes.Buffer{},
		ProbeOnStart: true,
		RequireTTY:   tty.check,
	}

	err := a.Run(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 1, tty.calls)
	assert.Zero(t, chooser.calls)
	assert.Zero(t, prober.calls, "no probing when the menu cannot be shown")
}

func TestRunTerminalCheckSkippedWithoutMenu(t *testing.T) {
	tty := &ttyCheck{err: errors.New("no terminal")}

	withAlias := &App{
		Registry:   newRegistry("alpha"),
		Chooser:    &scriptedChooser{},
		Prober:     &countingProber{},
		Launcher:   &recordingLauncher{},
		Out:        &bytes.Buffer{},
		RequireTTY: tty.check,
	}
	require.NoError(t, withAlias.Run(context.Background(), "alpha"))

	listOnly := &App{
		Registry:   newRegistry("alpha"),
		Chooser:    &scriptedChooser{},
		Prober:     &countingProber{},
		Launcher:   &recordingLauncher{},
		Out:        &bytes.Buffer{},
		ListOnly:   true,
		RequireTTY: tty.check,
	}
	require.NoError(t, listOnly.Run(context.Background(), ""))

	assert.Zero(t, tty.calls)
}

func TestRunSessionContextOutlivesSelectionContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	launcher := &recordingLauncher{}

	a := &App{
		Registry:       newRegistry("alpha"),
		Chooser:        &scriptedChooser{},
		Prober:         &countingProber{},
		Launcher:       launcher,
		Out:            &bytes.Buffer{},
		SessionContext: context.Background(),
	}

	require.NoError(t, a.Run(ctx, "alpha"))
	require.Len(t, launcher.ctxErrs, 1)
	assert.NoError(t, launcher.ctxErrs[0])
}
