package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshMenu/internal/config"
	apperr "sshMenu/internal/error"
)

const sampleConfig = `Host web
  Hostname 10.0.0.5
  User deploy
  IdentityFile ~/.ssh/web.pem

Host db
  Hostname db.internal
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// baseArgs odcina testy od ustawień użytkownika
func baseArgs(t *testing.T, sshConfig string) []string {
	return []string{"--settings", filepath.Join(t.TempDir(), "missing.yaml"), "--ssh-config", sshConfig}
}

func TestParseFlagsPositionalAndPassthrough(t *testing.T) {
	opts, err := parseFlags([]string{"--print", "web", "--", "-L", "8080:localhost:80"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.True(t, opts.printOnly)
	assert.Equal(t, "web", opts.alias)
	assert.Equal(t, []string{"-L", "8080:localhost:80"}, opts.extraArgs)
}

func TestParseFlagsPassthroughWithoutAlias(t *testing.T) {
	opts, err := parseFlags([]string{"--", "uptime"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Empty(t, opts.alias)
	assert.Equal(t, []string{"uptime"}, opts.extraArgs)
}

func TestParseFlagsRejectsTwoAliases(t *testing.T) {
	_, err := parseFlags([]string{"web", "db"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"--bogus"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	settings := config.Defaults()
	settings.Probe.Strategy = config.ProbePing
	settings.Theme = 3

	opts, err := parseFlags([]string{"--probe-timeout", "750ms", "--no-refresh", "--native"}, &bytes.Buffer{})
	require.NoError(t, err)
	opts.applyFlags(&settings)

	assert.Equal(t, config.ProbePing, settings.Probe.Strategy, "unchanged flag keeps the settings value")
	assert.Equal(t, 3, settings.Theme)
	assert.Equal(t, 750*time.Millisecond, settings.Probe.Timeout)
	assert.False(t, settings.ShowRefresh)
	assert.True(t, settings.Native)
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "sshmenu dev\n", out.String())
}

func TestRunHelp(t *testing.T) {
	var errOut bytes.Buffer
	require.NoError(t, run([]string{"--help"}, &bytes.Buffer{}, &errOut))
	assert.Contains(t, errOut.String(), "--probe-timeout")
}

func TestRunList(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFile(t, "config", sampleConfig)

	require.NoError(t, run(append(baseArgs(t, cfg), "--list"), &out, &bytes.Buffer{}))

	for _, want := range []string{"web", "10.0.0.5", "deploy", "db.internal"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestRunPrintWithAlias(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFile(t, "config", sampleConfig)

	require.NoError(t, run(append(baseArgs(t, cfg), "--print", "web"), &out, &bytes.Buffer{}))
	assert.Equal(t, "deploy@10.0.0.5\n", out.String())
}

func TestRunEmptyConfig(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFile(t, "config", "# nothing here\n")

	require.NoError(t, run(append(baseArgs(t, cfg), "--list"), &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "No hosts found in "+cfg)
}

func TestRunMissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	err := run(append(baseArgs(t, missing), "--list"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRunUnknownAlias(t *testing.T) {
	cfg := writeFile(t, "config", sampleConfig)

	err := run(append(baseArgs(t, cfg), "--print", "ghost"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRunInvalidProbeStrategy(t *testing.T) {
	cfg := writeFile(t, "config", sampleConfig)

	err := run(append(baseArgs(t, cfg), "--probe", "carrier-pigeon", "--list"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// Pusty config kończy się przed menu, więc brak terminala nie ma znaczenia
func TestRunEmptyConfigWithoutList(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFile(t, "config", "# nothing here\n")

	require.NoError(t, run(baseArgs(t, cfg), &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "No hosts found in "+cfg)
}

func TestRunMissingConfigWithoutList(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	err := run(baseArgs(t, missing), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequireTTYRejectsRegularFile(t *testing.T) {
	f, err := os.Open(writeFile(t, "stdin", ""))
	require.NoError(t, err)
	defer f.Close()

	err = requireTTY(f)()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "interactive terminal")
}
