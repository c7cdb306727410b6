// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/utils"
)

const (
	DefaultSettingsFileName = "settings.yaml"
	DefaultConfigDir        = ".config/sshmenu"
	DefaultSSHBinary        = "ssh"
	DefaultPingBinary       = "ping"
	DefaultProbeTimeout     = 3 * time.Second
	EnvPrefix               = "SSHMENU_"
)

// Strategie sondy
const (
	ProbeSSH    = "ssh"
	ProbePing   = "ping"
	ProbeNative = "native"
)

// ProbeSettings opisuje sposób mierzenia opóźnień
type ProbeSettings struct {
	Strategy string        `yaml:"strategy"`
	Timeout  time.Duration `yaml:"timeout"`
	OnStart  bool          `yaml:"on_start"`
}

// Settings to ustawienia narzędzia (nie mylić z ~/.ssh/config)
type Settings struct {
	SSHConfig   string        `yaml:"ssh_config"`
	SSHBinary   string        `yaml:"ssh_binary"`
	PingBinary  string        `yaml:"ping_binary"`
	Probe       ProbeSettings `yaml:"probe"`
	Theme       int           `yaml:"theme"`
	ShowRefresh bool          `yaml:"show_refresh"`
	Native      bool          `yaml:"native"`
}

// Defaults zwraca ustawienia domyślne
func Defaults() Settings {
	return Settings{
		SSHBinary:  DefaultSSHBinary,
		PingBinary: DefaultPingBinary,
		Probe: ProbeSettings{
			Strategy: ProbeSSH,
			Timeout:  DefaultProbeTimeout,
		},
		ShowRefresh: true,
	}
}

// Validate sprawdza poprawność ustawień
func (s Settings) Validate() error {
	switch s.Probe.Strategy {
	case ProbeSSH, ProbePing, ProbeNative:
	default:
		return apperr.New(apperr.ValidationError,
			fmt.Sprintf("unknown probe strategy %q (want %s, %s or %s)", s.Probe.Strategy, ProbeSSH, ProbePing, ProbeNative), nil)
	}
	if s.Probe.Timeout <= 0 {
		return apperr.New(apperr.ValidationError, fmt.Sprintf("probe timeout must be positive, got %s", s.Probe.Timeout), nil)
	}
	if s.SSHBinary == "" {
		return apperr.New(apperr.ValidationError, "ssh binary cannot be empty", nil)
	}
	return nil
}

type Manager struct {
	settingsPath string
	settings     Settings
	getenv       func(string) string
}

// NewManager tworzy nowego menedżera ustawień
func NewManager(settingsPath string) *Manager {
	if settingsPath == "" {
		defaultPath, err := GetDefaultSettingsPath()
		if err == nil {
			settingsPath = defaultPath
		} else {
			// Bez katalogu domowego zostaje bieżący katalog
			settingsPath = DefaultSettingsFileName
		}
	}

	return &Manager{
		settingsPath: settingsPath,
		settings:     Defaults(),
		getenv:       os.Getenv,
	}
}

// Load wczytuje ustawienia z pliku, a potem nakłada zmienne środowiskowe.
// Brak pliku nie jest błędem; plik nigdy nie jest tworzony ani zapisywany.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.settingsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Zostają wartości domyślne
	case err != nil:
		return apperr.New(apperr.ConfigError, fmt.Sprintf("failed to read settings file %s", m.settingsPath), err)
	default:
		if err := yaml.Unmarshal(data, &m.settings); err != nil {
			return apperr.New(apperr.ConfigError, fmt.Sprintf("failed to parse settings file %s", m.settingsPath), err)
		}
	}

	return m.applyEnv()
}

func (m *Manager) applyEnv() error {
	// SSH_CONFIG jest honorowane tak jak w innych narzędziach tego typu
	if v := m.getenv("SSH_CONFIG"); v != "" {
		m.settings.SSHConfig = v
	}
	if v := m.env("SSH_CONFIG"); v != "" {
		m.settings.SSHConfig = v
	}
	if v := m.env("SSH_BINARY"); v != "" {
		m.settings.SSHBinary = v
	}
	if v := m.env("PING_BINARY"); v != "" {
		m.settings.PingBinary = v
	}
	if v := m.env("PROBE"); v != "" {
		m.settings.Probe.Strategy = strings.ToLower(v)
	}
	if v := m.env("PROBE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperr.New(apperr.ConfigError, fmt.Sprintf("invalid %sPROBE_TIMEOUT", EnvPrefix), err)
		}
		m.settings.Probe.Timeout = d
	}
	if v := m.env("THEME"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.New(apperr.ConfigError, fmt.Sprintf("invalid %sTHEME", EnvPrefix), err)
		}
		m.settings.Theme = n
	}
	return nil
}

func (m *Manager) env(key string) string {
	return m.getenv(EnvPrefix + key)
}

// Settings zwraca wskaźnik, żeby flagi mogły nadpisać wartości
func (m *Manager) Settings() *Settings {
	return &m.settings
}

func (m *Manager) GetSettingsPath() string {
	return m.settingsPath
}

// SSHConfigPath zwraca ścieżkę do ~/.ssh/config albo wartość z ustawień
func (m *Manager) SSHConfigPath(defaultPath func() (string, error)) (string, error) {
	if m.settings.SSHConfig != "" {
		return utils.ExpandHome(m.settings.SSHConfig), nil
	}
	return defaultPath()
}

func GetDefaultSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDir, DefaultSettingsFileName), nil
}
