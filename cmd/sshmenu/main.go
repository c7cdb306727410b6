package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	mterm "github.com/moby/term"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"sshMenu/internal/app"
	"sshMenu/internal/config"
	apperr "sshMenu/internal/error"
	"sshMenu/internal/probe"
	"sshMenu/internal/ssh"
	"sshMenu/internal/sshconfig"
	"sshMenu/internal/ui"
)

// Ustawiane przez -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options to wynik parsowania linii poleceń
type options struct {
	settingsPath string
	printOnly    bool
	listOnly     bool
	verbose      bool
	showVersion  bool
	showHelp     bool

	alias     string
	extraArgs []string

	flags *pflag.FlagSet
	set   flagValues
}

// flagValues trzyma wartości nadpisujące ustawienia
type flagValues struct {
	sshConfig    string
	sshBinary    string
	probe        string
	probeTimeout time.Duration
	probeOnStart bool
	noRefresh    bool
	native       bool
	theme        int
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("sshmenu", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sshmenu [flags] [alias] [-- ssh args...]\n\n")
		fs.PrintDefaults()
	}

	opts := &options{flags: fs}
	fs.StringVar(&opts.set.sshConfig, "ssh-config", "", "Path to the ssh config file (default ~/.ssh/config)")
	fs.StringVar(&opts.settingsPath, "settings", "", "Path to the settings file (default ~/.config/sshmenu/settings.yaml)")
	fs.StringVar(&opts.set.sshBinary, "ssh-binary", config.DefaultSSHBinary, "ssh client used for sessions and handshake probes")
	fs.StringVar(&opts.set.probe, "probe", config.ProbeSSH, "Probe strategy: ssh | ping | native")
	fs.DurationVar(&opts.set.probeTimeout, "probe-timeout", config.DefaultProbeTimeout, "Timeout for a single probe")
	fs.BoolVar(&opts.set.probeOnStart, "probe-on-start", false, "Probe all hosts before showing the menu")
	fs.BoolVar(&opts.set.noRefresh, "no-refresh", false, "Hide the refresh entry (the r key still works)")
	fs.BoolVar(&opts.set.native, "native", false, "Open the session with the built-in ssh client instead of the ssh binary")
	fs.IntVar(&opts.set.theme, "theme", 0, "Initial color theme index")
	fs.BoolVar(&opts.printOnly, "print", false, "Print the selected target instead of connecting")
	fs.BoolVarP(&opts.listOnly, "list", "l", false, "Print the host table and exit")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.showHelp = true
			return opts, nil
		}
		return nil, apperr.New(apperr.ValidationError, "invalid arguments", err)
	}

	positional := fs.Args()
	if dash := fs.ArgsLenAtDash(); dash >= 0 {
		opts.extraArgs = positional[dash:]
		positional = positional[:dash]
	}
	switch len(positional) {
	case 0:
	case 1:
		opts.alias = positional[0]
	default:
		return nil, apperr.New(apperr.ValidationError,
			fmt.Sprintf("expected at most one host alias, got %d (pass ssh arguments after --)", len(positional)), nil)
	}

	return opts, nil
}

// applyFlags nadpisuje ustawienia tylko flagami jawnie podanymi przez użytkownika
func (o *options) applyFlags(s *config.Settings) {
	changed := o.flags.Changed
	if changed("ssh-config") {
		s.SSHConfig = o.set.sshConfig
	}
	if changed("ssh-binary") {
		s.SSHBinary = o.set.sshBinary
	}
	if changed("probe") {
		s.Probe.Strategy = o.set.probe
	}
	if changed("probe-timeout") {
		s.Probe.Timeout = o.set.probeTimeout
	}
	if changed("probe-on-start") {
		s.Probe.OnStart = o.set.probeOnStart
	}
	if changed("no-refresh") {
		s.ShowRefresh = !o.set.noRefresh
	}
	if changed("native") {
		s.Native = o.set.native
	}
	if changed("theme") {
		s.Theme = o.set.theme
	}
}

func setupLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.showHelp {
		return nil
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "sshmenu %s\n", version)
		return nil
	}

	setupLogging(stderr, opts.verbose)

	manager := config.NewManager(opts.settingsPath)
	if err := manager.Load(); err != nil {
		return err
	}
	settings := manager.Settings()
	opts.applyFlags(settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	log.Debugf("settings loaded from %s", manager.GetSettingsPath())

	configPath, err := manager.SSHConfigPath(sshconfig.DefaultPath)
	if err != nil {
		return err
	}
	registry, err := sshconfig.Parse(configPath)
	if err != nil {
		return err
	}

	resolver := sshconfig.NewResolver(configPath)
	prober, err := probe.New(*settings, resolver)
	if err != nil {
		return err
	}

	// SIGTERM przerywa wszystko, Ctrl+C tylko sondowanie i wybór
	sessionCtx, stopSession := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stopSession()
	ctx, stop := signal.NotifyContext(sessionCtx, os.Interrupt)
	defer stop()

	a := &app.App{
		Registry:     registry,
		ConfigPath:   configPath,
		Chooser:      ui.NewTeaChooser(settings.ShowRefresh, settings.Theme),
		Prober:       prober,
		Launcher:     newLauncher(opts, settings, resolver, stdout),
		Out:          stdout,
		ProbeOnStart: settings.Probe.OnStart,
		ListOnly:     opts.listOnly,

		RequireTTY:     requireTTY(os.Stdin),
		SessionContext: sessionCtx,
	}
	return a.Run(ctx, opts.alias)
}

// requireTTY sprawdza, czy menu ma terminal; --list i alias go nie potrzebują
func requireTTY(in interface{}) func() error {
	return func() error {
		if _, isTerminal := mterm.GetFdInfo(in); !isTerminal {
			return apperr.New(apperr.ValidationError, "an interactive terminal is required (use --list, or --print with a host alias)", nil)
		}
		return nil
	}
}

func newLauncher(opts *options, settings *config.Settings, resolver *sshconfig.Resolver, stdout io.Writer) ssh.Launcher {
	switch {
	case opts.printOnly:
		return ssh.PrintLauncher{Out: stdout}
	case settings.Native:
		if len(opts.extraArgs) > 0 {
			log.Warnf("ignoring ssh arguments %v with the native client", opts.extraArgs)
		}
		return ssh.NewNativeLauncher(resolver)
	default:
		return ssh.NewExecLauncher(settings.SSHBinary, opts.extraArgs)
	}
}
