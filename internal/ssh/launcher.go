// internal/ssh/launcher.go

package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	log "github.com/sirupsen/logrus"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
	"sshMenu/internal/utils"
)

// Launcher przekazuje terminal użytkownika do sesji SSH z wybranym hostem
type Launcher interface {
	Launch(ctx context.Context, entry *models.HostEntry) error
}

// BuildArgs buduje argumenty klienta ssh: opcja -i (jeśli jest), cel, dodatkowe argumenty
func BuildArgs(entry *models.HostEntry, extra []string) []string {
	var args []string
	if entry.IdentityFile != "" {
		args = append(args, "-i", utils.LocalPath(entry.IdentityFile))
	}
	args = append(args, entry.Target())
	return append(args, extra...)
}

// ExecLauncher uruchamia zewnętrznego klienta ssh z odziedziczonymi strumieniami
type ExecLauncher struct {
	Binary    string
	ExtraArgs []string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer

	command func(name string, args ...string) *exec.Cmd
}

func NewExecLauncher(binary string, extraArgs []string) *ExecLauncher {
	if binary == "" {
		binary = "ssh"
	}
	return &ExecLauncher{
		Binary:    binary,
		ExtraArgs: extraArgs,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		command:   exec.Command,
	}
}

// Launch czeka na koniec sesji. Błędem jest tylko nieudany start procesu;
// niezerowy kod wyjścia zdalnej strony nie jest błędem aplikacji.
func (l *ExecLauncher) Launch(ctx context.Context, entry *models.HostEntry) error {
	args := BuildArgs(entry, l.ExtraArgs)
	cmd := l.command(l.Binary, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	log.Debugf("launching %s %v", l.Binary, args)

	if err := cmd.Start(); err != nil {
		return apperr.New(apperr.ProcessError, fmt.Sprintf("failed to start %s", l.Binary), err)
	}

	// Ctrl+C z terminala dostaje też klient ssh; nas ma nie zabić.
	// Sesję kończy tylko anulowanie ctx (u wołającego np. SIGTERM).
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		err = <-done
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		log.Debugf("%s exited with status %d", l.Binary, exitErr.ExitCode())
		return nil
	default:
		return apperr.New(apperr.ProcessError, fmt.Sprintf("%s session failed", l.Binary), err)
	}
}

// PrintLauncher wypisuje cel zamiast łączyć się (tryb --print)
type PrintLauncher struct {
	Out io.Writer
}

func (l PrintLauncher) Launch(ctx context.Context, entry *models.HostEntry) error {
	_, err := fmt.Fprintln(l.Out, entry.Target())
	return err
}
