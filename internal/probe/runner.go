package probe

import (
	"context"
	"os/exec"
)

// Runner uruchamia zewnętrzny program i zwraca jego połączone wyjście.
// Niezerowy kod wyjścia jest zwracany jako błąd.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner to produkcyjny Runner oparty o os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Sonda nie może czytać z terminala użytkownika
	cmd.Stdin = nil
	return cmd.CombinedOutput()
}
