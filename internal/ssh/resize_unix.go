//go:build !windows

package ssh

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// watchResize przekazuje SIGWINCH jako window-change do zdalnego PTY
func (s *SSHSession) watchResize() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			if err := s.updateTerminalSize(); err != nil {
				s.setError(fmt.Errorf("failed to update terminal size: %w", err))
			}
		case <-s.stopChan:
			return
		}
	}
}
