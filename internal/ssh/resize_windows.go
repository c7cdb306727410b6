//go:build windows

package ssh

import (
	"time"
)

// Windows nie ma SIGWINCH, więc rozmiar konsoli jest sprawdzany cyklicznie
func (s *SSHSession) watchResize() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	consecutiveErrors := 0
	for {
		select {
		case <-ticker.C:
			if err := s.updateTerminalSize(); err != nil {
				consecutiveErrors++
				if consecutiveErrors > 5 {
					s.setError(err)
					return
				}
				continue
			}
			consecutiveErrors = 0
		case <-s.stopChan:
			return
		}
	}
}
