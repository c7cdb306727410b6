// internal/ui/chooser.go

package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
)

// TeaChooser uruchamia program bubbletea przy każdym wyświetleniu menu.
// Terminal jest zwalniany po każdym wyborze, więc między wyświetleniami
// można sondować hosty albo uruchomić ssh.
type TeaChooser struct {
	ShowRefresh bool
	Options     []tea.ProgramOption

	status string
	cursor int
}

// NewTeaChooser tworzy selektor i ustawia motyw początkowy
func NewTeaChooser(showRefresh bool, theme int) *TeaChooser {
	SetTheme(theme)
	return &TeaChooser{ShowRefresh: showRefresh}
}

// SetStatus ustawia linię statusu pokazywaną pod listą
func (c *TeaChooser) SetStatus(status string) {
	c.status = status
}

// Choose implementuje Chooser
func (c *TeaChooser) Choose(registry *models.Registry) (Choice, error) {
	width, height := terminalSize()
	m := newSelectorModel(registry, c.ShowRefresh, c.status, c.cursor, width, height)

	p := tea.NewProgram(m, c.Options...)
	final, err := p.Run()
	if err != nil {
		return Abort(), apperr.New(apperr.IOError, "selector failed", err)
	}

	result, ok := final.(*selectorModel)
	if !ok {
		return Abort(), apperr.New(apperr.IOError, fmt.Sprintf("unexpected selector model %T", final), nil)
	}
	// Kursor zostaje na tej samej pozycji po odświeżeniu
	c.cursor = result.list.Index()
	return result.choice, nil
}

func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}
