// internal/ui/selector.go

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sshMenu/internal/models"
)

const (
	selectorTitle = "✨ Select a host to SSH into ✨"
	refreshLabel  = "⟳ Refresh latencies"

	defaultWidth  = 80
	defaultHeight = 20
)

// ChoiceKind określa wynik jednego wyświetlenia selektora
type ChoiceKind int

const (
	ChoiceAbort ChoiceKind = iota
	ChoiceRefresh
	ChoiceHost
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceRefresh:
		return "refresh"
	case ChoiceHost:
		return "host"
	default:
		return "abort"
	}
}

// Choice to wybór użytkownika; Alias jest ustawiony tylko dla ChoiceHost
type Choice struct {
	Kind  ChoiceKind
	Alias string
}

func Refresh() Choice            { return Choice{Kind: ChoiceRefresh} }
func Abort() Choice              { return Choice{Kind: ChoiceAbort} }
func Host(alias string) Choice   { return Choice{Kind: ChoiceHost, Alias: alias} }
func (c Choice) IsHost() bool    { return c.Kind == ChoiceHost }
func (c Choice) IsRefresh() bool { return c.Kind == ChoiceRefresh }

// Chooser wyświetla rejestr i zwraca jeden wybór
type Chooser interface {
	Choose(registry *models.Registry) (Choice, error)
}

// RefreshItem to pozycja "odśwież" na początku listy
type RefreshItem struct{}

func (RefreshItem) Title() string       { return refreshLabel }
func (RefreshItem) Description() string { return "probe every host again" }
func (RefreshItem) FilterValue() string { return "" }

// HostItem implementuje list.Item dla hosta
type HostItem struct {
	Index int
	Host  *models.HostEntry
}

func (i HostItem) Title() string { return fmt.Sprintf("(%d) %s", i.Index, i.Host.Alias) }

// Description składa opis bez kolorów; delegate koloruje opóźnienie osobno
func (i HostItem) Description() string {
	parts := i.details()
	if i.Host.Latency.State != models.LatencyUnprobed {
		parts = append(parts, i.Host.Latency.String())
	}
	return strings.Join(parts, " · ")
}

func (i HostItem) FilterValue() string {
	return i.Host.Alias + " " + i.Host.Hostname
}

func (i HostItem) details() []string {
	var parts []string
	if i.Host.Username != "" {
		parts = append(parts, "User: "+i.Host.Username)
	}
	if i.Host.Hostname != "" && i.Host.Hostname != i.Host.Alias {
		parts = append(parts, i.Host.Hostname)
	}
	return parts
}

// Items buduje pozycje listy z rejestru
func Items(registry *models.Registry, showRefresh bool) []list.Item {
	items := make([]list.Item, 0, registry.Len()+1)
	if showRefresh {
		items = append(items, RefreshItem{})
	}
	for i, entry := range registry.Sorted() {
		items = append(items, HostItem{Index: i, Host: entry})
	}
	return items
}

// itemDelegate rysuje pozycje w dwóch liniach, z kolorowanym opóźnieniem
type itemDelegate struct{}

func (itemDelegate) Height() int                             { return 2 }
func (itemDelegate) Spacing() int                            { return 0 }
func (itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	selected := index == m.Index()

	cursor := "  "
	titleStyle := ItemStyle
	if selected {
		cursor = SelectedItemStyle.Render("> ")
		titleStyle = SelectedItemStyle
	}

	var title, desc string
	switch it := item.(type) {
	case RefreshItem:
		if !selected {
			titleStyle = ActionStyle
		}
		title = titleStyle.Render(it.Title())
		desc = DescriptionStyle.Render(it.Description())
	case HostItem:
		title = titleStyle.Render(it.Title())
		var parts []string
		if it.Host.Username != "" {
			parts = append(parts, LabelStyle.Render("User: "+it.Host.Username))
		}
		if it.Host.Hostname != "" && it.Host.Hostname != it.Host.Alias {
			parts = append(parts, HostStyle.Render(it.Host.Hostname))
		}
		if latency := RenderLatency(it.Host.Latency); latency != "" {
			parts = append(parts, latency)
		}
		desc = strings.Join(parts, DescriptionStyle.Render(" · "))
	default:
		return
	}

	fmt.Fprintf(w, "%s%s\n  %s", cursor, title, desc)
}

type selectorModel struct {
	keys   KeyMap
	list   list.Model
	choice Choice
	status string
	done   bool
}

func newSelectorModel(registry *models.Registry, showRefresh bool, status string, cursor int, width, height int) *selectorModel {
	keys := DefaultKeyMap()

	l := list.New(Items(registry, showRefresh), itemDelegate{}, width, height)
	l.Title = selectorTitle
	l.Styles.Title = TitleStyle
	l.SetStatusBarItemName("host", "hosts")
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = keys.shortHelp
	l.AdditionalFullHelpKeys = keys.shortHelp
	// Własne klawisze mają pierwszeństwo przed wbudowanymi
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	if cursor > 0 && cursor < len(l.Items()) {
		l.Select(cursor)
	}

	return &selectorModel{
		keys:   keys,
		list:   l,
		choice: Abort(),
		status: status,
	}
}

func (m *selectorModel) Init() tea.Cmd {
	return nil
}

func (m *selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-lipgloss.Height(m.statusLine()))
		return m, nil

	case tea.KeyMsg:
		// Podczas wpisywania filtra klawisze trafiają do listy
		if m.list.FilterState() == list.Filtering {
			if msg.Type == tea.KeyCtrlC {
				return m.finish(Abort())
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				// esc najpierw czyści filtr
				break
			}
			return m.finish(Abort())
		case key.Matches(msg, m.keys.Refresh):
			return m.finish(Refresh())
		case key.Matches(msg, m.keys.Theme):
			SwitchTheme()
			m.list.Styles.Title = TitleStyle
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			switch it := m.list.SelectedItem().(type) {
			case RefreshItem:
				return m.finish(Refresh())
			case HostItem:
				return m.finish(Host(it.Host.Alias))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *selectorModel) finish(choice Choice) (tea.Model, tea.Cmd) {
	m.choice = choice
	m.done = true
	return m, tea.Quit
}

func (m *selectorModel) statusLine() string {
	if m.status == "" {
		return ""
	}
	return StatusStyle.Render(m.status)
}

// View implementuje tea.Model
func (m *selectorModel) View() string {
	// Po wyborze nic nie zostaje na ekranie
	if m.done {
		return ""
	}
	if status := m.statusLine(); status != "" {
		return m.list.View() + "\n" + status
	}
	return m.list.View()
}
