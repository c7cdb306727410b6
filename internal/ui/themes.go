package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name string

	// Podstawowe kolory
	Subtle    lipgloss.Color
	Highlight lipgloss.Color
	Special   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color

	// Kolory elementów listy
	ItemColor  lipgloss.Color
	HostColor  lipgloss.Color
	LabelColor lipgloss.Color
}

var (
	currentThemeIndex = 0

	themes = []Theme{
		{
			Name:      "default",
			Subtle:    lipgloss.Color("#6C7086"),
			Highlight: lipgloss.Color("#7DC4E4"),
			Special:   lipgloss.Color("#A6E3A1"),
			Warning:   lipgloss.Color("#FF9E64"),
			Error:     lipgloss.Color("#F38BA8"),
			Border:    lipgloss.Color("#33B2FF"),

			ItemColor:  lipgloss.Color("#FF3A99"),
			HostColor:  lipgloss.Color("#2DAFFF"),
			LabelColor: lipgloss.Color("#A6ADC8"),
		},
		{
			// Dracula - paleta draculatheme.com
			Name:      "dracula",
			Subtle:    lipgloss.Color("#6272A4"), // Comment
			Highlight: lipgloss.Color("#8BE9FD"), // Cyan
			Special:   lipgloss.Color("#50FA7B"), // Green
			Warning:   lipgloss.Color("#FFB86C"), // Orange
			Error:     lipgloss.Color("#FF5555"), // Red
			Border:    lipgloss.Color("#BD93F9"), // Purple

			ItemColor:  lipgloss.Color("#FF79C6"), // Pink
			HostColor:  lipgloss.Color("#BD93F9"), // Purple
			LabelColor: lipgloss.Color("#F8F8F2"), // Foreground
		},
		{
			// VSCodeDark - inspirowany motywem VS Code Dark+
			Name:      "vscode",
			Subtle:    lipgloss.Color("#808080"),
			Highlight: lipgloss.Color("#569CD6"), // Niebieski
			Special:   lipgloss.Color("#4EC9B0"), // Turkusowy
			Warning:   lipgloss.Color("#DCDCAA"), // Żółtawy
			Error:     lipgloss.Color("#F44747"),
			Border:    lipgloss.Color("#569CD6"),

			ItemColor:  lipgloss.Color("#CE9178"), // Pomarańczowy
			HostColor:  lipgloss.Color("#9CDCFE"), // Jasnoniebieski
			LabelColor: lipgloss.Color("#D4D4D4"),
		},
		{
			// Molokai
			Name:      "molokai",
			Subtle:    lipgloss.Color("#808080"),
			Highlight: lipgloss.Color("#66D9EF"),
			Special:   lipgloss.Color("#A6E22E"), // Limonkowy
			Warning:   lipgloss.Color("#E6DB74"), // Żółty
			Error:     lipgloss.Color("#F92672"),
			Border:    lipgloss.Color("#66D9EF"),

			ItemColor:  lipgloss.Color("#F92672"),
			HostColor:  lipgloss.Color("#FD971F"), // Pomarańczowy
			LabelColor: lipgloss.Color("#F8F8F2"),
		},
		{
			// RetroOrange - ciepły, pomarańczowy akcent
			Name:      "retro",
			Subtle:    lipgloss.Color("#D0D0D0"), // Jaśniejszy dla lepszej widoczności
			Highlight: lipgloss.Color("#FFA500"),
			Special:   lipgloss.Color("#98FB98"),
			Warning:   lipgloss.Color("#FFD700"),
			Error:     lipgloss.Color("#DC143C"), // Crimson
			Border:    lipgloss.Color("#FFA500"),

			ItemColor:  lipgloss.Color("#FFA500"),
			HostColor:  lipgloss.Color("#FF8C00"),
			LabelColor: lipgloss.Color("#E8E8E8"),
		},
	}
)

// SwitchTheme przełącza na następny motyw i aktualizuje wszystkie style
func SwitchTheme() Theme {
	return SetTheme(currentThemeIndex + 1)
}

// SetTheme ustawia motyw o danym indeksie (modulo liczba motywów)
func SetTheme(index int) Theme {
	n := len(themes)
	// Ujemne indeksy liczone od końca listy
	currentThemeIndex = ((index % n) + n) % n
	theme := themes[currentThemeIndex]
	updateStyles(theme)
	return theme
}

// CurrentTheme zwraca aktywny motyw
func CurrentTheme() Theme {
	return themes[currentThemeIndex]
}

// ThemeCount zwraca liczbę dostępnych motywów
func ThemeCount() int {
	return len(themes)
}
