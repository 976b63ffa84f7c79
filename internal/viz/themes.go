package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the viewer chrome. The grid itself is always drawn in
// grain colors.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
}

var (
	ThemeMetal = Theme{
		Name:    "metal",
		Primary: lipgloss.Color("#c0c8d0"),
		Accent:  lipgloss.Color("#00ccff"),
		Muted:   lipgloss.Color("#445566"),
	}

	ThemeForge = Theme{
		Name:    "forge",
		Primary: lipgloss.Color("#ff8844"),
		Accent:  lipgloss.Color("#ffd700"),
		Muted:   lipgloss.Color("#663322"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Muted:   lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeMetal

	Themes = []Theme{
		ThemeMetal,
		ThemeForge,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMetal
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
