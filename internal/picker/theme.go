package picker

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the chooser.
type Theme struct {
	Primary        lipgloss.Color // title, cursor
	Secondary      lipgloss.Color // selected row text
	Info           lipgloss.Color // pane ids
	Text           lipgloss.Color // primary text
	TextMuted      lipgloss.Color // commands, hints
	BackgroundElem lipgloss.Color // selected row background
	Border         lipgloss.Color // header rule
}

// DarkTheme is the default, tuned for dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#fab283"),
		Secondary:      lipgloss.Color("#5c9cf5"),
		Info:           lipgloss.Color("#56b6c2"),
		Text:           lipgloss.Color("#eeeeee"),
		TextMuted:      lipgloss.Color("#808080"),
		BackgroundElem: lipgloss.Color("#1e1e1e"),
		Border:         lipgloss.Color("#484848"),
	}
}

// LightTheme is for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#b35c00"),
		Secondary:      lipgloss.Color("#0550ae"),
		Info:           lipgloss.Color("#0969da"),
		Text:           lipgloss.Color("#1f2328"),
		TextMuted:      lipgloss.Color("#656d76"),
		BackgroundElem: lipgloss.Color("#f6f8fa"),
		Border:         lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds the lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	rule     lipgloss.Style
	pane     lipgloss.Style
	path     lipgloss.Style
	command  lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		rule:     lipgloss.NewStyle().Foreground(t.Border),
		pane:     lipgloss.NewStyle().Foreground(t.Info),
		path:     lipgloss.NewStyle().Foreground(t.Text),
		command:  lipgloss.NewStyle().Foreground(t.TextMuted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Background(t.BackgroundElem),
		hint:     lipgloss.NewStyle().Foreground(t.TextMuted),
	}
}
