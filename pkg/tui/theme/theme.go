package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/tokenbar/pkg/filterbar"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Filter FilterTheme
	Panel  PanelTheme
	Detail DetailTheme
	Footer FooterTheme
}

// HeaderTheme styles the title row above the filter strip.
type HeaderTheme struct {
	Title   lipgloss.Style
	Address lipgloss.Style
}

// FilterTheme styles filter items by their classes.
type FilterTheme struct {
	Item     lipgloss.Style
	Active   lipgloss.Style
	Loading  lipgloss.Style
	Hover    lipgloss.Style
	Watched  lipgloss.Style
	Toggle   lipgloss.Style
	Disabled lipgloss.Style
}

// PanelTheme styles the overflow panel.
type PanelTheme struct {
	Frame  lipgloss.Style
	Cursor lipgloss.Style
	Row    lipgloss.Style
}

// DetailTheme styles the asset detail view.
type DetailTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Amount  lipgloss.Style
	In      lipgloss.Style
	Out     lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Loading lipgloss.Style
}

// FooterTheme groups styles used by the bottom help line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	item := lipgloss.NewStyle().Padding(0, 1)
	return Theme{
		Header: HeaderTheme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Address: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Filter: FilterTheme{
			Item:     item.Foreground(lipgloss.Color("250")),
			Active:   item.Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
			Loading:  item.Faint(true).Italic(true).Background(lipgloss.Color("60")),
			Hover:    item.Foreground(lipgloss.Color("252")),
			Watched:  item.Foreground(lipgloss.Color("244")),
			Toggle:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		},
		Panel: PanelTheme{
			Frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1),
			Cursor: lipgloss.NewStyle().Reverse(true),
			Row:    lipgloss.NewStyle(),
		},
		Detail: DetailTheme{
			Frame:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
			Title:   lipgloss.NewStyle().Bold(true),
			Amount:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")),
			In:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Out:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			Loading: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}

// ItemStyle picks the style of a filter item from its classes. Watched
// entries keep their muted color unless active.
func (f FilterTheme) ItemStyle(classes []filterbar.Class, watched bool) lipgloss.Style {
	var active, loading, hover bool
	for _, c := range classes {
		switch c {
		case filterbar.ClassActive:
			active = true
		case filterbar.ClassLoading:
			loading = true
		case filterbar.ClassHoverable:
			hover = true
		}
	}
	switch {
	case active && loading:
		return f.Loading
	case active:
		return f.Active
	case watched:
		return f.Watched
	case hover:
		return f.Hover
	}
	return f.Item
}
