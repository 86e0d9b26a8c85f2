// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	// Order view.
	HeaderTitleStyle   lipgloss.Style
	HeaderLabelStyle   lipgloss.Style
	HeaderValueStyle   lipgloss.Style
	TableHeaderStyle   lipgloss.Style
	RowStyle           lipgloss.Style
	RowCursorStyle     lipgloss.Style
	RowIneligibleStyle lipgloss.Style
	StatusBarStyle     lipgloss.Style

	// Banners.
	BannerWarningStyle lipgloss.Style
	BannerSuccessStyle lipgloss.Style
	BannerErrorStyle   lipgloss.Style

	FormTitleStyle        lipgloss.Style
	FormTitleBlurredStyle lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormHelpStyle         lipgloss.Style

	// Autocomplete dropdown.
	DropdownStyle         lipgloss.Style
	DropdownItemStyle     lipgloss.Style
	DropdownSelectedStyle lipgloss.Style
	DropdownMatchStyle    lipgloss.Style
	DropdownArrowStyle    lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HeaderTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HeaderLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HeaderValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	RowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	RowCursorStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Bold(true)
	RowIneligibleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	BannerWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	BannerSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	BannerErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormTitleBlurredStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	DropdownStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	DropdownItemStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	DropdownSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Padding(0, 1)
	DropdownMatchStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	DropdownArrowStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
}

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
