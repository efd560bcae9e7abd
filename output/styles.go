// Package output provides styling helpers for terminal output.
package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	success lipgloss.Style
	error   lipgloss.Style
	path    lipgloss.Style
	account lipgloss.Style
	amount  lipgloss.Style
	keyword lipgloss.Style
	dim     lipgloss.Style
	warning lipgloss.Style
}

// NewStyles creates a new Styles instance.
func NewStyles() *Styles {
	return &Styles{
		success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"}).Bold(true),
		error:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}).Bold(true),
		path:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"}),
		account: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#D7AF00"}),
		amount:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF87FF", Dark: "#AF87FF"}),
		keyword: lipgloss.NewStyle().Bold(true),
		dim:     lipgloss.NewStyle().Faint(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#D7AF00"}).Bold(true),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.success.Render(text)
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.error.Render(text)
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.path.Render(text)
}

// Account returns a styled account name (yellow).
func (s *Styles) Account(text string) string {
	return s.account.Render(text)
}

// Amount returns a styled amount/currency (magenta).
func (s *Styles) Amount(text string) string {
	return s.amount.Render(text)
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.keyword.Render(text)
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.dim.Render(text)
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.warning.Render(text)
}

// Timing returns a styled timing string, colored based on duration.
// Slow operations are rendered in the error color, fast ones dimmed.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.error.Render(text)
	}
	return s.Dim(text)
}
