// package ui defines the lipgloss stylesheet for terminal output
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette styles the menu and action output. Title green matches the
// Spotify brand color.
var DefaultPalette = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Title renders s in the bold title style.
func (p *Palette) Title(s string) string { return p.title.Render(s) }

// OK renders s in the success style.
func (p *Palette) OK(s string) string { return p.ok.Render(s) }

// Err renders s in the error style.
func (p *Palette) Err(s string) string { return p.err.Render(s) }

// Warn renders s in the warning style.
func (p *Palette) Warn(s string) string { return p.warn.Render(s) }

// Help renders s in the dimmed help style.
func (p *Palette) Help(s string) string { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
