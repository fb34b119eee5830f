package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
//
// Styles are bound to the renderer of the writer they print to, so output that is not a
// terminal (pipes, files, test buffers) stays free of escape sequences.
type Palette struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
}

// NewDefaultPalette creates the console [Palette] for w.
func NewDefaultPalette(w io.Writer) *Palette {
	return NewPalette(lipgloss.NewRenderer(w), "#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
}

func NewPalette(r *lipgloss.Renderer, t, s, e, w, h string) *Palette {
	return &Palette{
		renderer: r,
		title:    NewBold(r, t),
		ok:       NewBold(r, s),
		err:      NewBold(r, e),
		warn:     NewStyle(r, w),
		help:     NewEm(r, h),
	}
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func (p *Palette) On(s string, c lipgloss.Color) string {
	return p.renderer.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return p.renderer.NewStyle().Foreground(c).Render(s)
}

func NewStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Bold(true)
}

func NewEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Italic(true)
}
