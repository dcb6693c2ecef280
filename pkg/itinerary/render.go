package itinerary

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Renderer draws blocks for a terminal. Section headings get their icon and
// accent colour; body blocks are rendered by glamour.
type Renderer struct {
	width   int
	profile termenv.Profile
	styles  *lipgloss.Renderer
	body    *glamour.TermRenderer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the word-wrap width.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithColorProfile overrides terminal colour detection. termenv.Ascii
// produces plain text.
func WithColorProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// NewRenderer builds a Renderer for the current terminal.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:   80,
		profile: termenv.EnvColorProfile(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.styles = lipgloss.NewRenderer(io.Discard)
	r.styles.SetColorProfile(r.profile)

	style := glamour.WithAutoStyle()
	if r.profile == termenv.Ascii {
		style = glamour.WithStandardStyle("notty")
	}

	body, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(r.width),
		glamour.WithColorProfile(r.profile),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.body = body

	return r, nil
}

// Render draws every block in order.
func (r *Renderer) Render(blocks []Block) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out, err := r.RenderBlock(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n\n"), nil
}

// RenderBlock draws a single block. Unknown section headings are drawn
// without an icon.
func (r *Renderer) RenderBlock(b Block) (string, error) {
	switch b.Kind {
	case KindSection:
		return r.section(b), nil
	case KindSubheading:
		return r.styles.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Render(b.Text), nil
	}

	out, err := r.body.Render(b.Markdown())
	if err != nil {
		return "", fmt.Errorf("render %s block: %w", b.Kind, err)
	}
	return strings.Trim(out, "\n"), nil
}

func (r *Renderer) section(b Block) string {
	accent := lipgloss.Color(b.Icon.Color())

	title := r.styles.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Render(b.Text)
	if glyph := b.Icon.Glyph(); glyph != "" {
		title = r.styles.NewStyle().Foreground(accent).Render(glyph) + "  " + title
	}

	rule := strings.Repeat("─", min(ansi.StringWidth(title), r.width))
	return title + "\n" + r.styles.NewStyle().Foreground(accent).Render(rule)
}
