package rendercmder

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/tripplanner/pkg/itinerary"
)

const renderLongDesc string = `Render a markdown itinerary for the terminal.

Reads the plan from the given file, or from stdin when no file or "-" is
given. Level-2 section headings get their icon; everything else is
rendered as markdown. Colour is disabled when stdout is not a terminal or
--plain is set.

Examples:
  tripplanner render plan.md
  curl -s -d '{"prompt":"..."}' localhost:8080/api/chat | tripplanner render`

const renderShortDesc string = "Render an itinerary with section icons"

type renderCommander struct {
	width int
	plain bool
}

func NewRenderCmd() *cobra.Command {
	cmder := &renderCommander{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: renderShortDesc,
		Long:  renderLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return cmder.run(cmd, path)
		},
	}

	cmd.Flags().IntVarP(&cmder.width, "width", "w", 0, "Wrap width (default: terminal width or 80)")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Disable colour")

	return cmd
}

func (c *renderCommander) run(cmd *cobra.Command, path string) error {
	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("could not open itinerary: %w", err)
		}
		defer f.Close()
		src = f
	}

	markdown, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("could not read itinerary: %w", err)
	}

	renderer, err := itinerary.NewRenderer(RendererOptions(cmd.OutOrStdout(), c.width, c.plain)...)
	if err != nil {
		return err
	}

	out, err := renderer.Render(itinerary.Parse(string(markdown)))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// RendererOptions picks width and colour for w. Anything that is not a
// terminal, or plain output, gets termenv.Ascii.
func RendererOptions(w io.Writer, width int, plain bool) []itinerary.Option {
	tty := false
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tty = true
		if width <= 0 {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = tw
			}
		}
	}

	opts := []itinerary.Option{itinerary.WithWidth(width)}
	if plain || !tty {
		opts = append(opts, itinerary.WithColorProfile(termenv.Ascii))
	}
	return opts
}
