package plancmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/tripplanner/cmd/tripplanner/cmdconfig"
	rendercmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/render"
	"github.com/papercomputeco/tripplanner/pkg/config"
	"github.com/papercomputeco/tripplanner/pkg/form"
	"github.com/papercomputeco/tripplanner/pkg/itinerary"
	"github.com/papercomputeco/tripplanner/pkg/logger"
	"github.com/papercomputeco/tripplanner/pkg/relayclient"
	"github.com/papercomputeco/tripplanner/pkg/trip"
)

const planLongDesc string = `Plan a trip through a running relay.

Without flags this opens an interactive form: fill in where you are,
where you are going and the travel dates, then press enter. The plan
streams in from the relay and is revealed section by section.

With --from, --to, --start and --end the form is submitted directly and
the itinerary is printed to stdout.

Examples:
  tripplanner plan
  tripplanner plan --from Berlin --to Lisbon --start 2026-06-01 --end 2026-06-05
  tripplanner plan --relay http://192.168.1.42:8080`

const planShortDesc string = "Plan a trip interactively or from flags"

type planCommander struct {
	relayURL string
	from     string
	to       string
	start    string
	end      string
	plain    bool
}

func NewPlanCmd() *cobra.Command {
	cmder := &planCommander{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: planShortDesc,
		Long:  planLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.relayURL, "relay", "", "Relay base URL (overrides config)")
	cmd.Flags().StringVar(&cmder.from, "from", "", "Current location")
	cmd.Flags().StringVar(&cmder.to, "to", "", "Destination")
	cmd.Flags().StringVar(&cmder.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cmder.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the raw markdown plan")

	return cmd
}

func (c *planCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cmdconfig.Load(cmd)
	if err != nil {
		return err
	}

	relayURL := cfg.Client.RelayURL
	if c.relayURL != "" {
		relayURL = c.relayURL
	}
	client := relayclient.New(relayURL)

	if c.flagMode() || !isTerminal(cmd.InOrStdin()) {
		log := cmdconfig.Logger(cmd)
		defer log.Sync()
		return c.runOnce(ctx, cmd.OutOrStdout(), form.New(client, log))
	}

	return c.runInteractive(ctx, cmd, relayURL, client)
}

func (c *planCommander) flagMode() bool {
	return c.from != "" || c.to != "" || c.start != "" || c.end != ""
}

// runOnce submits the form built from flags and prints the plan.
func (c *planCommander) runOnce(ctx context.Context, out io.Writer, ctrl *form.Controller) error {
	values := map[trip.Field]string{
		trip.FieldCurrentLocation: c.from,
		trip.FieldDestination:     c.to,
		trip.FieldStartDate:       c.start,
		trip.FieldEndDate:         c.end,
	}
	for _, f := range trip.Fields {
		if err := ctrl.Set(f, values[f]); err != nil {
			return err
		}
	}
	if msg := ctrl.ValidationMessage(); msg != "" {
		return errors.New(msg)
	}

	plan, err := ctrl.Submit(ctx)
	if err != nil {
		return fmt.Errorf("could not plan trip: %w", err)
	}

	if c.plain {
		fmt.Fprintln(out, plan)
		return nil
	}

	renderer, err := itinerary.NewRenderer(rendercmder.RendererOptions(out, 0, false)...)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(itinerary.Parse(plan))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	return nil
}

func (c *planCommander) runInteractive(ctx context.Context, cmd *cobra.Command, relayURL string, client *relayclient.Client) error {
	// The TUI owns the terminal, so logs go to a file and only with --debug.
	log := zap.NewNop()
	if cmdconfig.Debug(cmd) {
		f, err := openDebugLog()
		if err != nil {
			return err
		}
		defer f.Close()
		log = logger.NewLoggerTo(f, true, false)
	}
	defer log.Sync()

	var program *tea.Program
	ctrl := form.New(client, log, form.WithObserver(func(chunk string) {
		program.Send(chunkMsg(chunk))
	}))

	renderer, err := itinerary.NewRenderer(rendercmder.RendererOptions(cmd.OutOrStdout(), 0, c.plain)...)
	if err != nil {
		return err
	}

	log.Debug("opening plan form", zap.String("relay", relayURL))

	program = tea.NewProgram(newModel(ctx, ctrl, renderer), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("plan form failed: %w", err)
	}
	return nil
}

func openDebugLog() (*os.File, error) {
	dir := filepath.Dir(config.DefaultPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "plan-debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open debug log %s: %w", path, err)
	}
	return f, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
