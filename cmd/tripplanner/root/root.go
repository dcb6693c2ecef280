package tripplannercmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/tripplanner/cmd/tripplanner/cmdconfig"
	mcpcmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/mcp"
	plancmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/plan"
	rendercmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/render"
	servecmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/serve"
)

const tripplannerLongDesc string = `Plan trips with a hosted language model.

The relay server accepts a trip prompt on POST /api/chat, forwards it to
DeepSeek and streams the itinerary back. The other commands are clients
of that relay or of the model directly.

Configuration is read from ~/.tripplanner/config.toml (or --config), a
.env file and the environment. The model credential comes from
DEEPSEEK_API_KEY.`

const tripplannerShortDesc string = "AI trip planner"

// NewTripplannerCmd builds the root command with every subcommand attached.
func NewTripplannerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tripplanner",
		Short:         tripplannerShortDesc,
		Long:          tripplannerLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmdconfig.AddFlags(cmd)

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(plancmder.NewPlanCmd())
	cmd.AddCommand(rendercmder.NewRenderCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())

	return cmd
}
