package mcpcmder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/cmd/tripplanner/cmdconfig"
	"github.com/papercomputeco/tripplanner/pkg/llm"
	"github.com/papercomputeco/tripplanner/pkg/llm/deepseek"
	"github.com/papercomputeco/tripplanner/pkg/planner"
	"github.com/papercomputeco/tripplanner/pkg/trip"
)

const mcpLongDesc string = `Serve the trip planner as an MCP tool over stdio.

Exposes one tool, plan_trip, which takes an origin, a destination and a
date range, asks the hosted model for an itinerary and returns it as
markdown. Point an MCP client at "tripplanner mcp" to use it.

Logs go to stderr; stdout carries the protocol.`

const mcpShortDesc string = "Serve plan_trip over the Model Context Protocol"

// ToolName is the MCP tool exposed by the server.
const ToolName = "plan_trip"

const toolDescription = "Create a day-by-day trip itinerary in markdown with sections " +
	"Overview, Daily Itinerary, Transportation Tips, Must-See Attractions and Local Experiences."

type mcpCommander struct{}

// planInput is the plan_trip argument object.
type planInput struct {
	CurrentLocation string `json:"currentLocation" jsonschema:"where the traveller starts"`
	Destination     string `json:"destination" jsonschema:"where the traveller is going"`
	StartDate       string `json:"startDate" jsonschema:"first day of the trip as YYYY-MM-DD, today or later"`
	EndDate         string `json:"endDate" jsonschema:"last day of the trip as YYYY-MM-DD, not before startDate"`
}

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	return cmd
}

func (c *mcpCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cmdconfig.Load(cmd)
	if err != nil {
		return err
	}

	logger := cmdconfig.Logger(cmd)
	defer logger.Sync()

	if cfg.Upstream.APIKey == "" {
		return errors.New("DEEPSEEK_API_KEY is not set")
	}

	streamer := deepseek.New(deepseek.Config{
		APIKey:  cfg.Upstream.APIKey,
		BaseURL: cfg.Upstream.BaseURL,
		Model:   cfg.Upstream.Model,
	})

	server := newServer(streamer, logger, cfg.Upstream.Timeout.Duration, time.Now)

	logger.Info("serving MCP over stdio", zap.String("tool", ToolName))
	return server.Run(ctx, &mcp.StdioTransport{})
}

// newServer builds the MCP server with the plan_trip tool. timeout bounds
// each generation; zero means no bound beyond the request context.
func newServer(streamer llm.Streamer, logger *zap.Logger, timeout time.Duration, now func() time.Time) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "tripplanner", Version: "v0.1.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: toolDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in planInput) (*mcp.CallToolResult, any, error) {
		details := trip.Details{
			CurrentLocation: strings.TrimSpace(in.CurrentLocation),
			Destination:     strings.TrimSpace(in.Destination),
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
		}
		if err := details.Validate(trip.Today(now())); err != nil {
			return errorResult(err.Error()), nil, nil
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		plan, err := planner.Collect(ctx, streamer, trip.BuildPrompt(details), nil)
		if err != nil {
			logger.Error("plan_trip failed", zap.String("destination", details.Destination), zap.Error(err))
			return errorResult("Failed to generate trip plan"), nil, nil
		}

		logger.Debug("plan_trip complete",
			zap.String("destination", details.Destination),
			zap.Int("plan_length", len(plan)),
			zap.Duration("duration", time.Since(start)),
		)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimSpace(plan)}},
		}, nil, nil
	})

	return server
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("plan_trip: %s", msg)}},
	}
}
