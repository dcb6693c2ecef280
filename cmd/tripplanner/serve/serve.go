package servecmder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/cmd/tripplanner/cmdconfig"
	"github.com/papercomputeco/tripplanner/pkg/llm/deepseek"
	"github.com/papercomputeco/tripplanner/relay"
)

const serveLongDesc string = `Run the trip planner relay.

Serves the browser form on / and relays POST /api/chat to the hosted
model, streaming the plan back as plain text. The server starts without
DEEPSEEK_API_KEY, but every chat request is then refused with
500 "Missing API key".

Examples:
  tripplanner serve
  tripplanner serve --listen 127.0.0.1:3000`

const serveShortDesc string = "Run the relay server"

type serveCommander struct {
	listen string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cmdconfig.Load(cmd)
	if err != nil {
		return err
	}

	logger := cmdconfig.Logger(cmd)
	defer logger.Sync()

	listen := cfg.Relay.ListenAddr
	if c.listen != "" {
		listen = c.listen
	}

	streamer := deepseek.New(deepseek.Config{
		APIKey:  cfg.Upstream.APIKey,
		BaseURL: cfg.Upstream.BaseURL,
		Model:   cfg.Upstream.Model,
	})

	r, err := relay.New(relay.Config{
		APIKey:          cfg.Upstream.APIKey,
		UpstreamTimeout: cfg.Upstream.Timeout.Duration,
	}, streamer, logger)
	if err != nil {
		return fmt.Errorf("could not create relay: %w", err)
	}

	if cfg.Upstream.APIKey == "" {
		logger.Warn("DEEPSEEK_API_KEY is not set; chat requests will fail")
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", listen, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, r, ln, logger)
}

// serve runs r on ln until it fails or ctx is done, then shuts it down.
func serve(ctx context.Context, r *relay.Relay, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.RunWithListener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("relay server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down relay server")
		if err := r.Shutdown(); err != nil {
			return fmt.Errorf("could not shut down relay: %w", err)
		}
		return nil
	}
}
