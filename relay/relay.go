// Package relay serves the trip planner's HTTP surface: the browser page and
// the /api/chat endpoint that streams a plan from the hosted model.
package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/pkg/llm"
	"github.com/papercomputeco/tripplanner/pkg/planner"
	"github.com/papercomputeco/tripplanner/web"
)

// Plain-text error bodies returned by /api/chat.
const (
	MsgMissingAPIKey = "Missing API key"
	MsgMissingPrompt = "Missing prompt"
	MsgFailed        = "Failed to generate trip plan"
)

// Relay forwards trip prompts to a hosted model and streams the answer back.
// It keeps no state between requests.
type Relay struct {
	config   Config
	streamer llm.Streamer
	logger   *zap.Logger
	server   *fiber.App
}

// New creates a new Relay.
func New(config Config, streamer llm.Streamer, logger *zap.Logger) (*Relay, error) {
	if config.UpstreamTimeout <= 0 {
		config.UpstreamTimeout = DefaultUpstreamTimeout
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	r := &Relay{
		config:   config,
		streamer: streamer,
		logger:   logger,
		server:   app,
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(requestLogger(logger))

	app.Post("/api/chat", r.handleChat)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	// Browser form
	app.Get("/", adaptor.HTTPHandler(http.FileServer(http.FS(web.Assets))))

	return r, nil
}

// RunWithListener serves on an existing listener until Shutdown.
func (r *Relay) RunWithListener(ln net.Listener) error {
	r.logger.Info("starting relay server",
		zap.String("listen", ln.Addr().String()),
		zap.Bool("credential_configured", r.config.APIKey != ""),
	)
	return r.server.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (r *Relay) Shutdown() error {
	return r.server.Shutdown()
}

// handleChat relays one prompt. The credential and the prompt are checked
// before any upstream call. The upstream stream is opened and its first chunk
// awaited before the status line is committed, so a failure to start is still
// reported as a 500; later failures can only cut the body short.
func (r *Relay) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	if r.config.APIKey == "" {
		r.logger.Error("hosted model credential is not configured")
		return sendText(c, fiber.StatusInternalServerError, MsgMissingAPIKey)
	}

	var req llm.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		r.logger.Warn("failed to parse request", zap.Error(err))
		return sendText(c, fiber.StatusBadRequest, MsgMissingPrompt)
	}
	if err := req.Validate(); err != nil {
		return sendText(c, fiber.StatusBadRequest, MsgMissingPrompt)
	}

	r.logger.Debug("received chat request",
		zap.Int("prompt_length", len(req.Prompt)),
		zap.String("prompt_preview", truncate(req.Prompt, 100)),
	)

	// The body is written after this handler returns, when fasthttp may have
	// recycled the request context, so the upstream call gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), r.config.UpstreamTimeout)

	stream, err := r.streamer.Stream(ctx, planner.Conversation(req.Prompt))
	if err != nil {
		cancel()
		r.logger.Error("failed to open upstream stream", zap.Error(err))
		return sendText(c, fiber.StatusInternalServerError, MsgFailed)
	}

	chunks := llm.Pump(ctx, stream)

	var head []llm.Chunk
	first, ok := <-chunks
	if !ok && ctx.Err() != nil {
		first.Err = ctx.Err()
	}
	if first.Err != nil {
		cancel()
		r.logger.Error("upstream stream failed before first chunk", zap.Error(first.Err))
		return sendText(c, fiber.StatusInternalServerError, MsgFailed)
	}
	if ok {
		head = append(head, first)
	}

	c.Status(fiber.StatusOK)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	requestID := strings.Clone(c.GetRespHeader(fiber.HeaderXRequestID))

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		n, err := forward(ctx, w, head, chunks)
		if err != nil {
			r.logger.Error("plan stream interrupted",
				zap.String("request_id", requestID),
				zap.Int("chunks", n),
				zap.Error(err),
			)
			return
		}

		r.logger.Debug("plan stream complete",
			zap.String("request_id", requestID),
			zap.Int("chunks", n),
			zap.Duration("duration", time.Since(startTime)),
		)
	}))

	return nil
}

func sendText(c *fiber.Ctx, status int, msg string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(msg)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
