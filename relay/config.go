package relay

import "time"

// DefaultUpstreamTimeout bounds a single plan generation.
const DefaultUpstreamTimeout = 5 * time.Minute

// Config is the relay server configuration. It is built once at start-up and
// never mutated.
type Config struct {
	// APIKey is the hosted model credential. It may be empty; requests are
	// then refused with a configuration error.
	APIKey string

	// UpstreamTimeout bounds each call to the hosted model, including the
	// time spent streaming. Zero means DefaultUpstreamTimeout.
	UpstreamTimeout time.Duration
}
