package relay

import (
	"context"
	"fmt"
	"io"

	"github.com/papercomputeco/tripplanner/pkg/llm"
)

// flushWriter is the consumer side of a relayed stream; *bufio.Writer from
// fasthttp's body stream writer satisfies it.
type flushWriter interface {
	io.Writer
	Flush() error
}

// forward copies chunks to w, flushing after each one so the caller sees
// text as soon as the model produces it. head holds chunks already taken off
// the channel. A channel closed because ctx ended is reported as an upstream
// error. It returns the number of chunks written.
func forward(ctx context.Context, w flushWriter, head []llm.Chunk, rest <-chan llm.Chunk) (int, error) {
	written := 0

	send := func(chunk llm.Chunk) error {
		if chunk.Err != nil {
			return fmt.Errorf("upstream stream: %w", chunk.Err)
		}
		if _, err := io.WriteString(w, chunk.Text); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush chunk: %w", err)
		}
		written++
		return nil
	}

	for _, chunk := range head {
		if err := send(chunk); err != nil {
			return written, err
		}
	}
	for chunk := range rest {
		if err := send(chunk); err != nil {
			return written, err
		}
	}
	if err := ctx.Err(); err != nil {
		return written, fmt.Errorf("upstream stream: %w", err)
	}
	return written, nil
}
