package llm

import (
	"context"
	"errors"
	"io"
)

// Streamer opens a streamed completion for a conversation against a hosted model.
type Streamer interface {
	Stream(ctx context.Context, messages []Message) (TextStream, error)
}

// TextStream yields generated text in the order the model produced it.
// Recv returns io.EOF once the model is done.
type TextStream interface {
	Recv() (string, error)
	Close() error
}

// Chunk is one unit travelling from a TextStream producer to its consumer.
// Exactly one of Text or Err is set.
type Chunk struct {
	Text string
	Err  error
}

// Pump drains stream on its own goroutine and delivers every non-empty piece
// of text on the returned channel, in order. A receive error is delivered as a
// final Chunk. The channel is closed and the stream released when the stream
// ends, fails, or ctx is done. Once ctx is done the channel may close without
// an error Chunk, so consumers check ctx.Err after the channel closes.
func Pump(ctx context.Context, stream TextStream) <-chan Chunk {
	out := make(chan Chunk)

	go func() {
		defer close(out)
		defer stream.Close()

		for {
			text, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}

			chunk := Chunk{Text: text, Err: err}
			if err == nil && text == "" {
				// role-only and keep-alive deltas carry no text
				continue
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return out
}
