// Package llmtest provides an in-memory llm.Streamer for tests.
package llmtest

import (
	"context"
	"io"
	"sync"

	"github.com/papercomputeco/tripplanner/pkg/llm"
)

// Streamer replays Chunks for every Stream call and records the conversations
// it was asked to complete.
type Streamer struct {
	// Chunks are emitted in order by each opened stream.
	Chunks []string

	// OpenErr, when set, is returned by Stream instead of a stream.
	OpenErr error

	// RecvErr, when set, is returned after all Chunks have been emitted.
	RecvErr error

	mu    sync.Mutex
	calls [][]llm.Message
}

// Stream implements llm.Streamer.
func (s *Streamer) Stream(ctx context.Context, messages []llm.Message) (llm.TextStream, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]llm.Message(nil), messages...))
	s.mu.Unlock()

	if s.OpenErr != nil {
		return nil, s.OpenErr
	}

	return &stream{ctx: ctx, chunks: append([]string(nil), s.Chunks...), err: s.RecvErr}, nil
}

// Calls returns the conversations passed to Stream so far.
func (s *Streamer) Calls() [][]llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]llm.Message(nil), s.calls...)
}

type stream struct {
	ctx    context.Context
	chunks []string
	err    error
	closed bool
}

func (s *stream) Recv() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	next := s.chunks[0]
	s.chunks = s.chunks[1:]
	return next, nil
}

func (s *stream) Close() error {
	s.closed = true
	return nil
}
