// Package llm defines the contract between tripplanner and a hosted language
// model: the conversation turns sent upstream and the ordered text stream that
// comes back.
package llm

import "errors"

// ErrMissingPrompt is returned when a chat request carries no prompt.
var ErrMissingPrompt = errors.New("missing prompt")
