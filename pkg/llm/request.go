package llm

// ChatRequest is the body accepted by the relay's /api/chat endpoint.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// Validate reports ErrMissingPrompt for an absent or empty prompt.
func (r ChatRequest) Validate() error {
	if r.Prompt == "" {
		return ErrMissingPrompt
	}
	return nil
}
