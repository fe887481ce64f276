package interfaces

import (
	"context"

	"github.com/drujensen/reactagent/internal/domain/entities"
)

// ChatOptions tunes one chat-completions request. Nil fields are omitted from
// the request body.
type ChatOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

// ChatModel is the remote language model seen by the agent loop.
type ChatModel interface {
	// Chat sends the whole history and returns the assistant text of the
	// first choice.
	Chat(ctx context.Context, messages []*entities.Message, options ChatOptions) (string, error)

	// ModelName returns the model used when options do not name one
	ModelName() string
}
