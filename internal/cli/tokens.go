package cli

import (
	"sync"

	"github.com/drujensen/reactagent/internal/domain/entities"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEstimator approximates the prompt size of a history with the gpt-4
// encoding. DeepSeek uses its own tokenizer, so this is only a debug aid.
type tokenEstimator struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

func newTokenEstimator() *tokenEstimator {
	return &tokenEstimator{}
}

// Count returns 0 when the encoding cannot be loaded.
func (e *tokenEstimator) Count(messages []*entities.Message) int {
	e.once.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-4")
		if err == nil {
			e.enc = enc
		}
	})
	if e.enc == nil {
		return 0
	}

	total := 0
	for _, msg := range messages {
		total += len(e.enc.Encode(msg.Content, nil, nil))
	}
	return total
}
