package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/errors"
	"github.com/drujensen/reactagent/internal/domain/interfaces"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"
	DefaultModel   = "deepseek-chat"

	requestTimeout = 300 * time.Second
	connectTimeout = 100 * time.Second
)

// Usage is the token accounting of the last completed request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// DeepseekIntegration talks to an OpenAI-style chat-completions endpoint.
// One http.Client is shared by every request.
type DeepseekIntegration struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
	lastUsage  *Usage
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      *bool         `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage,omitempty"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// NewDeepseekIntegration fails with a ValidationError when apiKey is empty.
// An empty baseURL or model falls back to the DeepSeek defaults.
func NewDeepseekIntegration(baseURL, apiKey, model string, logger *zap.Logger) (*DeepseekIntegration, error) {
	if apiKey == "" {
		return nil, errors.ValidationErrorf("apiKey cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext

	return &DeepseekIntegration{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout, Transport: transport},
		logger:     logger,
		lastUsage:  &Usage{},
	}, nil
}

func (m *DeepseekIntegration) ModelName() string {
	return m.model
}

// LastUsage returns the usage block of the most recent successful chat.
func (m *DeepseekIntegration) LastUsage() Usage {
	return *m.lastUsage
}

func convertToChatMessages(messages []*entities.Message) []chatMessage {
	apiMessages := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		apiMessages = append(apiMessages, chatMessage{Role: msg.Role, Content: msg.Content})
	}
	return apiMessages
}

func (m *DeepseekIntegration) Chat(ctx context.Context, messages []*entities.Message, options interfaces.ChatOptions) (string, error) {
	model := options.Model
	if model == "" {
		model = m.model
	}
	stream := false
	reqBody := chatRequest{
		Model:       model,
		Messages:    convertToChatMessages(messages),
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		Stream:      &stream,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.InternalErrorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.InternalErrorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	m.logger.Debug("Sending chat request", zap.String("model", model), zap.Int("messages", len(messages)), zap.Int("bytes", len(jsonBody)))

	body, err := m.do(req)
	if err != nil {
		return "", err
	}

	var responseBody chatResponse
	if err := json.Unmarshal(body, &responseBody); err != nil {
		return "", errors.InternalErrorf("failed to parse chat response: %w", err)
	}
	if len(responseBody.Choices) == 0 {
		return "", errors.InternalErrorf("no choices in response")
	}
	if responseBody.Usage != nil {
		*m.lastUsage = *responseBody.Usage
	}

	choice := responseBody.Choices[0]
	m.logger.Debug("Received chat response",
		zap.String("finish_reason", choice.FinishReason),
		zap.Int("content_len", len(choice.Message.Content)),
		zap.Int("total_tokens", m.lastUsage.TotalTokens))
	return choice.Message.Content, nil
}

// ListModels returns the ids served by {base}/v1/models.
func (m *DeepseekIntegration) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, errors.InternalErrorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	body, err := m.do(req)
	if err != nil {
		return nil, err
	}

	var models modelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, errors.InternalErrorf("failed to parse models response: %w", err)
	}
	ids := make([]string, 0, len(models.Data))
	for _, model := range models.Data {
		ids = append(ids, model.ID)
	}
	return ids, nil
}

// do sends req and returns the body of a 2xx response.
func (m *DeepseekIntegration) do(req *http.Request) ([]byte, error) {
	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, errors.CanceledErrorf("request canceled: %w", ctxErr)
		}
		return nil, errors.InternalErrorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.InternalErrorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.logger.Error("Unexpected status code", zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
		return nil, errors.InternalErrorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

var _ interfaces.ChatModel = (*DeepseekIntegration)(nil)

