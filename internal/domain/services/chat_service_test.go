package services

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/errors"
	"github.com/drujensen/reactagent/internal/domain/interfaces"
	"github.com/drujensen/reactagent/internal/domain/parser"
	"github.com/drujensen/reactagent/internal/domain/prompts"
	"github.com/drujensen/reactagent/internal/impl/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock model for testing
type MockChatModel struct {
	mock.Mock
}

func (m *MockChatModel) Chat(ctx context.Context, messages []*entities.Message, options interfaces.ChatOptions) (string, error) {
	args := m.Called(ctx, messages, options)
	return args.String(0), args.Error(1)
}

func (m *MockChatModel) ModelName() string {
	return "mock-model"
}

func historyOfLen(n int) any {
	return mock.MatchedBy(func(messages []*entities.Message) bool { return len(messages) == n })
}

func newTestService(model interfaces.ChatModel) *chatService {
	registry := tools.NewDefaultRegistry(zap.NewNop())
	return NewChatService(model, registry, ChatServiceOptions{}, zap.NewNop())
}

func contents(messages []*entities.Message) []string {
	out := make([]string, len(messages))
	for i, msg := range messages {
		out[i] = msg.Content
	}
	return out
}

func TestNewChatService_SystemMessage(t *testing.T) {
	registry := tools.NewDefaultRegistry(zap.NewNop())
	service := NewChatService(new(MockChatModel), registry, ChatServiceOptions{}, zap.NewNop())

	history := service.History()
	require.Len(t, history, 1)
	assert.Equal(t, entities.RoleSystem, history[0].Role)
	assert.Contains(t, history[0].Content, registry.ListTools())
	assert.Equal(t, DefaultMaxSteps, service.maxSteps)
}

func TestSendMessage_FinalAnswerImmediately(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("<final_answer>hello</final_answer>", nil).Once()
	service := newTestService(model)

	result, err := service.SendMessage(context.Background(), "hi", nil)

	require.NoError(t, err)
	require.NotNil(t, result.Answer)
	assert.Equal(t, 1, result.Steps)
	assert.False(t, result.Exhausted)

	history := service.History()
	require.Len(t, history, 3)
	assert.Equal(t, []string{entities.RoleSystem, entities.RoleUser, entities.RoleAssistant},
		[]string{history[0].Role, history[1].Role, history[2].Role})
	assert.Equal(t, prompts.UserPrompt("hi"), history[1].Content)
	assert.Equal(t, "<final_answer>hello</final_answer>", history[2].Content)
	model.AssertExpectations(t)
}

func TestSendMessage_ToolCallThenAnswer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return(parser.RenderAction("write_to_file", []string{path, "bar"}), nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>done</final_answer>", nil).Once()
	service := newTestService(model)

	var seen []*entities.Message
	result, err := service.SendMessage(context.Background(), "write foo", func(msg *entities.Message) {
		seen = append(seen, msg)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Steps)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bar", string(content))

	history := service.History()
	require.Len(t, history, 5)
	assert.Equal(t, entities.RoleUser, history[3].Role)
	assert.Equal(t, prompts.ObservationPrompt(tools.MsgFileWriteSuccess), history[3].Content)
	assert.Equal(t, contents(history[1:]), contents(seen))
	model.AssertExpectations(t)
}

func TestSendMessage_UnknownTool(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("<action>nope()</action>", nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	history := service.History()
	assert.Equal(t, prompts.ObservationPrompt(UnknownToolObservation), history[3].Content)
	model.AssertExpectations(t)
}

func TestSendMessage_WrongArity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return(`<action>write_to_file("`+path+`")</action>`, nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, prompts.ObservationPrompt(tools.MsgArgumentCount), service.History()[3].Content)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSendMessage_NestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return(`<action>write_to_file("`+path+`" @ "z")</action>`, nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, prompts.ObservationPrompt(tools.MsgFileWriteSuccess), service.History()[3].Content)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "z", string(content))
}

func TestSendMessage_MalformedAction(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return(`<action>write_to_file "/tmp/x"</action>`, nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	result, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.NotNil(t, result.Answer)
	observation := service.History()[3].Content
	assert.True(t, strings.HasPrefix(observation, "<observation>malformed action"), observation)
	model.AssertExpectations(t)
}

func TestSendMessage_ProtocolViolation(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("I am just chatting", nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, prompts.ObservationPrompt(ProtocolViolationObservation), service.History()[3].Content)
	model.AssertExpectations(t)
}

func TestSendMessage_FinalAnswerWinsOverAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never")
	reply := `<action>write_to_file("` + path + `" @ "x")</action><final_answer>done</final_answer>`
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(reply, nil).Once()
	service := newTestService(model)

	result, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	require.NotNil(t, result.Answer)
	assert.Len(t, service.History(), 3)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSendMessage_TransportErrorBecomesObservation(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("", errors.InternalErrorf("unexpected status 503: busy")).Once()
	model.On("Chat", mock.Anything, historyOfLen(3), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := newTestService(model)

	result, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Steps)
	history := service.History()
	require.Len(t, history, 4)
	assert.Equal(t, entities.RoleUser, history[2].Role)
	assert.Equal(t, prompts.ObservationPrompt("model request failed: unexpected status 503: busy"), history[2].Content)
	model.AssertExpectations(t)
}

func TestSendMessage_StepBudget(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return("<action>nope()</action>", nil)
	registry := tools.NewDefaultRegistry(zap.NewNop())
	service := NewChatService(model, registry, ChatServiceOptions{MaxSteps: 3}, zap.NewNop())

	result, err := service.SendMessage(context.Background(), "loop forever", nil)

	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Nil(t, result.Answer)
	assert.Equal(t, 3, result.Steps)
	assert.Len(t, service.History(), 2+3*2)
	model.AssertNumberOfCalls(t, "Chat", 3)
}

func TestSendMessage_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return("", context.Canceled).Once()
	service := newTestService(model)

	_, err := service.SendMessage(ctx, "q", nil)

	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Len(t, service.History(), 2)
}

func TestSendMessage_HistoryReplayedAcrossTurns(t *testing.T) {
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("<final_answer>one</final_answer>", nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>two</final_answer>", nil).Once()
	service := newTestService(model)

	_, err := service.SendMessage(context.Background(), "first", nil)
	require.NoError(t, err)
	first := contents(service.History())

	_, err = service.SendMessage(context.Background(), "second", nil)
	require.NoError(t, err)
	second := contents(service.History())

	assert.Equal(t, first, second[:len(first)], "history is append-only")
	assert.Len(t, second, 5)
	model.AssertExpectations(t)
}

func TestSendMessage_ChatOptions(t *testing.T) {
	maxTokens := 64
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, mock.Anything, mock.MatchedBy(func(o interfaces.ChatOptions) bool {
		return o.Model == "deepseek-reasoner" && o.Temperature != nil && *o.Temperature == 0.6 &&
			o.MaxTokens != nil && *o.MaxTokens == 64
	})).Return("<final_answer>ok</final_answer>", nil).Once()
	registry := tools.NewDefaultRegistry(zap.NewNop())
	service := NewChatService(model, registry, ChatServiceOptions{
		Model:     "deepseek-reasoner",
		MaxTokens: &maxTokens,
	}, zap.NewNop())

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	model.AssertExpectations(t)
}

func TestSendMessage_ExplicitTemperature(t *testing.T) {
	zero := 0.0
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, mock.Anything, mock.MatchedBy(func(o interfaces.ChatOptions) bool {
		return o.Temperature != nil && *o.Temperature == 0
	})).Return("<final_answer>ok</final_answer>", nil).Once()
	registry := tools.NewDefaultRegistry(zap.NewNop())
	service := NewChatService(model, registry, ChatServiceOptions{Temperature: &zero}, zap.NewNop())

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	model.AssertExpectations(t)
}

type panickingTool struct{}

func (panickingTool) Metadata() entities.ToolMetadata {
	return entities.ToolMetadata{Name: "boom", Description: "always panics"}
}

func (panickingTool) Call(args []string) string {
	panic("kaboom")
}

func TestSendMessage_ToolPanicBecomesObservation(t *testing.T) {
	registry := tools.NewToolRegistry(zap.NewNop())
	registry.Register(panickingTool{})
	model := new(MockChatModel)
	model.On("Chat", mock.Anything, historyOfLen(2), mock.Anything).Return("<action>boom()</action>", nil).Once()
	model.On("Chat", mock.Anything, historyOfLen(4), mock.Anything).Return("<final_answer>ok</final_answer>", nil).Once()
	service := NewChatService(model, registry, ChatServiceOptions{}, zap.NewNop())

	_, err := service.SendMessage(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Contains(t, service.History()[3].Content, "kaboom")
}
