package services

import (
	"context"
	"fmt"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/errors"
	"github.com/drujensen/reactagent/internal/domain/events"
	"github.com/drujensen/reactagent/internal/domain/interfaces"
	"github.com/drujensen/reactagent/internal/domain/parser"
	"github.com/drujensen/reactagent/internal/domain/prompts"

	"go.uber.org/zap"
)

const (
	DefaultTemperature = 0.6
	DefaultMaxSteps    = 10

	UnknownToolObservation       = "agent 工具解析出现错误"
	ProtocolViolationObservation = "protocol violation: every reply must contain exactly one <action>...</action> or <final_answer>...</final_answer>"
)

// MessageCallback receives every message appended during a turn, in order.
type MessageCallback func(msg *entities.Message)

// ChatService drives the ReAct loop for a single session.
type ChatService interface {
	// SendMessage runs one user question until the model gives a final answer
	// or the step budget is spent. Only cancellation of ctx is an error;
	// every other failure is fed back to the model as an observation.
	SendMessage(ctx context.Context, input string, callback MessageCallback) (*entities.TurnResult, error)
	History() []*entities.Message
}

type ChatServiceOptions struct {
	// Model overrides the ChatModel's own model name when set.
	Model string
	// Temperature falls back to DefaultTemperature when nil.
	Temperature *float64
	MaxTokens   *int
	MaxSteps    int
	Environment prompts.Environment
}

type chatService struct {
	model    interfaces.ChatModel
	registry interfaces.ToolRegistry
	history  *entities.MessageHistory
	options  interfaces.ChatOptions
	maxSteps int
	logger   *zap.Logger
}

// NewChatService starts the session: the system prompt, built from the
// registry catalogue as it is now, becomes the first message.
func NewChatService(model interfaces.ChatModel, registry interfaces.ToolRegistry, opts ChatServiceOptions, logger *zap.Logger) *chatService {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	s := &chatService{
		model:    model,
		registry: registry,
		history:  entities.NewMessageHistory(),
		options: interfaces.ChatOptions{
			Model:       opts.Model,
			Temperature: &temperature,
			MaxTokens:   opts.MaxTokens,
		},
		maxSteps: opts.MaxSteps,
		logger:   logger,
	}
	s.appendMessage(entities.RoleSystem, prompts.SystemPrompt(registry.ListTools(), opts.Environment), nil)
	return s
}

func (s *chatService) History() []*entities.Message {
	return s.history.Messages()
}

func (s *chatService) SendMessage(ctx context.Context, input string, callback MessageCallback) (*entities.TurnResult, error) {
	s.appendMessage(entities.RoleUser, prompts.UserPrompt(input), callback)

	result := &entities.TurnResult{}
	for result.Steps < s.maxSteps {
		if err := ctx.Err(); err != nil {
			return result, errors.CanceledErrorf("turn canceled: %w", err)
		}
		result.Steps++

		reply, err := s.model.Chat(ctx, s.history.Messages(), s.options)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, errors.CanceledErrorf("turn canceled: %w", ctxErr)
			}
			s.logger.Warn("Model request failed", zap.Int("step", result.Steps), zap.Error(err))
			s.appendObservation(fmt.Sprintf("model request failed: %v", err), callback)
			continue
		}

		assistant := s.appendMessage(entities.RoleAssistant, reply, callback)
		switch {
		case parser.HasFinalAnswer(reply):
			result.Answer = assistant
			return result, nil
		case parser.HasAction(reply):
			s.appendObservation(s.act(reply), callback)
		default:
			s.logger.Warn("Reply has neither action nor final answer", zap.Int("step", result.Steps))
			s.appendObservation(ProtocolViolationObservation, callback)
		}
	}

	s.logger.Warn("Step budget exhausted", zap.Int("max_steps", s.maxSteps))
	result.Exhausted = true
	return result, nil
}

// act parses the first action in reply, dispatches it and returns the text to
// observe.
func (s *chatService) act(reply string) string {
	action, err := parser.ParseAction(reply)
	if err != nil {
		s.logger.Warn("Malformed action", zap.Error(err))
		return err.Error()
	}

	tool, found := s.registry.Get(action.ToolName)
	result := UnknownToolObservation
	if found {
		result = s.callTool(tool, action)
	} else {
		s.logger.Warn("Unknown tool", zap.String("tool", action.ToolName))
	}

	events.PublishToolCallEvent(entities.NewToolCallEvent(action, result, found))
	return result
}

func (s *chatService) callTool(tool entities.Tool, action entities.ActionInvocation) (result string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Tool panicked", zap.String("tool", action.ToolName), zap.Any("panic", r))
			result = fmt.Sprintf("tool %s failed: %v", action.ToolName, r)
		}
	}()
	s.logger.Debug("Calling tool", zap.String("tool", action.ToolName), zap.Strings("args", action.Args))
	return tool.Call(action.Args)
}

func (s *chatService) appendObservation(text string, callback MessageCallback) {
	s.appendMessage(entities.RoleUser, prompts.ObservationPrompt(text), callback)
}

func (s *chatService) appendMessage(role, content string, callback MessageCallback) *entities.Message {
	msg := entities.NewMessage(role, content)
	s.history.Append(msg)
	events.PublishMessageAppendEvent(s.history.Len()-1, msg)
	if callback != nil {
		callback(msg)
	}
	return msg
}
