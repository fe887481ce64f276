package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/events"
	"github.com/drujensen/reactagent/internal/domain/parser"
	"github.com/drujensen/reactagent/internal/domain/services"

	"go.uber.org/zap"
)

const (
	InputPrompt = "请输入你的指令："
	ExitCommand = "exit"

	maxLineSize = 1024 * 1024
)

// CLI is the interactive console: it reads one question per line and prints
// every turn of the ReAct loop as it happens.
type CLI struct {
	chatService services.ChatService
	in          io.Reader
	out         io.Writer
	renderer    *Renderer
	tokens      *tokenEstimator
	logger      *zap.Logger
}

func NewCLI(chatService services.ChatService, in io.Reader, out io.Writer, logger *zap.Logger) *CLI {
	return &CLI{
		chatService: chatService,
		in:          in,
		out:         out,
		renderer:    NewRenderer(out),
		tokens:      newTokenEstimator(),
		logger:      logger,
	}
}

// Run returns nil on the exit command, end of input or cancellation of ctx.
func (c *CLI) Run(ctx context.Context) error {
	unsubscribe := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
		c.logger.Info("Tool called",
			zap.String("tool", data.Event.ToolName),
			zap.Strings("args", data.Event.Arguments),
			zap.Bool("found", data.Event.Found))
	})
	defer unsubscribe()

	unsubscribeMessages := events.SubscribeToMessageAppendEvents(func(data events.MessageAppendEventData) {
		c.logger.Debug("Message appended",
			zap.Int("index", data.Index),
			zap.String("role", data.Message.Role),
			zap.Int("length", len(data.Message.Content)))
	})
	defer unsubscribeMessages()

	// Stops the reader goroutine once the console is done with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := c.readLines(ctx)

	for {
		fmt.Fprintln(c.out, c.renderer.Prompt(InputPrompt))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\nReceived interrupt signal. Shutting down...")
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}
			line = l
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == ExitCommand {
			fmt.Fprintln(c.out, "Shutting down...")
			return nil
		}

		if c.logger.Core().Enabled(zap.DebugLevel) {
			c.logger.Debug("Sending question", zap.Int("history_tokens", c.tokens.Count(c.chatService.History())))
		}

		result, err := c.chatService.SendMessage(ctx, input, c.displayMessage)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(c.out, "\nReceived interrupt signal. Shutting down...")
				return nil
			}
			c.logger.Error("Failed to process question", zap.Error(err))
			return err
		}

		if result.Exhausted {
			fmt.Fprintln(c.out, c.renderer.Notice(fmt.Sprintf("No final answer after %d steps; ask again to let the agent continue.", result.Steps)))
			continue
		}
		answer, _ := parser.ExtractFinalAnswer(result.Answer.Content)
		fmt.Fprintln(c.out, c.renderer.AnswerLabel("Final answer:"))
		fmt.Fprintln(c.out, answer)
	}
}

// readLines feeds stdin lines to the loop so a blocked read never delays
// shutdown. The error channel receives the scanner error before lines closes.
func (c *CLI) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

// displayMessage prints a turn with a role label; the question itself was
// just typed by the user and is not echoed.
func (c *CLI) displayMessage(msg *entities.Message) {
	switch {
	case msg.Role == entities.RoleAssistant:
		fmt.Fprintf(c.out, "%s\n%s\n", c.renderer.AssistantLabel("Assistant:"), msg.Content)
	case msg.Role == entities.RoleUser && strings.HasPrefix(msg.Content, "<observation>"):
		fmt.Fprintf(c.out, "%s\n%s\n", c.renderer.ObservationLabel("Observation:"), msg.Content)
	}
}
