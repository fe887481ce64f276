package entities

import (
	"time"

	"github.com/google/uuid"
)

// ToolCallEvent records one dispatch of an <action>.
type ToolCallEvent struct {
	ID        string    `json:"id"`
	ToolName  string    `json:"tool_name"`
	Arguments []string  `json:"arguments"`
	Result    string    `json:"result"`
	Found     bool      `json:"found"`
	Timestamp time.Time `json:"timestamp"`
}

func NewToolCallEvent(action ActionInvocation, result string, found bool) *ToolCallEvent {
	return &ToolCallEvent{
		ID:        uuid.New().String(),
		ToolName:  action.ToolName,
		Arguments: action.Args,
		Result:    result,
		Found:     found,
		Timestamp: time.Now(),
	}
}
