package events

import (
	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/kelindar/event"
)

// Event types
const (
	ToolCallEventType      uint32 = 1
	MessageAppendEventType uint32 = 2
)

// ToolCallEventData wraps the ToolCallEvent for publishing
type ToolCallEventData struct {
	Event *entities.ToolCallEvent
}

// MessageAppendEventData carries a message just appended to the history
// together with its position.
type MessageAppendEventData struct {
	Index   int
	Message *entities.Message
}

func (t ToolCallEventData) Type() uint32 {
	return ToolCallEventType
}

func (m MessageAppendEventData) Type() uint32 {
	return MessageAppendEventType
}

func PublishToolCallEvent(toolEvent *entities.ToolCallEvent) {
	event.Emit(ToolCallEventData{Event: toolEvent})
}

// SubscribeToToolCallEvents returns the function that cancels the subscription.
func SubscribeToToolCallEvents(handler func(data ToolCallEventData)) func() {
	return event.On(handler)
}

func PublishMessageAppendEvent(index int, msg *entities.Message) {
	event.Emit(MessageAppendEventData{Index: index, Message: msg})
}

func SubscribeToMessageAppendEvents(handler func(data MessageAppendEventData)) func() {
	return event.On(handler)
}
