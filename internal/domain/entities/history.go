package entities

// MessageHistory is the append-only conversation of one session. The first
// message is the system prompt and the full slice is replayed on every model
// call.
type MessageHistory struct {
	messages []*Message
}

func NewMessageHistory() *MessageHistory {
	return &MessageHistory{}
}

func (h *MessageHistory) Append(msg *Message) {
	h.messages = append(h.messages, msg)
}

func (h *MessageHistory) Len() int {
	return len(h.messages)
}

// Messages returns a snapshot; appending to it does not change the history.
func (h *MessageHistory) Messages() []*Message {
	out := make([]*Message, len(h.messages))
	copy(out, h.messages)
	return out
}
