package entities

// ActionInvocation is a parsed <action> span: a tool name and its positional
// arguments.
type ActionInvocation struct {
	ToolName string
	Args     []string
}

// TurnResult is what one user question produced once the loop settled.
type TurnResult struct {
	// Answer is the assistant message that carried <final_answer>, nil if the
	// step budget ran out first.
	Answer *Message
	// Steps counts model calls made for this question.
	Steps     int
	Exhausted bool
}
