package entities

// ToolMetadata describes a tool to the model. Name is the dispatch key and is
// unique within a registry.
type ToolMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tool is a synchronous capability the agent can invoke on the host.
// Implementations never fail through an error: every failure is reported in
// the returned text so the model can react to it.
type Tool interface {
	Metadata() ToolMetadata
	Call(args []string) string
}
