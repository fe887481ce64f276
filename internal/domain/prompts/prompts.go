package prompts

import (
	_ "embed"
	"strings"
)

//go:embed react_prompt.md
var reactPrompt string

const (
	ToolListPlaceholder         = "${tool_list}"
	operatingSystemPlaceholder  = "${operating_system}"
	workingDirectoryPlaceholder = "${working_directory}"
)

// Environment is interpolated into the system prompt next to the tool
// catalogue. Empty fields render as "unknown".
type Environment struct {
	OperatingSystem  string
	WorkingDirectory string
}

// SystemPrompt returns the ReAct instructions with the tool catalogue in
// place of ${tool_list}.
func SystemPrompt(toolCatalogue string, env Environment) string {
	return strings.NewReplacer(
		ToolListPlaceholder, toolCatalogue,
		operatingSystemPlaceholder, orUnknown(env.OperatingSystem),
		workingDirectoryPlaceholder, orUnknown(env.WorkingDirectory),
	).Replace(reactPrompt)
}

func UserPrompt(text string) string {
	return "<question>" + text + "</question>"
}

func ObservationPrompt(text string) string {
	return "<observation>" + text + "</observation>"
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
