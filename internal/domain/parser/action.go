package parser

import (
	"regexp"
	"strings"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/errors"
)

const (
	// ArgSeparator splits action arguments; it cannot be escaped.
	ArgSeparator = "@"

	actionOpen      = "<action>"
	finalAnswerOpen = "<final_answer>"
)

var (
	actionPattern      = regexp.MustCompile(`(?s)<action>(.*?)</action>`)
	finalAnswerPattern = regexp.MustCompile(`(?s)<final_answer>(.*?)</final_answer>`)
	thoughtPattern     = regexp.MustCompile(`(?s)<thought>(.*?)</thought>`)
)

func HasAction(text string) bool {
	return strings.Contains(text, actionOpen)
}

func HasFinalAnswer(text string) bool {
	return strings.Contains(text, finalAnswerOpen)
}

// ParseAction extracts the first <action>name(arg @ arg)</action> span.
// Every failure is a ValidationError whose message starts with
// "malformed action".
func ParseAction(text string) (entities.ActionInvocation, error) {
	match := actionPattern.FindStringSubmatch(text)
	if match == nil {
		return entities.ActionInvocation{}, errors.ValidationErrorf("malformed action: no <action>...</action> span found")
	}
	expr := strings.TrimSpace(match[1])

	name, params, found := strings.Cut(expr, "(")
	if !found {
		return entities.ActionInvocation{}, errors.ValidationErrorf("malformed action: missing '(' in %q", expr)
	}
	params = strings.TrimSpace(params)
	if !strings.HasSuffix(params, ")") {
		return entities.ActionInvocation{}, errors.ValidationErrorf("malformed action: missing ')' in %q", expr)
	}
	params = strings.TrimSuffix(params, ")")

	name = trimArgument(name)
	if name == "" {
		return entities.ActionInvocation{}, errors.ValidationErrorf("malformed action: empty tool name in %q", expr)
	}

	args := make([]string, 0)
	for _, fragment := range strings.Split(params, ArgSeparator) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		args = append(args, trimArgument(fragment))
	}

	return entities.ActionInvocation{ToolName: name, Args: args}, nil
}

// RenderAction is the inverse of ParseAction for names and arguments that
// contain neither '@' nor unbalanced quotes.
func RenderAction(name string, args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = `"` + arg + `"`
	}
	return actionOpen + name + "(" + strings.Join(quoted, " "+ArgSeparator+" ") + ")</action>"
}

// ExtractFinalAnswer returns the inner text of the first <final_answer> span.
// An unterminated span yields everything after the opening tag.
func ExtractFinalAnswer(text string) (string, bool) {
	if match := finalAnswerPattern.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1]), true
	}
	if _, rest, found := strings.Cut(text, finalAnswerOpen); found {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func ExtractThought(text string) (string, bool) {
	match := thoughtPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// trimArgument strips surrounding whitespace and one pair of double quotes.
func trimArgument(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}
