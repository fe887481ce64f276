package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Renderer styles console labels. Colors follow the capabilities of the
// output writer, so piped output stays plain.
type Renderer struct {
	prompt      lipgloss.Style
	assistant   lipgloss.Style
	observation lipgloss.Style
	answer      lipgloss.Style
	notice      lipgloss.Style
}

func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		prompt:      r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		assistant:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		observation: r.NewStyle().Foreground(lipgloss.Color("11")),
		answer:      r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		notice:      r.NewStyle().Foreground(lipgloss.Color("9")).Italic(true),
	}
}

func (r *Renderer) Prompt(s string) string           { return r.prompt.Render(s) }
func (r *Renderer) AssistantLabel(s string) string   { return r.assistant.Render(s) }
func (r *Renderer) ObservationLabel(s string) string { return r.observation.Render(s) }
func (r *Renderer) AnswerLabel(s string) string      { return r.answer.Render(s) }
func (r *Renderer) Notice(s string) string           { return r.notice.Render(s) }
