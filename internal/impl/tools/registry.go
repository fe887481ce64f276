package tools

import (
	"sort"
	"strings"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/interfaces"

	"go.uber.org/zap"
)

// ToolRegistry maps tool names to tools. It is filled once at session start
// and only read afterwards. Registering a name twice keeps the later tool.
type ToolRegistry struct {
	toolsByName map[string]entities.Tool
	logger      *zap.Logger
}

func NewToolRegistry(logger *zap.Logger) *ToolRegistry {
	return &ToolRegistry{
		toolsByName: make(map[string]entities.Tool),
		logger:      logger,
	}
}

func (r *ToolRegistry) Register(tool entities.Tool) {
	name := tool.Metadata().Name
	if _, exists := r.toolsByName[name]; exists {
		r.logger.Warn("Replacing registered tool", zap.String("tool", name))
	}
	r.toolsByName[name] = tool
}

func (r *ToolRegistry) Get(name string) (entities.Tool, bool) {
	tool, exists := r.toolsByName[name]
	return tool, exists
}

// Names returns the registered tool names in sorted order.
func (r *ToolRegistry) Names() []string {
	names := make([]string, 0, len(r.toolsByName))
	for name := range r.toolsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTools renders the catalogue for the system prompt, one
// "- name: description" line per tool, sorted by name.
func (r *ToolRegistry) ListTools() string {
	lines := make([]string, 0, len(r.toolsByName))
	for _, name := range r.Names() {
		lines = append(lines, "- "+name+": "+r.toolsByName[name].Metadata().Description)
	}
	return strings.Join(lines, "\n")
}

var _ interfaces.ToolRegistry = (*ToolRegistry)(nil)
