package tools

import (
	"sort"

	"github.com/drujensen/reactagent/internal/domain/entities"
	"github.com/drujensen/reactagent/internal/domain/errors"

	"go.uber.org/zap"
)

type ToolFactoryEntry struct {
	Name        string
	Description string
	Factory     func(name, description string, logger *zap.Logger) entities.Tool
}

type ToolFactory struct {
	toolFactories map[string]*ToolFactoryEntry
}

func NewToolFactory() *ToolFactory {
	toolFactory := &ToolFactory{}
	toolFactory.toolFactories = make(map[string]*ToolFactoryEntry)

	toolFactory.toolFactories[WriteToFileToolName] = &ToolFactoryEntry{
		Name:        WriteToFileToolName,
		Description: `Write text to a file, creating missing parent directories and replacing any existing file. Usage: write_to_file("/absolute/path" @ "content")`,
		Factory: func(name, description string, logger *zap.Logger) entities.Tool {
			return NewFileWriteTool(name, description, logger)
		},
	}
	toolFactory.toolFactories[ReadFileToolName] = &ToolFactoryEntry{
		Name:        ReadFileToolName,
		Description: `Read a text file and return its content. Usage: read_file("/absolute/path")`,
		Factory: func(name, description string, logger *zap.Logger) entities.Tool {
			return NewFileReadTool(name, description, logger)
		},
	}

	return toolFactory
}

// ListFactories returns the entries sorted by name.
func (t *ToolFactory) ListFactories() []*ToolFactoryEntry {
	factories := make([]*ToolFactoryEntry, 0, len(t.toolFactories))
	for _, factory := range t.toolFactories {
		factories = append(factories, factory)
	}
	sort.Slice(factories, func(i, j int) bool { return factories[i].Name < factories[j].Name })
	return factories
}

func (t *ToolFactory) GetFactoryByName(name string) (*ToolFactoryEntry, error) {
	factory, exists := t.toolFactories[name]
	if !exists {
		return nil, errors.NotFoundErrorf("tool factory with name '%s' not found", name)
	}
	return factory, nil
}

// NewDefaultRegistry builds a registry holding one instance of every tool the
// factory knows.
func NewDefaultRegistry(logger *zap.Logger) *ToolRegistry {
	registry := NewToolRegistry(logger)
	for _, entry := range NewToolFactory().ListFactories() {
		registry.Register(entry.Factory(entry.Name, entry.Description, logger))
	}
	return registry
}
