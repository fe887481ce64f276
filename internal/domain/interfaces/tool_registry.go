package interfaces

import "github.com/drujensen/reactagent/internal/domain/entities"

type ToolRegistry interface {
	Get(name string) (entities.Tool, bool)
	ListTools() string
}
