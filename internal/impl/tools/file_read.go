package tools

import (
	"os"

	"github.com/drujensen/reactagent/internal/domain/entities"

	"go.uber.org/zap"
)

const (
	ReadFileToolName = "read_file"

	MsgFileReadFailed = "文件读取失败"
	MsgFileTooLarge   = "文件过大"

	maxReadSize int64 = 1 << 20
)

// FileReadTool returns the content of a text file. args = [path].
type FileReadTool struct {
	name        string
	description string
	logger      *zap.Logger
}

func NewFileReadTool(name, description string, logger *zap.Logger) *FileReadTool {
	return &FileReadTool{
		name:        name,
		description: description,
		logger:      logger,
	}
}

func (t *FileReadTool) Metadata() entities.ToolMetadata {
	return entities.ToolMetadata{Name: t.name, Description: t.description}
}

func (t *FileReadTool) Call(args []string) string {
	if len(args) != 1 {
		t.logger.Warn("Wrong number of arguments", zap.String("tool", t.name), zap.Int("count", len(args)))
		return MsgArgumentCount
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		t.logger.Error("Cannot read file", zap.String("path", path), zap.Error(err))
		return MsgFileReadFailed
	}
	if info.Size() > maxReadSize {
		t.logger.Warn("File exceeds read limit", zap.String("path", path), zap.String("size", formatSize(info.Size())))
		return MsgFileTooLarge + " (" + formatSize(info.Size()) + ")"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.logger.Error("Failed to read file", zap.String("path", path), zap.Error(err))
		return MsgFileReadFailed
	}
	t.logger.Debug("File read", zap.String("path", path), zap.String("size", formatSize(info.Size())))
	return string(data)
}

var _ entities.Tool = (*FileReadTool)(nil)
