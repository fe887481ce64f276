package tools

import (
	"os"
	"path/filepath"

	"github.com/drujensen/reactagent/internal/domain/entities"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

const (
	WriteToFileToolName = "write_to_file"

	MsgArgumentCount    = "参数个数错误"
	MsgDirCreateFailed  = "文件夹创建失败"
	MsgFileWriteFailed  = "文件写入失败"
	MsgFileWriteSuccess = "写入成功"
)

// FileWriteTool writes content to a path, creating missing parent directories
// and replacing any existing file. args = [path, content].
type FileWriteTool struct {
	name        string
	description string
	logger      *zap.Logger
}

func NewFileWriteTool(name, description string, logger *zap.Logger) *FileWriteTool {
	return &FileWriteTool{
		name:        name,
		description: description,
		logger:      logger,
	}
}

func (t *FileWriteTool) Metadata() entities.ToolMetadata {
	return entities.ToolMetadata{Name: t.name, Description: t.description}
}

func (t *FileWriteTool) Call(args []string) string {
	if len(args) != 2 {
		t.logger.Warn("Wrong number of arguments", zap.String("tool", t.name), zap.Int("count", len(args)))
		return MsgArgumentCount
	}
	path, content := args[0], args[1]
	t.logger.Debug("Executing file write", zap.String("path", path), zap.String("size", formatSize(int64(len(content)))))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.logger.Error("Failed to create directory", zap.String("dir", dir), zap.Error(err))
		return MsgDirCreateFailed
	}

	if previous, err := os.ReadFile(path); err == nil {
		t.logDiff(path, string(previous), content)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return MsgFileWriteFailed
	}

	t.logger.Info("File written successfully", zap.String("path", path), zap.String("size", formatSize(int64(len(content)))))
	return MsgFileWriteSuccess
}

// logDiff records what an overwrite replaced. It only runs at debug level.
func (t *FileWriteTool) logDiff(path, original, modified string) {
	if !t.logger.Core().Enabled(zap.DebugLevel) || original == modified {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	diffStr, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		t.logger.Warn("Failed to generate diff", zap.Error(err))
		return
	}
	t.logger.Debug("Overwriting file", zap.String("path", path), zap.String("diff", diffStr))
}

var _ entities.Tool = (*FileWriteTool)(nil)
