package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists backtest result artifacts as JSON under an output
// directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a Writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// OutputDir returns the artifact directory.
func (w *Writer) OutputDir() string { return w.outputDir }

// WriteResult writes one run's result and returns the artifact path.
func (w *Writer) WriteResult(result *Result) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("backtest_%s.json", result.StartedAt.UTC().Format("20060102T150405Z"))
	path := filepath.Join(w.outputDir, name)

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}
