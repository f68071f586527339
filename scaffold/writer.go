package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillcms/quill/core"
)

// Writer writes generated source files under an output directory.
type Writer struct {
	outDir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{outDir: dir}
}

// WriteStoryFile writes a generated story file under stories/.
func (w *Writer) WriteStoryFile(result core.StructuredResult) (string, error) {
	return w.writeSource("stories", ".stories.tsx", result)
}

// WriteStyleSnippet writes a generated stylesheet under styles/.
func (w *Writer) WriteStyleSnippet(result core.StructuredResult) (string, error) {
	return w.writeSource("styles", ".css", result)
}

// WriteSpecFile writes a generated test spec under specs/.
func (w *Writer) WriteSpecFile(result core.StructuredResult) (string, error) {
	return w.writeSource("specs", ".spec.ts", result)
}

// writeSource validates the filename/source pair of a generated-file
// result and writes it to disk. Directory components in the filename are
// rejected so a generated name cannot escape the output directory.
func (w *Writer) writeSource(subdir, defaultExt string, result core.StructuredResult) (string, error) {
	filename, _ := result["filename"].(string)
	source, _ := result["source"].(string)
	if source == "" {
		return "", fmt.Errorf("generated result has no %q field", "source")
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == ".." || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("generated result has an unusable filename %q", filename)
	}
	if filepath.Ext(filename) == "" {
		filename += defaultExt
	}

	dir := filepath.Join(w.outDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
