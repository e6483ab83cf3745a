package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceHeader is the comment line prepended to every saved or previewed file
func SourceHeader(source string) string {
	return fmt.Sprintf("<!-- Original Source: %s -->\n\n", source)
}

// WithSourceHeader returns markdown prefixed by the source header
func WithSourceHeader(source, markdown string) string {
	return SourceHeader(source) + markdown
}

// WriteMarkdown writes the source header and markdown to path, creating
// parent directories. The content is written as UTF-8 bytes unchanged.
func WriteMarkdown(path, source, markdown string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(WithSourceHeader(source, markdown)), DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
