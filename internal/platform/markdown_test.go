package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceHeader(t *testing.T) {
	expected := "<!-- Original Source: https://youtu.be/dQw4w9WgXcQ -->\n\n"
	if got := SourceHeader("https://youtu.be/dQw4w9WgXcQ"); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "2024-01-01_report.md")
	markdown := "# 報告書\n\n本文\n"

	if err := WriteMarkdown(path, "/tmp/report.pdf", markdown); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	expected := "<!-- Original Source: /tmp/report.pdf -->\n\n" + markdown
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestWriteMarkdown_EmptyPath(t *testing.T) {
	if err := WriteMarkdown("", "src", "md"); err == nil {
		t.Error("Expected error for empty path")
	}
}
