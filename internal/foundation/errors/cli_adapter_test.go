package errors

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad version").Build(), expected: 2},
		{name: "version conflict", err: VersionConflictError("v0.2.4 already used").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "repo sync", err: RepoSyncError("clone failed").Build(), expected: 8},
		{name: "dependency compile", err: DependencyCompileError("cmake failed").Build(), expected: 11},
		{name: "product compile", err: ProductCompileError("cmake failed").Build(), expected: 11},
		{name: "doc conversion", err: DocConversionError("pandoc failed").Build(), expected: 13},
		{name: "fragment copy", err: FragmentCopyError("missing").Build(), expected: 14},
		{name: "packaging", err: PackagingError("zip failed").Build(), expected: 15},
		{
			name:     "wrapped classified",
			err:      fmt.Errorf("stage archive: %w", PackagingError("zip failed").Build()),
			expected: 15,
		},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := fmt.Errorf("fatal stage build_dependency[asar@c-v1.91-2/Win32]: %w",
		DependencyCompileError("failed to compile asar c-v1.91-2 for Win32").
			WithContext("architecture", "Win32").
			WithContext("revision", "c-v1.91-2").
			Build())

	t.Run("non-verbose keeps stage and cell", func(t *testing.T) {
		msg := NewCLIErrorAdapter(false, nil).FormatError(err)
		if !strings.HasPrefix(msg, "Error: ") {
			t.Errorf("expected Error: prefix, got %q", msg)
		}
		if !strings.Contains(msg, "build_dependency[asar@c-v1.91-2/Win32]") {
			t.Errorf("expected stage name in message, got %q", msg)
		}
		if strings.Contains(msg, "\n") {
			t.Errorf("expected single line without verbose, got %q", msg)
		}
	})

	t.Run("verbose lists context sorted", func(t *testing.T) {
		msg := NewCLIErrorAdapter(true, nil).FormatError(err)
		arch := strings.Index(msg, "architecture: Win32")
		rev := strings.Index(msg, "revision: c-v1.91-2")
		if arch < 0 || rev < 0 || arch > rev {
			t.Errorf("expected sorted context lines, got %q", msg)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if NewCLIErrorAdapter(false, nil).FormatError(nil) != "" {
			t.Error("expected empty message for nil error")
		}
	})
}
