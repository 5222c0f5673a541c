package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "release.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "release.yaml" {
			t.Errorf("expected context file=release.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		inner := DependencyCompileError("failed to compile asar").
			WithContext("revision", "c-v1.91-2").
			WithContext("architecture", "Win32").
			Build()
		wrapped := fmt.Errorf("stage build_dependency: %w", inner)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryDependencyCompile) {
			t.Error("expected dependency_compile category through wrap")
		}
		rev, ok := ContextString(wrapped, "revision")
		if !ok || rev != "c-v1.91-2" {
			t.Errorf("expected revision context, got %q", rev)
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain error to map to internal")
		}
	})

	t.Run("Error string", func(t *testing.T) {
		cause := errors.New("exit status 1")
		err := WrapError(cause, CategoryPackaging, "failed to write archive").Build()
		if got, want := err.Error(), "[packaging] failed to write archive: exit status 1"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
		{"VersionConflictError", VersionConflictError("test"), CategoryVersionConflict, SeverityFatal},
		{"RepoSyncError", RepoSyncError("test"), CategoryRepoSync, SeverityFatal},
		{"DependencyCompileError", DependencyCompileError("test"), CategoryDependencyCompile, SeverityFatal},
		{"ProductConfigureError", ProductConfigureError("test"), CategoryProductConfigure, SeverityFatal},
		{"ProductCompileError", ProductCompileError("test"), CategoryProductCompile, SeverityFatal},
		{"DocConversionError", DocConversionError("test"), CategoryDocConversion, SeverityFatal},
		{"FragmentCopyError", FragmentCopyError("test"), CategoryFragmentCopy, SeverityFatal},
		{"PackagingError", PackagingError("test"), CategoryPackaging, SeverityFatal},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	t.Run("keys are sorted", func(t *testing.T) {
		ctx := ErrorContext{"revision": "c-v1.91-2", "architecture": "Win32", "count": 2}
		if got := strings.Join(ctx.Keys(), ","); got != "architecture,count,revision" {
			t.Errorf("Keys() = %q", got)
		}
		if _, ok := ctx.GetString("count"); ok {
			t.Error("expected non-string value to be rejected")
		}
	})

	t.Run("context map overrides earlier keys", func(t *testing.T) {
		err := PackagingError("zip failed").
			WithContext("path", "a").
			WithContextMap(ErrorContext{"path": "b", "entry": "asar/"}).
			Build()
		if p, _ := err.Context().GetString("path"); p != "b" {
			t.Errorf("expected path=b, got %q", p)
		}
	})

	t.Run("built errors do not share context", func(t *testing.T) {
		b := RepoSyncError("fetch failed").WithContext("url", "a")
		first := b.Build()
		second := b.WithContext("ref", "master").Build()
		if _, ok := first.Context().GetString("ref"); ok {
			t.Error("expected first error context to stay unchanged")
		}
		if ref, _ := second.Context().GetString("ref"); ref != "master" {
			t.Errorf("expected ref=master, got %q", ref)
		}
	})

	t.Run("log attributes", func(t *testing.T) {
		err := DependencyCompileError("x").WithContext("revision", "r").WithContext("architecture", "a").Build()
		attrs := err.LogAttrs()
		var keys []string
		for _, a := range attrs {
			keys = append(keys, a.Key)
		}
		if got := strings.Join(keys, ","); got != "category,architecture,revision" {
			t.Errorf("LogAttrs keys = %q", got)
		}
	})
}

func TestExitCodes(t *testing.T) {
	if CategoryDependencyCompile.ExitCode() != CategoryProductCompile.ExitCode() {
		t.Error("expected build tool failures to share an exit code")
	}
	if ErrorCategory("unknown").ExitCode() != 1 {
		t.Error("expected unknown category to exit 1")
	}
}
