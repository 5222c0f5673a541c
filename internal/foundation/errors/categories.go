package errors

import (
	"maps"
	"slices"
)

// ErrorCategory names the kind of failure; the CLI maps it to an exit code.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// CategoryVersionConflict means the proposed release version is already tagged.
	CategoryVersionConflict ErrorCategory = "version_conflict"

	// CategoryRepoSync covers clone, fetch, checkout, reset and remote listing failures.
	CategoryRepoSync ErrorCategory = "repo_sync"

	CategoryDependencyCompile ErrorCategory = "dependency_compile"
	CategoryProductConfigure  ErrorCategory = "product_configure"
	CategoryProductCompile    ErrorCategory = "product_compile"

	CategoryDocConversion ErrorCategory = "doc_conversion"
	CategoryFragmentCopy  ErrorCategory = "fragment_copy"
	CategoryPackaging     ErrorCategory = "packaging"
	CategoryFileSystem    ErrorCategory = "filesystem"

	// CategoryCanceled is an interrupted run (SIGINT/SIGTERM).
	CategoryCanceled ErrorCategory = "canceled"
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes is the process exit status per category. Build tool failures share 11.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:        2,
	CategoryVersionConflict:   3,
	CategoryAuth:              5,
	CategoryConfig:            7,
	CategoryRepoSync:          8,
	CategoryInternal:          10,
	CategoryDependencyCompile: 11,
	CategoryProductConfigure:  11,
	CategoryProductCompile:    11,
	CategoryCanceled:          12,
	CategoryDocConversion:     13,
	CategoryFragmentCopy:      14,
	CategoryFileSystem:        14,
	CategoryPackaging:         15,
}

// ExitCode returns the process exit status for the category; unknown categories exit 1.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext holds the key/value details attached to an error (revision, arch, page...).
type ErrorContext map[string]any

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Keys returns the context keys, sorted.
func (c ErrorContext) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// merge returns a new context holding c overlaid with other.
func (c ErrorContext) merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
