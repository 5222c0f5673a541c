// Package errors provides the classified error primitives used across the release tool.
//
// Every failure a release stage can produce maps onto one ErrorCategory (version conflict,
// repository sync, dependency compile, product configure/compile, doc conversion, fragment
// copy, packaging) so the CLI can print a stage-qualified message and pick an exit code
// without parsing strings.
//
// Example usage:
//
//	err := errors.DependencyCompileError("failed to compile asar").
//		WithContext("revision", "c-v1.91-2").
//		WithContext("architecture", "Win32").
//		WithCause(runErr).
//		Build()
package errors
