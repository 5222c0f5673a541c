package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCategory overrides the category chosen at construction time.
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.category = category
	return b
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context[key] = value
	return b
}

// WithContextMap adds multiple context values; ctx wins over keys already set.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.merge(ctx)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Build creates the final ClassifiedError. The builder may be reused; the error keeps
// its own copy of the context.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context.merge(nil),
	}
}

// Convenience constructors for common error patterns

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// VersionConflictError creates an error for an already released version.
func VersionConflictError(message string) *ErrorBuilder {
	return NewError(CategoryVersionConflict, message).Fatal()
}

// RepoSyncError creates a repository synchronization error.
func RepoSyncError(message string) *ErrorBuilder {
	return NewError(CategoryRepoSync, message).Fatal()
}

// DependencyCompileError creates an error for one failed dependency matrix cell.
func DependencyCompileError(message string) *ErrorBuilder {
	return NewError(CategoryDependencyCompile, message).Fatal()
}

// ProductConfigureError creates an error for a failed product configure step.
func ProductConfigureError(message string) *ErrorBuilder {
	return NewError(CategoryProductConfigure, message).Fatal()
}

// ProductCompileError creates an error for a failed product compile step.
func ProductCompileError(message string) *ErrorBuilder {
	return NewError(CategoryProductCompile, message).Fatal()
}

// DocConversionError creates an error for a documentation page that failed to convert.
func DocConversionError(message string) *ErrorBuilder {
	return NewError(CategoryDocConversion, message).Fatal()
}

// FragmentCopyError creates an error for a missing or unreadable copy source.
func FragmentCopyError(message string) *ErrorBuilder {
	return NewError(CategoryFragmentCopy, message).Fatal()
}

// PackagingError creates an archive creation error.
func PackagingError(message string) *ErrorBuilder {
	return NewError(CategoryPackaging, message).Fatal()
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
