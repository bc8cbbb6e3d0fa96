package errors

// Convenience constructors for common failure modes.

// Config errors

func ConfigNotFound(path string) *ReadmeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(reason string) *ReadmeError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("reason", reason)
}

// InvalidPhaseLocation flags the one rejected phase/location combination:
// a release-phase artifact cannot live in the build staging directory,
// because staging is discarded before the release event fires.
func InvalidPhaseLocation(phase, location string) *ReadmeError {
	return New(CategoryValidation, SeverityFatal, "invalid phase/location combination").
		WithContext("phase", phase).
		WithContext("location", location)
}

func UnknownFormat(format string) *ReadmeError {
	return New(CategoryValidation, SeverityFatal, "no converter registered for output format").
		WithContext("format", format)
}

func InvalidSectionPattern(pattern string, cause error) *ReadmeError {
	return Wrap(cause, CategoryValidation, SeverityFatal, "section pattern does not compile").
		WithContext("pattern", pattern)
}

// Pipeline errors

func ParseFailed(path string, cause error) *ReadmeError {
	return Wrap(cause, CategoryParse, SeverityError, "source document parse failed").
		WithContext("path", path)
}

func RenderFailed(format string, cause error) *ReadmeError {
	return Wrap(cause, CategoryRender, SeverityFatal, "render failed").
		WithContext("format", format)
}

func ArtifactWriteFailed(path string, cause error) *ReadmeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "artifact write failed").
		WithContext("path", path)
}

func WeaveAnchorMissing(anchor string) *ReadmeError {
	return New(CategoryWeave, SeverityError, "weave anchor heading not found").
		WithContext("anchor", anchor)
}

func StateError(operation string, cause error) *ReadmeError {
	return Wrap(cause, CategoryState, SeverityWarning, "state store operation failed").
		WithContext("operation", operation)
}
