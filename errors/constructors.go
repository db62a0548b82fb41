package errors

import "fmt"

// BoundaryViolation creates a sandbox escape error. The offending path is the
// path as requested, not the resolved absolute location.
func BoundaryViolation(path string) *BotError {
	return New(ErrCodeBoundaryViolation,
		fmt.Sprintf("path '%s' resolves outside the content root", path)).
		WithDetail("path", path)
}

// NotFound creates a missing tree node error
func NotFound(path string) *BotError {
	return New(ErrCodeNotFound, fmt.Sprintf("'%s' not found", path)).
		WithDetail("path", path)
}

// IOFailure creates a document read failure error
func IOFailure(path string, err error) *BotError {
	return Wrap(err, ErrCodeIOFailure, fmt.Sprintf("failed to read '%s'", path)).
		WithDetail("path", path)
}

// UnknownToken creates a stale or forged reference error
func UnknownToken(token string) *BotError {
	return New(ErrCodeUnknownToken,
		fmt.Sprintf("token '%s' was not issued by this process", token)).
		WithDetail("token", token)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *BotError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *BotError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// QueryTooShort creates an error for search queries below the minimum length
func QueryTooShort(minLen int) *BotError {
	return New(ErrCodeInvalidInput,
		fmt.Sprintf("search query must be at least %d characters", minLen)).
		WithDetail("minLength", minLen)
}
