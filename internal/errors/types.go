package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeRegistry ErrorType = "registry"
	ErrorTypeAsset    ErrorType = "asset"
	ErrorTypeCompile  ErrorType = "compile"
	ErrorTypeView     ErrorType = "view"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeNotRegistered   = "COMPONENT_NOT_REGISTERED"
	ErrCodeManifestMissing = "MANIFEST_MISSING"
	ErrCodeAssetNotFound   = "ASSET_NOT_FOUND"
	ErrCodeMalformed       = "DIRECTIVE_MALFORMED"
	ErrCodeTooManyArgs     = "DIRECTIVE_TOO_MANY_ARGUMENTS"
	ErrCodeTemplateMissing = "TEMPLATE_MISSING"
	ErrCodeTemplateFailed  = "TEMPLATE_FAILED"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeInternalError   = "INTERNAL"
)

// DefaultComponent is the name carried by a NotRegistered error when the
// lookup was made without a name and no default component exists.
const DefaultComponent = "default"

// HelperError is a structured error type with context.
type HelperError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
}

// Error implements the error interface.
func (e *HelperError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *HelperError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *HelperError) Is(target error) bool {
	var t *HelperError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *HelperError) WithContext(key string, value interface{}) *HelperError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *HelperError) WithComponent(component string) *HelperError {
	e.Component = component

	return e
}

// Sentinels for errors.Is comparisons. Only Type and Code take part in the
// comparison, so any error built by the constructors below matches.
var (
	ErrNotRegistered   = &HelperError{Type: ErrorTypeRegistry, Code: ErrCodeNotRegistered}
	ErrManifestMissing = &HelperError{Type: ErrorTypeAsset, Code: ErrCodeManifestMissing}
	ErrAssetNotFound   = &HelperError{Type: ErrorTypeAsset, Code: ErrCodeAssetNotFound}
)

// NotRegistered reports that no component is registered under name.
func NotRegistered(name string) *HelperError {
	return &HelperError{
		Type:      ErrorTypeRegistry,
		Code:      ErrCodeNotRegistered,
		Message:   fmt.Sprintf("component %q has not been registered", name),
		Component: name,
	}
}

// ManifestMissing reports that the asset manifest at path does not exist.
func ManifestMissing(path string, cause error) *HelperError {
	return (&HelperError{
		Type:    ErrorTypeAsset,
		Code:    ErrCodeManifestMissing,
		Message: "the Mix manifest does not exist",
		Cause:   cause,
	}).WithContext("path", path)
}

// AssetNotFound reports an identifier missing from the asset manifest.
func AssetNotFound(identifier string) *HelperError {
	return (&HelperError{
		Type:    ErrorTypeAsset,
		Code:    ErrCodeAssetNotFound,
		Message: fmt.Sprintf("unable to locate Mix file: %s", identifier),
	}).WithContext("identifier", identifier)
}

// NewCompileError creates a directive compilation error.
func NewCompileError(code, message string) *HelperError {
	return &HelperError{
		Type:    ErrorTypeCompile,
		Code:    code,
		Message: message,
	}
}

// NewViewError creates a view rendering error.
func NewViewError(code, message string, cause error) *HelperError {
	return &HelperError{
		Type:    ErrorTypeView,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *HelperError {
	return &HelperError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *HelperError {
	return &HelperError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsNotRegistered checks if err reports an unregistered component.
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}

// IsManifestMissing checks if err reports a missing asset manifest.
func IsManifestMissing(err error) bool {
	return errors.Is(err, ErrManifestMissing)
}

// ComponentName returns the component name carried by err, if any.
func ComponentName(err error) (string, bool) {
	var he *HelperError
	if errors.As(err, &he) && he.Component != "" {
		return he.Component, true
	}

	return "", false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err at a level chosen by its type. It never alters or
// suppresses the error; callers still return it.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var he *HelperError
	if !errors.As(err, &he) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch he.Type {
	case ErrorTypeCompile, ErrorTypeRegistry:
		h.logger.Warn(ctx, err, "Template error occurred",
			"type", he.Type,
			"code", he.Code,
			"component", he.Component)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", he.Type,
			"code", he.Code,
			"component", he.Component)
	}
}
