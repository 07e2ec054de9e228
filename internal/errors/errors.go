package errors

import (
	"fmt"
	"sync"
	"time"
)

// CompileError represents an error raised while compiling a template file.
type CompileError struct {
	File      string
	Line      int
	Column    int
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

// ErrorSeverityError marks an error that stops a template from compiling.
const ErrorSeverityError ErrorSeverity = iota

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	if s == ErrorSeverityError {
		return "error"
	}
	return "unknown"
}

// Error implements the error interface
func (ce *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", ce.File, ce.Line, ce.Column, ce.Severity, ce.Message)
}

// ErrorCollector collects compile errors and general errors across a batch
// of files. The watcher delivers batches from its own goroutine, hence the lock.
type ErrorCollector struct {
	compileErrors []CompileError
	errors        []error
	mutex         sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		compileErrors: make([]CompileError, 0),
		errors:        make([]error, 0),
	}
}

// Add adds a compile error to the collector
func (ec *ErrorCollector) Add(err CompileError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.compileErrors = append(ec.compileErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns all collected compile errors
func (ec *ErrorCollector) GetErrors() []CompileError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]CompileError, len(ec.compileErrors))
	copy(result, ec.compileErrors)
	return result
}

// GetAllErrors returns all collected errors (compile and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.compileErrors)+len(ec.errors))
	for i := range ec.compileErrors {
		ce := ec.compileErrors[i]
		allErrors = append(allErrors, &ce)
	}
	allErrors = append(allErrors, ec.errors...)

	return allErrors
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.compileErrors) > 0 || len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.compileErrors = ec.compileErrors[:0]
	ec.errors = ec.errors[:0]
}
