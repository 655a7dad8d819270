package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeRender represents headless-browser rendering errors
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeCatalog represents brand catalog errors
	ErrorTypeCatalog ErrorType = "catalog"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WorkerError represents a discovery-worker error with brand context
type WorkerError struct {
	Type    ErrorType
	Brand   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *WorkerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Brand, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Brand, e.Message)
}

// Unwrap returns the underlying error
func (e *WorkerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *WorkerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeRender:
		return true
	default:
		return false
	}
}

// New creates a new WorkerError
func New(errType ErrorType, brand, message string, err error) *WorkerError {
	return &WorkerError{
		Type:    errType,
		Brand:   brand,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewRender creates a new rendering error
func NewRender(brand, message string, err error) *WorkerError {
	return New(ErrorTypeRender, brand, message, err)
}

// NewNetwork creates a new network error
func NewNetwork(brand, message string, err error) *WorkerError {
	return New(ErrorTypeNetwork, brand, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(brand, message string, err error) *WorkerError {
	return New(ErrorTypeParsing, brand, message, err)
}

// NewCache creates a new cache error
func NewCache(brand, message string, err error) *WorkerError {
	return New(ErrorTypeCache, brand, message, err)
}

// NewCatalog creates a new catalog error
func NewCatalog(message string, err error) *WorkerError {
	return New(ErrorTypeCatalog, "", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(brand, message string, err error) *WorkerError {
	return New(ErrorTypePublisher, brand, message, err)
}

// NewValidation creates a new validation error
func NewValidation(brand, message string) *WorkerError {
	return New(ErrorTypeValidation, brand, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WorkerError {
	return New(ErrorTypeConfiguration, "", message, err)
}
