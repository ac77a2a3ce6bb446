package errs

import (
	"fmt"
	"strings"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type ForbiddenError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type EncryptionError struct {
	ErrorMessage
	Err error
}

func (e *EncryptionError) Unwrap() error { return e.Err }

// ExtractionError means no JSON object could be recovered from model output.
type ExtractionError struct {
	ErrorMessage
	Detail string
	Raw    string
}

// InvalidPlanError means the extracted value does not satisfy the plan shape.
type InvalidPlanError struct {
	ErrorMessage
	Issues []string
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewEncryptionError(message string, err error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Err:          err,
	}
}

func NewExtractionError(message, detail, raw string) *ExtractionError {
	return &ExtractionError{
		ErrorMessage: ErrorMessage{Message: message},
		Detail:       detail,
		Raw:          raw,
	}
}

func NewInvalidPlanError(issues ...string) *InvalidPlanError {
	msg := "invalid dashboard plan"
	if len(issues) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(issues, "; "))
	}
	return &InvalidPlanError{
		ErrorMessage: ErrorMessage{Message: msg},
		Issues:       issues,
	}
}
