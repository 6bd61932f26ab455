package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the HTTP layer can map them to a status code
// and the user sees a single readable message. Internal detail stays in the
// diagnostic log and is never forwarded into model prompts.
type Kind string

const (
	KindInputValidation Kind = "input_validation"
	KindExtraction      Kind = "extraction"
	KindStoreCreation   Kind = "store_creation"
	KindStoreValidation Kind = "store_validation"
	KindGeneration      Kind = "generation"
)

type AppError struct {
	Kind    Kind
	Message string // user-facing
	Detail  error  // internal, diagnostic channel only
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Detail
}

// DetailString renders the internal detail for structured logging.
func (e *AppError) DetailString() string {
	if e.Detail == nil {
		return ""
	}
	return e.Detail.Error()
}

func New(kind Kind, message string, detail error) *AppError {
	return &AppError{Kind: kind, Message: message, Detail: detail}
}

func InputValidation(message string) *AppError {
	return &AppError{Kind: KindInputValidation, Message: message}
}

func Extraction(message string, detail error) *AppError {
	return &AppError{Kind: KindExtraction, Message: message, Detail: detail}
}

func StoreCreation(detail error) *AppError {
	return &AppError{
		Kind:    KindStoreCreation,
		Message: "failed to prepare the knowledge store for your material, please try again",
		Detail:  detail,
	}
}

func StoreValidation(detail error) *AppError {
	return &AppError{
		Kind:    KindStoreValidation,
		Message: "the knowledge store for your material is no longer available",
		Detail:  detail,
	}
}

func Generation(detail error) *AppError {
	return &AppError{
		Kind:    KindGeneration,
		Message: "the AI service did not return a response, please retry",
		Detail:  detail,
	}
}

// As unwraps err into an *AppError if possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Wrapf attaches formatted internal detail to an existing AppError without
// touching the user-facing message.
func Wrapf(e *AppError, format string, args ...interface{}) *AppError {
	detail := fmt.Errorf(format, args...)
	if e.Detail != nil {
		detail = fmt.Errorf("%s: %w", detail.Error(), e.Detail)
	}
	return &AppError{Kind: e.Kind, Message: e.Message, Detail: detail}
}
