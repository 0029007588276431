package llm

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a provider failure.
type Kind string

const (
	KindQuotaExceeded   Kind = "quota_exceeded"
	KindInvalidAPIKey   Kind = "invalid_api_key"
	KindTimeout         Kind = "timeout"
	KindUnavailable     Kind = "unavailable"
	KindInvalidResponse Kind = "invalid_response"
	KindGeneral         Kind = "general_error"
)

// BillingURL is surfaced to users when the provider quota is exhausted.
const BillingURL = "https://platform.openai.com/usage"

// Error is the tagged failure returned at the provider boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err. Deadline and cancellation errors
// that never reached a provider are reported as KindTimeout. nil yields "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	return KindGeneral
}

func IsQuotaExceeded(err error) bool {
	return KindOf(err) == KindQuotaExceeded
}
