package provider

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned when the caller's context ends before the bank
// call completes. The bank call must not be treated as authorized.
var ErrCanceled = errors.New("transaction canceled")

// ValidationError reports a missing or malformed field in a bank config,
// an order, a card or a request.
type ValidationError struct {
	Scope   string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s: field '%s' %s", e.Scope, e.Field, e.Message)
	}
	return fmt.Sprintf("field '%s' %s", e.Field, e.Message)
}

// UnsupportedGatewayError reports an unknown gateway type identifier
type UnsupportedGatewayError struct {
	GatewayType string
}

func (e *UnsupportedGatewayError) Error() string {
	return fmt.Sprintf("unsupported gateway type '%s'", e.GatewayType)
}

// UnsupportedActionError reports an unknown orchestration action
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action '%s'", e.Action)
}

// BankCommunicationError wraps transport failures, timeouts and malformed
// responses raised while talking to a bank. It is never retried here.
type BankCommunicationError struct {
	GatewayType string
	Op          string
	Timeout     bool
	Err         error
}

func (e *BankCommunicationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s: bank call timed out: %v", e.GatewayType, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: bank communication failed: %v", e.GatewayType, e.Op, e.Err)
}

func (e *BankCommunicationError) Unwrap() error {
	return e.Err
}

// CallbackVerificationError reports a 3-D Secure callback that failed
// integrity verification. It is distinct from a customer decline.
type CallbackVerificationError struct {
	GatewayType string
	Reason      string
}

func (e *CallbackVerificationError) Error() string {
	return fmt.Sprintf("%s: 3d callback verification failed: %s", e.GatewayType, e.Reason)
}

func missingField(scope, field string) *ValidationError {
	return &ValidationError{Scope: scope, Field: field, Message: "is required"}
}

func invalidField(scope, field, msg string) *ValidationError {
	return &ValidationError{Scope: scope, Field: field, Message: msg}
}
