package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the orchestrator and poller.
var (
	// ErrUnsupportedMethod means the method/contract combination cannot be
	// submitted: a card method without a contract id, or a method outside
	// the supported set.
	ErrUnsupportedMethod = errors.New("unsupported payment method")

	// ErrTokenExtraction means the wallet capability prompt completed but
	// neither brand payload was populated.
	ErrTokenExtraction = errors.New("wallet token extraction failed")

	// ErrInvalidTransactionID rejects an empty or malformed transaction id
	// before any polling starts.
	ErrInvalidTransactionID = errors.New("invalid transaction id")
)

// RequestFailedError reports a non-success transport status from the
// payment gateway.
type RequestFailedError struct {
	HTTPStatus int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("gateway request failed: http %d", e.HTTPStatus)
}

// ResponseInvalidError reports a missing or malformed gateway response body.
type ResponseInvalidError struct {
	Err error
}

func (e *ResponseInvalidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway response invalid: %v", e.Err)
	}
	return "gateway response invalid"
}

func (e *ResponseInvalidError) Unwrap() error { return e.Err }
