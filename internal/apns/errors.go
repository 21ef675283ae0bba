package apns

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes a push can hit. Wrapped errors
// carry the underlying detail; match with errors.Is.
var (
	// ErrInitialize means the client could not be constructed, usually
	// because the signing key does not parse as an EC private key.
	ErrInitialize = errors.New("apns: initialize client")

	// ErrSign means the signing operation itself failed with a key that
	// parsed fine at construction time.
	ErrSign = errors.New("apns: sign token")

	// ErrClock means the system clock reads before the Unix epoch, so a
	// valid iat claim cannot be produced.
	ErrClock = errors.New("apns: system clock before unix epoch")

	// ErrHeader means a push option value is not valid header content.
	// Raised before any network call.
	ErrHeader = errors.New("apns: invalid header value")

	// ErrInvalidResponse means the service response is missing the
	// mandatory apns-id header or a non-200 body did not decode as the
	// documented error shape.
	ErrInvalidResponse = errors.New("apns: cannot parse server response")

	// ErrHeaderDecode means a response header value is not valid text.
	ErrHeaderDecode = errors.New("apns: response header is not valid text")

	// ErrNotAnObject means caller-supplied custom data did not serialize
	// to a JSON object. Raised while building a payload, never at push
	// time.
	ErrNotAnObject = errors.New("apns: value is not a JSON object")
)

// TransportError wraps a network-level failure (connection, TLS, timeout)
// from the underlying HTTP transport. The push is never retried internally.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("apns: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError is a well-formed non-200 answer from APNs. Receipt holds the
// response headers that were already read before the status was inspected.
type ServiceError struct {
	StatusCode int
	Reason     string
	Timestamp  *int64
	Receipt    Receipt
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("apns: server rejected push (status %d): %s", e.StatusCode, e.Reason)
}
