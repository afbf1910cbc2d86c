package shared

import "fmt"

// ExternalServiceError reports a failed call to an outbound collaborator.
// Err carries the transport failure when no response was received.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("HTTP request failed. Code: %d, Msg: %s", e.StatusCode, e.Err.Error())
	case e.StatusCode != 0:
		return fmt.Sprintf("HTTP request failed. Code: %d, Msg: %s", e.StatusCode, e.Message)
	default:
		return e.Message
	}
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// DecodeError reports an upstream body that could not be interpreted
type DecodeError struct {
	Service string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
