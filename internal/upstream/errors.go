package upstream

import "fmt"

// Kind classifies a transport failure.
type Kind string

const (
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

// TransportError describes why a single upstream request produced no usable JSON.
type TransportError struct {
	Kind        Kind
	StatusCode  int
	Description string
	Err         error
}

func (e *TransportError) Error() string {
	return e.Description
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func networkError(err error) *TransportError {
	return &TransportError{
		Kind:        KindNetwork,
		Description: fmt.Sprintf("upstream request failed: %v", err),
		Err:         err,
	}
}
