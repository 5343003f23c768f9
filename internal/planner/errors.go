package planner

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation failed.
type ErrorKind int

const (
	// KindServiceFailure is a transport, auth or quota failure from the service.
	KindServiceFailure ErrorKind = iota + 1
	// KindEmptyResponse means the service returned no content.
	KindEmptyResponse
	// KindMalformedResponse means content was present but unparsable or not schema-conformant.
	KindMalformedResponse
	// KindStorageCorrupt marks persisted plan data that could not be read back.
	// It is recovered locally and never returned from Generate.
	KindStorageCorrupt
)

func (k ErrorKind) String() string {
	switch k {
	case KindServiceFailure:
		return "service_failure"
	case KindEmptyResponse:
		return "empty_response"
	case KindMalformedResponse:
		return "malformed_response"
	case KindStorageCorrupt:
		return "storage_corrupt"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrInvalidForm is returned before any outbound call when the request is
// missing its goal or duration, or names an unknown intensity.
var ErrInvalidForm = errors.New("invalid plan request")

// GenerationError is the single error type returned by Generate once a call
// to the completion service has been attempted.
type GenerationError struct {
	Kind ErrorKind
	// Err is the underlying service or parse failure, if any.
	Err error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindEmptyResponse:
		return "generation failed: the model returned no content"
	case KindMalformedResponse:
		return fmt.Sprintf("generation failed: malformed plan response: %v", e.Err)
	case KindServiceFailure:
		return fmt.Sprintf("generation failed: %v", e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches another *GenerationError by kind, so callers can write
// errors.Is(err, &GenerationError{Kind: KindMalformedResponse}).
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a generation error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}
