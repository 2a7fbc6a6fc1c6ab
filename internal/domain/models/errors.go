package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the failure taxonomy surfaced to users.
type ErrorKind string

const (
	KindDataUnavailable   ErrorKind = "DataUnavailable"
	KindModelUnavailable  ErrorKind = "ModelUnavailable"
	KindInvalidInput      ErrorKind = "InvalidInput"
	KindPredictionFailure ErrorKind = "PredictionFailure"
)

var (
	ErrDataUnavailable   = errors.New("series data unavailable")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPredictionFailure = errors.New("prediction failed")
)

var kindSentinels = map[ErrorKind]error{
	KindDataUnavailable:   ErrDataUnavailable,
	KindModelUnavailable:  ErrModelUnavailable,
	KindInvalidInput:      ErrInvalidInput,
	KindPredictionFailure: ErrPredictionFailure,
}

// PredictionError carries a kind, a user-facing reason and the underlying cause.
type PredictionError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func NewPredictionError(kind ErrorKind, reason string, err error) *PredictionError {
	return &PredictionError{Kind: kind, Reason: reason, Err: err}
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind, so errors.Is(err, ErrInvalidInput) works.
func (e *PredictionError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf extracts the ErrorKind from err, defaulting to PredictionFailure.
func KindOf(err error) ErrorKind {
	var pe *PredictionError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	for _, k := range []ErrorKind{KindDataUnavailable, KindModelUnavailable, KindInvalidInput} {
		if errors.Is(err, kindSentinels[k]) {
			return k
		}
	}
	return KindPredictionFailure
}

// ReasonOf returns the user-facing reason of a PredictionError, or err.Error().
func ReasonOf(err error) string {
	var pe *PredictionError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return err.Error()
}
