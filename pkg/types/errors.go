// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step.
type Stage string

const (
	StageConfig  Stage = "config"
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
	StageFormat  Stage = "format"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindTransport   ErrorKind = "transport"
	KindHTTPStatus  ErrorKind = "http_status"
	KindPDFParse    ErrorKind = "pdf_parse"
	KindUnsupported ErrorKind = "unsupported_type"
	KindCredential  ErrorKind = "credential"
	KindAPI         ErrorKind = "api"
	KindUnexpected  ErrorKind = "unexpected"
	KindConfig      ErrorKind = "config"
)

// StageError is the failure value returned by every pipeline stage.
type StageError struct {
	Stage Stage
	Kind  ErrorKind

	// StatusCode is the HTTP status reported by the remote side, or 0.
	StatusCode int

	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with a stage and kind.
func NewStageError(stage Stage, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// ConfigurationError reports missing or invalid configuration.
func ConfigurationError(format string, args ...any) *StageError {
	return NewStageError(StageConfig, KindConfig, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first StageError in err's chain, or
// KindUnexpected when there is none. A nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

// StageOf returns the stage of the first StageError in err's chain.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps a pipeline error to a process exit status: 0 on success,
// 2 for configuration and credential problems, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsKind(err, KindConfig), IsKind(err, KindCredential):
		return 2
	default:
		return 1
	}
}
