package renderer

import (
	"errors"
	"fmt"
)

// Failure kinds reported by Describe
const (
	FailureInvalidScene      = "InvalidScene"
	FailureUnsupportedFormat = "UnsupportedFormat"
	FailureExternalResource  = "ExternalResource"
	FailureInternal          = "Internal"
)

// InvalidSceneError is returned when a scene has no drawable extent, e.g. an
// empty element list or a list with only transient elements.
type InvalidSceneError struct {
	Reason string
}

func (e *InvalidSceneError) Error() string {
	return "invalid scene: " + e.Reason
}

// UnsupportedFormatError is returned for an output format outside the
// recognized set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q (supported: %s)", e.Format, supportedFormatList())
}

// ExternalResourceError is returned when the external rendering engine fails
// to start, times out or fails mid-render.
type ExternalResourceError struct {
	Op  string
	Err error
}

func (e *ExternalResourceError) Error() string {
	return fmt.Sprintf("rendering engine %s failed: %v", e.Op, e.Err)
}

func (e *ExternalResourceError) Unwrap() error {
	return e.Err
}

// Failure is the structured form of a render error handed to callers
type Failure struct {
	Kind    string
	Message string
}

// Describe classifies err into a Failure.
func Describe(err error) Failure {
	var (
		invalid     *InvalidSceneError
		unsupported *UnsupportedFormatError
		external    *ExternalResourceError
	)

	switch {
	case errors.As(err, &invalid):
		return Failure{Kind: FailureInvalidScene, Message: invalid.Error()}
	case errors.As(err, &unsupported):
		return Failure{Kind: FailureUnsupportedFormat, Message: unsupported.Error()}
	case errors.As(err, &external):
		return Failure{Kind: FailureExternalResource, Message: external.Error()}
	default:
		return Failure{Kind: FailureInternal, Message: err.Error()}
	}
}
