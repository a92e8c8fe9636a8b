package rleanim

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// AnimError is the interface implemented by every error kind in this module.
// Use [errors.Is] against one of the Err* values to find out what kind of
// failure occurred.
type AnimError interface {
	error
	WithMessage(message string) AnimError
	Wrap(err error) AnimError
}

type baseAnimError string

const rootError = baseAnimError("")

// ErrDimensionMismatch means an input image's size differs from the declared
// width and height of the animation.
var ErrDimensionMismatch = rootError.WithMessage("Image dimensions do not match")

// ErrDecodeFailed means an image source couldn't produce a pixel buffer.
var ErrDecodeFailed = rootError.WithMessage("Image could not be decoded")

// ErrEncodingInvariant indicates a bug: the encoder was asked to emit a run
// it can't represent.
var ErrEncodingInvariant = rootError.WithMessage("Run length out of encodable range")

// ErrFormat means a compressed stream or container is malformed or truncated.
var ErrFormat = rootError.WithMessage("Malformed animation data")

// ErrContentMismatch means a container is well formed but doesn't decode to
// the images it was compared against.
var ErrContentMismatch = rootError.WithMessage("Decoded frames do not match")

var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrInvalidUsage = rootError.WithMessage("Operation not valid in current state")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrNotSupported = rootError.WithMessage("Operation not supported")

func (e baseAnimError) Error() string {
	return string(e)
}

func (e baseAnimError) WithMessage(message string) AnimError {
	return customAnimError{
		message:       message,
		originalError: e,
	}
}

func (e baseAnimError) Wrap(err error) AnimError {
	return customAnimError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customAnimError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customAnimError) Error() string {
	return e.message
}

func (e customAnimError) WithMessage(message string) AnimError {
	return customAnimError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

// Wrap returns a new error that matches both this error and err when checked
// with [errors.Is].
func (e customAnimError) Wrap(err error) AnimError {
	return customAnimError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customAnimError) Unwrap() error {
	return e.originalError
}
