package pcc

import (
	"errors"
	"fmt"
)

// Protocol failures: the payload sequence is inconsistent with the decoder state.
var (
	ErrUnknownPayload      = errors.New("unknown payload type")
	ErrMissingParameterSet = errors.New("missing parameter set")
	ErrSliceMismatch       = errors.New("attribute brick does not match geometry slice")
	ErrAttributeIndex      = errors.New("attribute index out of range")
)

// Bitstream failures: a payload is malformed.
var (
	ErrTruncated    = errors.New("bitstream truncated")
	ErrSymbolRange  = errors.New("symbol out of range")
	ErrSegmentCount = errors.New("segment indicator count mismatch")
	ErrVertexCount  = errors.New("vertex count mismatch")
	ErrPointCount   = errors.New("point count mismatch")
	ErrHeaderValue  = errors.New("header value out of range")
)

// ProtocolError reports a payload that cannot be applied in the current
// decoder state. Processing of that payload is abandoned; the decoder
// remains usable.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// BitstreamError reports malformed payload contents.
type BitstreamError struct {
	Op  string
	Err error
}

func (e *BitstreamError) Error() string {
	return fmt.Sprintf("bitstream error: %s: %v", e.Op, e.Err)
}

func (e *BitstreamError) Unwrap() error { return e.Err }

// Protocolf builds a ProtocolError wrapping err with formatted context.
func Protocolf(op string, err error, format string, args ...interface{}) error {
	if format == "" {
		return &ProtocolError{Op: op, Err: err}
	}
	return &ProtocolError{Op: op, Err: fmt.Errorf("%w: "+format, append([]interface{}{err}, args...)...)}
}

// Bitstreamf builds a BitstreamError wrapping err with formatted context.
func Bitstreamf(op string, err error, format string, args ...interface{}) error {
	if format == "" {
		return &BitstreamError{Op: op, Err: err}
	}
	return &BitstreamError{Op: op, Err: fmt.Errorf("%w: "+format, append([]interface{}{err}, args...)...)}
}

// IsProtocolError reports whether err carries a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsBitstreamError reports whether err carries a BitstreamError.
func IsBitstreamError(err error) bool {
	var be *BitstreamError
	return errors.As(err, &be)
}
