package sip

import (
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/textbuf"
)

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)

// Message errors.
const (
	ErrInvalidMessage       Error = "invalid message"
	ErrMalformedStartLine   Error = "malformed start line"
	ErrInvalidHeader        Error = "invalid header"
	ErrMissingContentLength Error = "missing Content-Length"
	ErrEntityTooLarge       Error = "Content-Length too large"
	ErrIncompleteBody       Error = "incomplete body"

	// ErrIllegalByteSequence is latched when a malformed UTF-8 sequence is met and
	// [ParserOptions.AcceptNonUTF8] is not set.
	ErrIllegalByteSequence = textbuf.ErrIllegalByteSequence
)

// Error represents a SIP error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}

// NewInvalidMessageError creates a new error with [ErrInvalidMessage] or
// wraps provided error with [ErrInvalidMessage].
func NewInvalidMessageError(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidMessage, args...) //errtrace:skip
}
