package sip

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
)

// Header represents a generic SIP header.
// See [header.Header].
type Header = header.Header

// HeaderName is a SIP header name.
// See [header.Name].
type HeaderName = header.Name

// ParseHeader parses a single "Name: value" header line.
// See [header.Parse].
func ParseHeader(s string) (Header, error) { return errtrace.Wrap2(header.Parse(s)) }

// CanonicHeaderName returns a canonicalized header name.
// See [header.CanonicName].
func CanonicHeaderName[T ~string](name T) HeaderName { return header.CanonicName(name) }
