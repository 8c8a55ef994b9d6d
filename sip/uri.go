package sip

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/uri"
)

// URI represents generic URI (SIP, SIPS, Tel, ...etc).
// See [uri.URI].
type URI = uri.URI

// ParseURI parses any URI from a given string.
// See [uri.Parse].
func ParseURI(s string) (URI, error) { return errtrace.Wrap2(uri.Parse(s)) }
