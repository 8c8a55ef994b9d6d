package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// WWWAuthenticate represents the WWW-Authenticate header field.
// The WWW-Authenticate header field consists of at least one challenge that indicates the authentication scheme(s)
// and parameters applicable to the Request-URI.
type WWWAuthenticate Challenge

// CanonicName returns the canonical name of the header.
func (*WWWAuthenticate) CanonicName() Name { return "WWW-Authenticate" }

// CompactName returns the compact name of the header.
func (*WWWAuthenticate) CompactName() Name { return "WWW-Authenticate" }

// RenderTo writes the header to the provided writer.
func (hdr *WWWAuthenticate) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *WWWAuthenticate) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *WWWAuthenticate) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *WWWAuthenticate) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *WWWAuthenticate) Format(f fmt.State, verb rune) {
	type hideMethods WWWAuthenticate
	type WWWAuthenticate hideMethods
	formatHdr(f, verb, hdr, (*WWWAuthenticate)(hdr))
}

func (hdr *WWWAuthenticate) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(Credentials(*hdr).RenderTo(w))
}

// Clone returns a copy of the header.
func (hdr *WWWAuthenticate) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := WWWAuthenticate(Credentials(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *WWWAuthenticate) Equal(val any) bool {
	var other *WWWAuthenticate
	switch v := val.(type) {
	case WWWAuthenticate:
		other = &v
	case *WWWAuthenticate:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return Credentials(*hdr).Equal(Credentials(*other))
}

// IsValid checks whether the header is syntactically valid.
func (hdr *WWWAuthenticate) IsValid() bool { return hdr != nil && Credentials(*hdr).IsValid() }

func parseWWWAuthenticate(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	crd, err := parseCredentials(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := WWWAuthenticate(crd)
	return &hdr, nil
}
