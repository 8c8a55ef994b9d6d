package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Authorization represents the Authorization header field.
// The Authorization header field contains authentication credentials of a UA.
type Authorization Credentials

// CanonicName returns the canonical name of the header.
func (*Authorization) CanonicName() Name { return "Authorization" }

// CompactName returns the compact name of the header.
func (*Authorization) CompactName() Name { return "Authorization" }

// RenderTo writes the header to the provided writer.
func (hdr *Authorization) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *Authorization) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *Authorization) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *Authorization) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Authorization) Format(f fmt.State, verb rune) {
	type hideMethods Authorization
	type Authorization hideMethods
	formatHdr(f, verb, hdr, (*Authorization)(hdr))
}

func (hdr *Authorization) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(Credentials(*hdr).RenderTo(w))
}

// Clone returns a copy of the header.
func (hdr *Authorization) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := Authorization(Credentials(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Authorization) Equal(val any) bool {
	var other *Authorization
	switch v := val.(type) {
	case Authorization:
		other = &v
	case *Authorization:
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
func (hdr *Authorization) IsValid() bool { return hdr != nil && Credentials(*hdr).IsValid() }

func parseAuthorization(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	crd, err := parseCredentials(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := Authorization(crd)
	return &hdr, nil
}
