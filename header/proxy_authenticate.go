package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// ProxyAuthenticate represents the Proxy-Authenticate header field.
// The Proxy-Authenticate header field contains a challenge of a proxy requiring authentication.
type ProxyAuthenticate Challenge

// CanonicName returns the canonical name of the header.
func (*ProxyAuthenticate) CanonicName() Name { return "Proxy-Authenticate" }

// CompactName returns the compact name of the header.
func (*ProxyAuthenticate) CompactName() Name { return "Proxy-Authenticate" }

// RenderTo writes the header to the provided writer.
func (hdr *ProxyAuthenticate) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *ProxyAuthenticate) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *ProxyAuthenticate) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *ProxyAuthenticate) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ProxyAuthenticate) Format(f fmt.State, verb rune) {
	type hideMethods ProxyAuthenticate
	type ProxyAuthenticate hideMethods
	formatHdr(f, verb, hdr, (*ProxyAuthenticate)(hdr))
}

func (hdr *ProxyAuthenticate) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(Credentials(*hdr).RenderTo(w))
}

// Clone returns a copy of the header.
func (hdr *ProxyAuthenticate) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := ProxyAuthenticate(Credentials(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *ProxyAuthenticate) Equal(val any) bool {
	var other *ProxyAuthenticate
	switch v := val.(type) {
	case ProxyAuthenticate:
		other = &v
	case *ProxyAuthenticate:
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
func (hdr *ProxyAuthenticate) IsValid() bool { return hdr != nil && Credentials(*hdr).IsValid() }

func parseProxyAuthenticate(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	crd, err := parseCredentials(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := ProxyAuthenticate(crd)
	return &hdr, nil
}
