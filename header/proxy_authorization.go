package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// ProxyAuthorization represents the Proxy-Authorization header field.
// The Proxy-Authorization header field allows the client to identify itself to a proxy that requires authentication.
type ProxyAuthorization Credentials

// CanonicName returns the canonical name of the header.
func (*ProxyAuthorization) CanonicName() Name { return "Proxy-Authorization" }

// CompactName returns the compact name of the header.
func (*ProxyAuthorization) CompactName() Name { return "Proxy-Authorization" }

// RenderTo writes the header to the provided writer.
func (hdr *ProxyAuthorization) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *ProxyAuthorization) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *ProxyAuthorization) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *ProxyAuthorization) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ProxyAuthorization) Format(f fmt.State, verb rune) {
	type hideMethods ProxyAuthorization
	type ProxyAuthorization hideMethods
	formatHdr(f, verb, hdr, (*ProxyAuthorization)(hdr))
}

func (hdr *ProxyAuthorization) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(Credentials(*hdr).RenderTo(w))
}

// Clone returns a copy of the header.
func (hdr *ProxyAuthorization) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := ProxyAuthorization(Credentials(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *ProxyAuthorization) Equal(val any) bool {
	var other *ProxyAuthorization
	switch v := val.(type) {
	case ProxyAuthorization:
		other = &v
	case *ProxyAuthorization:
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
func (hdr *ProxyAuthorization) IsValid() bool { return hdr != nil && Credentials(*hdr).IsValid() }

func parseProxyAuthorization(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	crd, err := parseCredentials(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := ProxyAuthorization(crd)
	return &hdr, nil
}
