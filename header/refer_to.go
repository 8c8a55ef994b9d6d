package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// ReferTo represents the Refer-To header field (RFC 3515).
// The Refer-To header field provides a URI to reference.
type ReferTo NameAddr

// CanonicName returns the canonical name of the header.
func (*ReferTo) CanonicName() Name { return "Refer-To" }

// CompactName returns the compact name of the header.
func (*ReferTo) CompactName() Name { return "r" }

// RenderTo writes the header to the provided writer.
func (hdr *ReferTo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *ReferTo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *ReferTo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *ReferTo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ReferTo) Format(f fmt.State, verb rune) {
	type hideMethods ReferTo
	type ReferTo hideMethods
	formatHdr(f, verb, hdr, (*ReferTo)(hdr))
}

func (hdr *ReferTo) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, NameAddr(*hdr).String()))
}

// Clone returns a copy of the header.
func (hdr *ReferTo) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := ReferTo(NameAddr(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *ReferTo) Equal(val any) bool {
	var other *ReferTo
	switch v := val.(type) {
	case ReferTo:
		other = &v
	case *ReferTo:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return NameAddr(*hdr).Equal(NameAddr(*other))
}

// IsValid checks whether the header is syntactically valid.
func (hdr *ReferTo) IsValid() bool { return hdr != nil && NameAddr(*hdr).IsValid() }

func parseReferTo(l *lex.Lexer, p *uri.Parser) (Header, error) {
	addr, err := parseNameAddr(l, p)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := ReferTo(addr)
	return &hdr, nil
}
