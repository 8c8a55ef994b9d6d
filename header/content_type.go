package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// ContentType represents the Content-Type header field.
// The Content-Type header field indicates the media type of the message-body sent to the recipient.
type ContentType MIMEType

// CanonicName returns the canonical name of the header.
func (*ContentType) CanonicName() Name { return "Content-Type" }

// CompactName returns the compact name of the header.
func (*ContentType) CompactName() Name { return "c" }

// RenderTo writes the header to the provided writer.
func (hdr *ContentType) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *ContentType) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *ContentType) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *ContentType) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ContentType) Format(f fmt.State, verb rune) {
	type hideMethods ContentType
	type ContentType hideMethods
	formatHdr(f, verb, hdr, (*ContentType)(hdr))
}

func (hdr *ContentType) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, MIMEType(*hdr).String()))
}

// Clone returns a copy of the header.
func (hdr *ContentType) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := ContentType(MIMEType(*hdr).Clone())
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *ContentType) Equal(val any) bool {
	var other *ContentType
	switch v := val.(type) {
	case ContentType:
		other = &v
	case *ContentType:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return MIMEType(*hdr).Equal(MIMEType(*other))
}

// IsValid checks whether the header is syntactically valid.
func (hdr *ContentType) IsValid() bool { return hdr != nil && MIMEType(*hdr).IsValid() }

func parseContentType(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	mt, _, err := parseMIMEType(l, false)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	hdr := ContentType(mt)
	return &hdr, nil
}
