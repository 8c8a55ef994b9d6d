package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// MinExpires represents the Min-Expires header field.
// The Min-Expires header field conveys the minimum refresh interval supported for soft-state elements
// managed by that server.
type MinExpires Expires

// CanonicName returns the canonical name of the header.
func (*MinExpires) CanonicName() Name { return "Min-Expires" }

// CompactName returns the compact name of the header.
func (*MinExpires) CompactName() Name { return "Min-Expires" }

// RenderTo writes the header to the provided writer.
func (hdr *MinExpires) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *MinExpires) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *MinExpires) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *MinExpires) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *MinExpires) Format(f fmt.State, verb rune) {
	type hideMethods MinExpires
	type MinExpires hideMethods
	formatHdr(f, verb, hdr, (*MinExpires)(hdr))
}

func (hdr *MinExpires) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2((*Expires)(hdr).renderValueTo(w))
}

// Clone returns a copy of the header.
func (hdr *MinExpires) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *MinExpires) Equal(val any) bool {
	var other *MinExpires
	switch v := val.(type) {
	case MinExpires:
		other = &v
	case *MinExpires:
		other = v
	default:
		return false
	}
	return (*Expires)(hdr).Equal((*Expires)(other))
}

// IsValid checks whether the header is syntactically valid.
func (hdr *MinExpires) IsValid() bool { return (*Expires)(hdr).IsValid() }

func parseMinExpires(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	d, err := parseDeltaSeconds(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &MinExpires{d}, nil
}
