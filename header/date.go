package header

import (
	"fmt"
	"io"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Date represents the Date header field.
// The Date header field reflects the time when the request or response is first sent, always in GMT.
type Date struct {
	time.Time
}

// CanonicName returns the canonical name of the header.
func (*Date) CanonicName() Name { return "Date" }

// CompactName returns the compact name of the header.
func (*Date) CompactName() Name { return "Date" }

// RenderTo writes the header to the provided writer.
func (hdr *Date) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *Date) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *Date) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *Date) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Date) Format(f fmt.State, verb rune) {
	type hideMethods Date
	type Date hideMethods
	formatHdr(f, verb, hdr, (*Date)(hdr))
}

// DateLayout is the RFC 1123 date layout required by SIP (RFC 3261 Section 20.17).
const DateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

func (hdr *Date) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, hdr.UTC().Format(DateLayout)))
}

// Clone returns a copy of the header.
func (hdr *Date) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Date) Equal(val any) bool {
	var other *Date
	switch v := val.(type) {
	case Date:
		other = &v
	case *Date:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.Time.Equal(other.Time)
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Date) IsValid() bool { return hdr != nil && !hdr.IsZero() }

func parseDate(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	pos := l.Pos()
	s := restText(l)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(pos, "invalid date %q", s))
	}
	return &Date{t}, nil
}
