package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Subject represents the Subject header field.
// The Subject header field provides a summary or indicates the nature of the call.
type Subject string

func (Subject) CanonicName() Name { return "Subject" }

func (Subject) CompactName() Name { return "s" }

func (hdr Subject) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Subject) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr Subject) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr Subject) RenderValue() string { return string(hdr) }

func (hdr Subject) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Subject) Format(f fmt.State, verb rune) {
	type hideMethods Subject
	type Subject hideMethods
	formatHdr(f, verb, hdr, Subject(hdr))
}

func (hdr Subject) Clone() Header { return hdr }

func (hdr Subject) Equal(val any) bool {
	switch v := val.(type) {
	case Subject:
		return hdr == v
	case *Subject:
		return v != nil && hdr == *v
	default:
		return false
	}
}

// IsValid reports true for any subject, an empty one included.
func (Subject) IsValid() bool { return true }

func parseSubject(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	return Subject(restText(l)), nil
}
