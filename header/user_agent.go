package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// UserAgent represents the User-Agent header field.
// It contains information about the UAC originating the request.
type UserAgent string

func (UserAgent) CanonicName() Name { return "User-Agent" }

func (UserAgent) CompactName() Name { return "User-Agent" }

func (hdr UserAgent) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr UserAgent) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr UserAgent) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr UserAgent) RenderValue() string { return string(hdr) }

func (hdr UserAgent) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr UserAgent) Format(f fmt.State, verb rune) {
	type hideMethods UserAgent
	type UserAgent hideMethods
	formatHdr(f, verb, hdr, UserAgent(hdr))
}

func (hdr UserAgent) Clone() Header { return hdr }

func (hdr UserAgent) Equal(val any) bool {
	switch v := val.(type) {
	case UserAgent:
		return hdr == v
	case *UserAgent:
		return v != nil && hdr == *v
	default:
		return false
	}
}

func (hdr UserAgent) IsValid() bool { return hdr != "" }

func parseUserAgent(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	return UserAgent(restText(l)), nil
}
