package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// Priority represents the Priority header field.
// The Priority header field indicates the urgency of the request as perceived by the client:
// "emergency", "urgent", "normal", "non-urgent" or an extension token.
type Priority string

func (Priority) CanonicName() Name { return "Priority" }

func (Priority) CompactName() Name { return "Priority" }

func (hdr Priority) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Priority) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr Priority) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr Priority) RenderValue() string { return string(hdr) }

func (hdr Priority) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Priority) Format(f fmt.State, verb rune) {
	type hideMethods Priority
	type Priority hideMethods
	formatHdr(f, verb, hdr, Priority(hdr))
}

func (hdr Priority) Clone() Header { return hdr }

func (hdr Priority) Equal(val any) bool {
	var other Priority
	switch v := val.(type) {
	case Priority:
		other = v
	case *Priority:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(hdr, other)
}

func (hdr Priority) IsValid() bool { return grammar.IsToken(string(hdr)) }

func parsePriority(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	tok, err := expectToken(l, "priority value")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Priority(tok), nil
}
