package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// CallID represents the Call-ID header field.
// The Call-ID header field uniquely identifies a particular invitation or all registrations of a particular client.
type CallID string

// CanonicName returns the canonical name of the header.
func (CallID) CanonicName() Name { return "Call-ID" }

// CompactName returns the compact name of the header.
func (CallID) CompactName() Name { return "i" }

// RenderTo writes the header to the provided writer.
func (hdr CallID) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr CallID) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

// Render returns the string representation of the header.
func (hdr CallID) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr CallID) RenderValue() string { return string(hdr) }

// String returns the string representation of the header value.
func (hdr CallID) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr CallID) Format(f fmt.State, verb rune) {
	type hideMethods CallID
	type CallID hideMethods
	formatHdr(f, verb, hdr, CallID(hdr))
}

// Clone returns a copy of the header.
func (hdr CallID) Clone() Header { return hdr }

// Equal compares this header with another for equality.
// Call-IDs are compared case-sensitively.
func (hdr CallID) Equal(val any) bool {
	var other CallID
	switch v := val.(type) {
	case CallID:
		other = v
	case *CallID:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return hdr == other
}

// IsValid checks whether the header is syntactically valid.
func (hdr CallID) IsValid() bool {
	if hdr == "" {
		return false
	}
	l := lex.New([]rune(string(hdr)))
	_, err := scanCallID(l)
	return err == nil && l.Done()
}

func parseCallID(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	id, err := scanCallID(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return CallID(id), nil
}

// scanCallID scans callid = word [ "@" word ].
func scanCallID(l *lex.Lexer) (string, error) {
	start := l.Pos()
	if !grammar.IsWordChar(l.LA(1)) {
		return "", errtrace.Wrap(errorutil.NewGrammarError(start, "expected Call-ID"))
	}
	l.Word()
	if l.LA(1) == '@' {
		l.Consume(1)
		if !grammar.IsWordChar(l.LA(1)) {
			return "", errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "empty Call-ID host part"))
		}
		l.Word()
	}
	return lex.Intern(l.Slice(start, l.Pos())), nil
}
