package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// Warning represents the Warning header field.
// The Warning header field is used to carry additional information about the status of a response.
type Warning []WarningEntry

// CanonicName returns the canonical name of the header.
func (Warning) CanonicName() Name { return "Warning" }

// CompactName returns the compact name of the header.
func (Warning) CompactName() Name { return "Warning" }

// RenderTo writes the header to the provided writer.
func (hdr Warning) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Warning) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Warning) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Warning) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Warning) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Warning) Format(f fmt.State, verb rune) {
	type hideMethods Warning
	type Warning hideMethods
	formatHdr(f, verb, hdr, Warning(hdr))
}

// Clone returns a copy of the header.
func (hdr Warning) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Warning) Equal(val any) bool {
	var other Warning
	switch v := val.(type) {
	case Warning:
		other = v
	case *Warning:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return equalHdrEntries(hdr, other)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Warning) IsValid() bool { return validHdrEntries(hdr) }

func parseWarning(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (WarningEntry, error) {
		return errtrace.Wrap2(parseWarningEntry(l))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Warning(list), nil
}

// WarningEntry is a single warning-value of the Warning header.
type WarningEntry struct {
	Code  uint
	Agent string
	Text  string
}

func (wrn WarningEntry) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	fmt.Fprintf(sb, "%03d %s %s", wrn.Code, wrn.Agent, grammar.Quote(wrn.Text))
	return sb.String()
}

func (wrn WarningEntry) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, wrn.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(wrn.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, wrn.String())
			return
		}

		type hideMethods WarningEntry
		type WarningEntry hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), WarningEntry(wrn))
		return
	}
}

func (wrn WarningEntry) Equal(val any) bool {
	var other WarningEntry
	switch v := val.(type) {
	case WarningEntry:
		other = v
	case *WarningEntry:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return wrn.Code == other.Code &&
		util.EqFold(wrn.Agent, other.Agent) &&
		wrn.Text == other.Text
}

func (wrn WarningEntry) IsValid() bool {
	return 100 <= wrn.Code && wrn.Code <= 999 && (grammar.IsToken(wrn.Agent) || grammar.IsHost(wrn.Agent) || isHostPort(wrn.Agent))
}

func (wrn WarningEntry) IsZero() bool { return wrn.Code == 0 && wrn.Agent == "" && wrn.Text == "" }

func (wrn WarningEntry) Clone() WarningEntry { return wrn }

func isHostPort(s string) bool {
	addr, err := types.ParseAddr(s)
	return err == nil && addr.IsValid()
}

// parseWarningEntry parses `warn-code SP warn-agent SP warn-text`.
func parseWarningEntry(l *lex.Lexer) (WarningEntry, error) {
	var wrn WarningEntry
	pos := l.Pos()
	code := l.Scan(grammar.IsDigit)
	if len(code) != 3 {
		return wrn, errtrace.Wrap(errorutil.NewGrammarError(pos, "warning code must be 3 digits"))
	}
	c, _ := strconv.ParseUint(code, 10, 16)
	wrn.Code = uint(c)

	if !l.LWS() {
		return wrn, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "expected whitespace after warning code"))
	}
	pos = l.Pos()
	wrn.Agent = l.Scan(func(c rune) bool { return grammar.IsTokenChar(c) || c == ':' || c == '[' || c == ']' })
	if wrn.Agent == "" {
		return wrn, errtrace.Wrap(errorutil.NewGrammarError(pos, "expected warning agent"))
	}
	if !l.LWS() {
		return wrn, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "expected whitespace after warning agent"))
	}
	text, err := l.QuotedString()
	if err != nil {
		return wrn, errtrace.Wrap(err)
	}
	wrn.Text = text
	return wrn, nil
}
