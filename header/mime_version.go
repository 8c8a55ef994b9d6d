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

// MIMEVersion represents the MIME-Version header field.
type MIMEVersion string

func (MIMEVersion) CanonicName() Name { return "MIME-Version" }

func (MIMEVersion) CompactName() Name { return "MIME-Version" }

func (hdr MIMEVersion) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr MIMEVersion) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr MIMEVersion) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr MIMEVersion) RenderValue() string { return string(hdr) }

func (hdr MIMEVersion) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr MIMEVersion) Format(f fmt.State, verb rune) {
	type hideMethods MIMEVersion
	type MIMEVersion hideMethods
	formatHdr(f, verb, hdr, MIMEVersion(hdr))
}

func (hdr MIMEVersion) Clone() Header { return hdr }

func (hdr MIMEVersion) Equal(val any) bool {
	switch v := val.(type) {
	case MIMEVersion:
		return hdr == v
	case *MIMEVersion:
		return v != nil && hdr == *v
	default:
		return false
	}
}

func (hdr MIMEVersion) IsValid() bool {
	l := lex.New([]rune(string(hdr)))
	_, err := scanMIMEVersion(l)
	return err == nil && l.Done()
}

func parseMIMEVersion(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	v, err := scanMIMEVersion(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return MIMEVersion(v), nil
}

// scanMIMEVersion scans 1*DIGIT "." 1*DIGIT.
func scanMIMEVersion(l *lex.Lexer) (string, error) {
	start := l.Pos()
	if l.Scan(grammar.IsDigit) == "" || l.Match('.') != nil || l.Scan(grammar.IsDigit) == "" {
		l.Rewind(start)
		return "", errtrace.Wrap(errorutil.NewGrammarError(start, "invalid MIME version"))
	}
	return lex.Intern(l.Slice(start, l.Pos())), nil
}
