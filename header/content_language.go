package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// ContentLanguage represents the Content-Language header field.
type ContentLanguage []Language

// CanonicName returns the canonical name of the header.
func (ContentLanguage) CanonicName() Name { return "Content-Language" }

// CompactName returns the compact name of the header.
func (ContentLanguage) CompactName() Name { return "Content-Language" }

// RenderTo writes the header to the provided writer.
func (hdr ContentLanguage) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr ContentLanguage) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr ContentLanguage) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr ContentLanguage) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr ContentLanguage) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentLanguage) Format(f fmt.State, verb rune) {
	type hideMethods ContentLanguage
	type ContentLanguage hideMethods
	formatHdr(f, verb, hdr, ContentLanguage(hdr))
}

// Clone returns a copy of the header.
func (hdr ContentLanguage) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr ContentLanguage) Equal(val any) bool {
	var other ContentLanguage
	switch v := val.(type) {
	case ContentLanguage:
		other = v
	case *ContentLanguage:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(lng1, lng2 Language) bool { return lng1.Equal(lng2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr ContentLanguage) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(lng Language) bool { return !lng.IsValid() })
}

func parseContentLanguage(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (Language, error) {
		start := l.Pos()
		if !isLangChar(l.LA(1)) {
			return "", errtrace.Wrap(errorutil.NewGrammarError(start, "expected language tag"))
		}
		return Language(l.Scan(isLangChar)), nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return ContentLanguage(list), nil
}

func isLangChar(c rune) bool { return grammar.IsAlpha(c) || c == '-' }

// Language is a language tag such as "en" or "fr-CA".
type Language string

func (lng Language) IsValid() bool { return grammar.IsToken(lng) }

func (lng Language) Equal(val any) bool {
	var other Language
	switch v := val.(type) {
	case Language:
		other = v
	case *Language:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(lng, other)
}
