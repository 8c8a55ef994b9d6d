package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// AcceptLanguage represents the Accept-Language header field.
// An empty list is allowed.
type AcceptLanguage []LanguageRange

// CanonicName returns the canonical name of the header.
func (AcceptLanguage) CanonicName() Name { return "Accept-Language" }

// CompactName returns the compact name of the header.
func (AcceptLanguage) CompactName() Name { return "Accept-Language" }

// RenderTo writes the header to the provided writer.
func (hdr AcceptLanguage) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr AcceptLanguage) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr AcceptLanguage) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr AcceptLanguage) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr AcceptLanguage) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr AcceptLanguage) Format(f fmt.State, verb rune) {
	type hideMethods AcceptLanguage
	type AcceptLanguage hideMethods
	formatHdr(f, verb, hdr, AcceptLanguage(hdr))
}

// Clone returns a copy of the header.
func (hdr AcceptLanguage) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr AcceptLanguage) Equal(val any) bool {
	var other AcceptLanguage
	switch v := val.(type) {
	case AcceptLanguage:
		other = v
	case *AcceptLanguage:
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
func (hdr AcceptLanguage) IsValid() bool { return hdr != nil && (len(hdr) == 0 || validHdrEntries(hdr)) }

func parseAcceptLanguage(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, true, func() (LanguageRange, error) {
		pos := l.Pos()
		v := l.Token()
		if v == "" {
			return LanguageRange{}, errtrace.Wrap(errorutil.NewGrammarError(pos, "expected language-range"))
		}
		params, err := parseHdrParams(l, p)
		if err != nil {
			return LanguageRange{}, errtrace.Wrap(err)
		}
		return LanguageRange{Lang: Language(lex.InternString(v)), Params: params}, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return AcceptLanguage(list), nil
}

// LanguageRange is a language range of the Accept-Language header with its accept parameters.
type LanguageRange struct {
	Lang   Language
	Params Values
}

func (rng LanguageRange) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(string(rng.Lang))
	renderHdrParams(sb, rng.Params, false) //nolint:errcheck
	return sb.String()
}

func (rng LanguageRange) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, rng.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(rng.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, rng.String())
			return
		}

		type hideMethods LanguageRange
		type LanguageRange hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), LanguageRange(rng))
		return
	}
}

func (rng LanguageRange) Equal(val any) bool {
	var other LanguageRange
	switch v := val.(type) {
	case LanguageRange:
		other = v
	case *LanguageRange:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return rng.Lang.Equal(other.Lang) &&
		compareHdrParams(rng.Params, other.Params, map[string]bool{"q": true})
}

func (rng LanguageRange) IsValid() bool {
	return rng.Lang.IsValid() &&
		validateHdrParams(rng.Params)
}

func (rng LanguageRange) IsZero() bool { return rng.Lang == "" && len(rng.Params) == 0 }

func (rng LanguageRange) Clone() LanguageRange {
	rng.Params = rng.Params.Clone()
	return rng
}
