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

// AcceptEncoding represents the Accept-Encoding header field.
// An empty list is allowed.
type AcceptEncoding []EncodingRange

// CanonicName returns the canonical name of the header.
func (AcceptEncoding) CanonicName() Name { return "Accept-Encoding" }

// CompactName returns the compact name of the header.
func (AcceptEncoding) CompactName() Name { return "Accept-Encoding" }

// RenderTo writes the header to the provided writer.
func (hdr AcceptEncoding) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr AcceptEncoding) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr AcceptEncoding) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr AcceptEncoding) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr AcceptEncoding) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr AcceptEncoding) Format(f fmt.State, verb rune) {
	type hideMethods AcceptEncoding
	type AcceptEncoding hideMethods
	formatHdr(f, verb, hdr, AcceptEncoding(hdr))
}

// Clone returns a copy of the header.
func (hdr AcceptEncoding) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr AcceptEncoding) Equal(val any) bool {
	var other AcceptEncoding
	switch v := val.(type) {
	case AcceptEncoding:
		other = v
	case *AcceptEncoding:
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
func (hdr AcceptEncoding) IsValid() bool { return hdr != nil && (len(hdr) == 0 || validHdrEntries(hdr)) }

func parseAcceptEncoding(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, true, func() (EncodingRange, error) {
		pos := l.Pos()
		v := l.Token()
		if v == "" {
			return EncodingRange{}, errtrace.Wrap(errorutil.NewGrammarError(pos, "expected content-coding"))
		}
		params, err := parseHdrParams(l, p)
		if err != nil {
			return EncodingRange{}, errtrace.Wrap(err)
		}
		return EncodingRange{Encoding: Encoding(lex.InternString(v)), Params: params}, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return AcceptEncoding(list), nil
}

// EncodingRange is a coding of the Accept-Encoding header with its accept parameters.
type EncodingRange struct {
	Encoding Encoding
	Params   Values
}

func (rng EncodingRange) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(string(rng.Encoding))
	renderHdrParams(sb, rng.Params, false) //nolint:errcheck
	return sb.String()
}

func (rng EncodingRange) Format(f fmt.State, verb rune) {
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

		type hideMethods EncodingRange
		type EncodingRange hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), EncodingRange(rng))
		return
	}
}

func (rng EncodingRange) Equal(val any) bool {
	var other EncodingRange
	switch v := val.(type) {
	case EncodingRange:
		other = v
	case *EncodingRange:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return rng.Encoding.Equal(other.Encoding) &&
		compareHdrParams(rng.Params, other.Params, map[string]bool{"q": true})
}

func (rng EncodingRange) IsValid() bool {
	return rng.Encoding.IsValid() &&
		validateHdrParams(rng.Params)
}

func (rng EncodingRange) IsZero() bool { return rng.Encoding == "" && len(rng.Params) == 0 }

func (rng EncodingRange) Clone() EncodingRange {
	rng.Params = rng.Params.Clone()
	return rng
}
