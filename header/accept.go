package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// Accept represents the Accept header field.
// The Accept header field lists the media types acceptable for the response.
// An empty list means no body is acceptable.
type Accept []MIMERange

// CanonicName returns the canonical name of the header.
func (Accept) CanonicName() Name { return "Accept" }

// CompactName returns the compact name of the header.
func (Accept) CompactName() Name { return "Accept" }

// RenderTo writes the header to the provided writer.
func (hdr Accept) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Accept) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Accept) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Accept) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Accept) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Accept) Format(f fmt.State, verb rune) {
	type hideMethods Accept
	type Accept hideMethods
	formatHdr(f, verb, hdr, Accept(hdr))
}

// Clone returns a copy of the header.
func (hdr Accept) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Accept) Equal(val any) bool {
	var other Accept
	switch v := val.(type) {
	case Accept:
		other = v
	case *Accept:
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
func (hdr Accept) IsValid() bool { return hdr != nil && (len(hdr) == 0 || validHdrEntries(hdr)) }

func parseAccept(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, true, func() (MIMERange, error) {
		mt, params, err := parseMIMEType(l, true)
		if err != nil {
			return MIMERange{}, errtrace.Wrap(err)
		}
		return MIMERange{MIMEType: mt, Params: params}, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Accept(list), nil
}

// MIMERange is a media range of the Accept header.
// Params holds the accept parameters, that is "q" and the ones following it.
type MIMERange struct {
	MIMEType
	Params Values
}

func (rng MIMERange) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(rng.MIMEType.String())
	renderHdrParams(sb, rng.Params, len(rng.MIMEType.Params) > 0) //nolint:errcheck
	return sb.String()
}

func (rng MIMERange) Format(f fmt.State, verb rune) {
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

		type hideMethods MIMERange
		type MIMERange hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), MIMERange(rng))
		return
	}
}

func (rng MIMERange) Equal(val any) bool {
	var other MIMERange
	switch v := val.(type) {
	case MIMERange:
		other = v
	case *MIMERange:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return rng.MIMEType.Equal(other.MIMEType) &&
		compareHdrParams(rng.Params, other.Params, map[string]bool{"q": true})
}

func (rng MIMERange) IsValid() bool {
	return rng.MIMEType.IsValid() &&
		validateHdrParams(rng.Params)
}

func (rng MIMERange) IsZero() bool {
	return rng.MIMEType.IsZero() && len(rng.Params) == 0
}

func (rng MIMERange) Clone() MIMERange {
	rng.MIMEType = rng.MIMEType.Clone()
	rng.Params = rng.Params.Clone()
	return rng
}
