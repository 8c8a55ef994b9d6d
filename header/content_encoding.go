package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// ContentEncoding represents the Content-Encoding header field.
// The Content-Encoding header field is used as a modifier to the media-type.
type ContentEncoding []Encoding

// CanonicName returns the canonical name of the header.
func (ContentEncoding) CanonicName() Name { return "Content-Encoding" }

// CompactName returns the compact name of the header.
func (ContentEncoding) CompactName() Name { return "e" }

// RenderTo writes the header to the provided writer.
func (hdr ContentEncoding) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr ContentEncoding) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr ContentEncoding) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr ContentEncoding) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr ContentEncoding) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentEncoding) Format(f fmt.State, verb rune) {
	type hideMethods ContentEncoding
	type ContentEncoding hideMethods
	formatHdr(f, verb, hdr, ContentEncoding(hdr))
}

// Clone returns a copy of the header.
func (hdr ContentEncoding) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr ContentEncoding) Equal(val any) bool {
	var other ContentEncoding
	switch v := val.(type) {
	case ContentEncoding:
		other = v
	case *ContentEncoding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(enc1, enc2 Encoding) bool { return enc1.Equal(enc2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr ContentEncoding) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(enc Encoding) bool { return !enc.IsValid() })
}

func parseContentEncoding(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (Encoding, error) {
		tok, err := expectToken(l, "content-coding")
		return Encoding(tok), errtrace.Wrap(err)
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return ContentEncoding(list), nil
}

// Encoding is a content-coding token such as "gzip".
type Encoding string

func (enc Encoding) IsValid() bool { return grammar.IsToken(enc) }

func (enc Encoding) Equal(val any) bool {
	var other Encoding
	switch v := val.(type) {
	case Encoding:
		other = v
	case *Encoding:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(enc, other)
}
