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

// Unsupported represents the Unsupported header field.
// The Unsupported header field lists the features not supported by the UAS.
type Unsupported []Option

// CanonicName returns the canonical name of the header.
func (Unsupported) CanonicName() Name { return "Unsupported" }

// CompactName returns the compact name of the header.
func (Unsupported) CompactName() Name { return "Unsupported" }

// RenderTo writes the header to the provided writer.
func (hdr Unsupported) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Unsupported) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Unsupported) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Unsupported) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Unsupported) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Unsupported) Format(f fmt.State, verb rune) {
	type hideMethods Unsupported
	type Unsupported hideMethods
	formatHdr(f, verb, hdr, Unsupported(hdr))
}

// Clone returns a copy of the header.
func (hdr Unsupported) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr Unsupported) Equal(val any) bool {
	var other Unsupported
	switch v := val.(type) {
	case Unsupported:
		other = v
	case *Unsupported:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, util.EqFold)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Unsupported) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(s Option) bool { return !grammar.IsToken(s) })
}

func parseUnsupported(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseTokenList(l, false)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Unsupported(list), nil
}
