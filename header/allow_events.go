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

// AllowEvents represents the Allow-Events header field (RFC 6665).
// It lists the event packages supported by the client.
type AllowEvents []string

// CanonicName returns the canonical name of the header.
func (AllowEvents) CanonicName() Name { return "Allow-Events" }

// CompactName returns the compact name of the header.
func (AllowEvents) CompactName() Name { return "u" }

// RenderTo writes the header to the provided writer.
func (hdr AllowEvents) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr AllowEvents) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr AllowEvents) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr AllowEvents) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr AllowEvents) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr AllowEvents) Format(f fmt.State, verb rune) {
	type hideMethods AllowEvents
	type AllowEvents hideMethods
	formatHdr(f, verb, hdr, AllowEvents(hdr))
}

// Clone returns a copy of the header.
func (hdr AllowEvents) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr AllowEvents) Equal(val any) bool {
	var other AllowEvents
	switch v := val.(type) {
	case AllowEvents:
		other = v
	case *AllowEvents:
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
func (hdr AllowEvents) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(s string) bool { return !grammar.IsToken(s) })
}

func parseAllowEvents(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseTokenList(l, false)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return AllowEvents(list), nil
}
