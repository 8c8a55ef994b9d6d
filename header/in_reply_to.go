package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// InReplyTo represents the In-Reply-To header field.
// The In-Reply-To header field enumerates the Call-IDs that this call references or returns.
type InReplyTo []CallID

// CanonicName returns the canonical name of the header.
func (InReplyTo) CanonicName() Name { return "In-Reply-To" }

// CompactName returns the compact name of the header.
func (InReplyTo) CompactName() Name { return "In-Reply-To" }

// RenderTo writes the header to the provided writer.
func (hdr InReplyTo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr InReplyTo) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr InReplyTo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr InReplyTo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr InReplyTo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr InReplyTo) Format(f fmt.State, verb rune) {
	type hideMethods InReplyTo
	type InReplyTo hideMethods
	formatHdr(f, verb, hdr, InReplyTo(hdr))
}

// Clone returns a copy of the header.
func (hdr InReplyTo) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr InReplyTo) Equal(val any) bool {
	var other InReplyTo
	switch v := val.(type) {
	case InReplyTo:
		other = v
	case *InReplyTo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(id1, id2 CallID) bool { return id1.Equal(id2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr InReplyTo) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(id CallID) bool { return !id.IsValid() })
}

func parseInReplyTo(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (CallID, error) {
		id, err := scanCallID(l)
		return CallID(id), errtrace.Wrap(err)
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return InReplyTo(list), nil
}
