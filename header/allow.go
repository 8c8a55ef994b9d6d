package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Allow represents the Allow header field.
// The Allow header field lists the set of methods supported by the UA generating the message.
// An empty list means the UA supports no methods.
type Allow []RequestMethod

// CanonicName returns the canonical name of the header.
func (Allow) CanonicName() Name { return "Allow" }

// CompactName returns the compact name of the header.
func (Allow) CompactName() Name { return "Allow" }

// RenderTo writes the header to the provided writer.
func (hdr Allow) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Allow) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Allow) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Allow) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Allow) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Allow) Format(f fmt.State, verb rune) {
	type hideMethods Allow
	type Allow hideMethods
	formatHdr(f, verb, hdr, Allow(hdr))
}

// Clone returns a copy of the header.
func (hdr Allow) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr Allow) Equal(val any) bool {
	var other Allow
	switch v := val.(type) {
	case Allow:
		other = v
	case *Allow:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(mtd1, mtd2 RequestMethod) bool { return mtd1.Equal(mtd2) })
}

// IsValid checks whether the header is syntactically valid.
func (hdr Allow) IsValid() bool {
	return hdr != nil && !slices.ContainsFunc(hdr, func(mtd RequestMethod) bool { return !mtd.IsValid() })
}

func parseAllow(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseList(l, true, func() (RequestMethod, error) { return errtrace.Wrap2(parseMethod(l)) })
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Allow(list), nil
}
