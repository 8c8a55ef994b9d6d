package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Route represents the Route header field.
// The Route header field is used to force routing for a request through the listed set of proxies.
type Route []RouteHop

// CanonicName returns the canonical name of the header.
func (Route) CanonicName() Name { return "Route" }

// CompactName returns the compact name of the header.
func (Route) CompactName() Name { return "Route" }

// RenderTo writes the header to the provided writer.
func (hdr Route) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Route) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Route) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Route) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Route) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Route) Format(f fmt.State, verb rune) {
	type hideMethods Route
	type Route hideMethods
	formatHdr(f, verb, hdr, Route(hdr))
}

// Clone returns a copy of the header.
func (hdr Route) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Route) Equal(val any) bool {
	var other Route
	switch v := val.(type) {
	case Route:
		other = v
	case *Route:
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
func (hdr Route) IsValid() bool { return validHdrEntries(hdr) }

func parseRoute(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (RouteHop, error) {
		return errtrace.Wrap2(parseNameAddr(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Route(list), nil
}

// RouteHop is an element of the Route and Record-Route headers.
type RouteHop = NameAddr
