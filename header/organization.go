package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Organization represents the Organization header field.
// The Organization header field conveys the name of the organization to which the SIP element issuing
// the request or response belongs.
type Organization string

func (Organization) CanonicName() Name { return "Organization" }

func (Organization) CompactName() Name { return "Organization" }

func (hdr Organization) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Organization) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr Organization) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr Organization) RenderValue() string { return string(hdr) }

func (hdr Organization) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Organization) Format(f fmt.State, verb rune) {
	type hideMethods Organization
	type Organization hideMethods
	formatHdr(f, verb, hdr, Organization(hdr))
}

func (hdr Organization) Clone() Header { return hdr }

func (hdr Organization) Equal(val any) bool {
	switch v := val.(type) {
	case Organization:
		return hdr == v
	case *Organization:
		return v != nil && hdr == *v
	default:
		return false
	}
}

func (Organization) IsValid() bool { return true }

func parseOrganization(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	return Organization(restText(l)), nil
}
