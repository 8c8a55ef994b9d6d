package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Contact represents the Contact header field.
// The Contact header field provides a SIP or SIPS URI that can be used to contact that specific instance
// of the UA for subsequent requests.
// An empty non-nil list is the wildcard form "*".
type Contact []ContactAddr

// CanonicName returns the canonical name of the header.
func (Contact) CanonicName() Name { return "Contact" }

// CompactName returns the compact name of the header.
func (Contact) CompactName() Name { return "m" }

// RenderTo writes the header to the provided writer.
func (hdr Contact) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Contact) renderValueTo(w io.Writer) (num int, err error) {
	if len(hdr) == 0 {
		return errtrace.Wrap2(fmt.Fprint(w, "*"))
	}
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Contact) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Contact) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Contact) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Contact) Format(f fmt.State, verb rune) {
	type hideMethods Contact
	type Contact hideMethods
	formatHdr(f, verb, hdr, Contact(hdr))
}

// Clone returns a copy of the header.
func (hdr Contact) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Contact) Equal(val any) bool {
	var other Contact
	switch v := val.(type) {
	case Contact:
		other = v
	case *Contact:
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
func (hdr Contact) IsValid() bool { return hdr != nil && (len(hdr) == 0 || validHdrEntries(hdr)) }

func parseContact(l *lex.Lexer, p *uri.Parser) (Header, error) {
	if l.LA(1) == '*' {
		l.Consume(1)
		return Contact{}, nil
	}
	list, err := parseList(l, false, func() (ContactAddr, error) {
		return errtrace.Wrap2(parseNameAddr(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Contact(list), nil
}

// ContactAddr is an element of the Contact header.
type ContactAddr = NameAddr

// IsWildcard reports whether the header is the "*" form used to remove all registrations.
func (hdr Contact) IsWildcard() bool { return hdr != nil && len(hdr) == 0 }
