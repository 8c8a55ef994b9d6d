package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// AlertInfo represents the Alert-Info header field.
// The Alert-Info header field specifies an alternative ring tone to the UAS or an alternative ringback tone to the UAC.
type AlertInfo []AlertInfoAddr

// CanonicName returns the canonical name of the header.
func (AlertInfo) CanonicName() Name { return "Alert-Info" }

// CompactName returns the compact name of the header.
func (AlertInfo) CompactName() Name { return "Alert-Info" }

// RenderTo writes the header to the provided writer.
func (hdr AlertInfo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr AlertInfo) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr AlertInfo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr AlertInfo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr AlertInfo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr AlertInfo) Format(f fmt.State, verb rune) {
	type hideMethods AlertInfo
	type AlertInfo hideMethods
	formatHdr(f, verb, hdr, AlertInfo(hdr))
}

// Clone returns a copy of the header.
func (hdr AlertInfo) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr AlertInfo) Equal(val any) bool {
	var other AlertInfo
	switch v := val.(type) {
	case AlertInfo:
		other = v
	case *AlertInfo:
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
func (hdr AlertInfo) IsValid() bool { return validHdrEntries(hdr) }

func parseAlertInfo(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (AlertInfoAddr, error) {
		return errtrace.Wrap2(parseInfoAddr(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return AlertInfo(list), nil
}

// AlertInfoAddr is an element of the Alert-Info header.
type AlertInfoAddr = InfoAddr
