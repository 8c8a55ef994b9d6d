package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// CallInfo represents the Call-Info header field.
// The Call-Info header field provides additional information about the caller or callee.
// The "purpose" parameter describes how the URI is used.
type CallInfo []CallInfoAddr

// CanonicName returns the canonical name of the header.
func (CallInfo) CanonicName() Name { return "Call-Info" }

// CompactName returns the compact name of the header.
func (CallInfo) CompactName() Name { return "Call-Info" }

// RenderTo writes the header to the provided writer.
func (hdr CallInfo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr CallInfo) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr CallInfo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr CallInfo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr CallInfo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr CallInfo) Format(f fmt.State, verb rune) {
	type hideMethods CallInfo
	type CallInfo hideMethods
	formatHdr(f, verb, hdr, CallInfo(hdr))
}

// Clone returns a copy of the header.
func (hdr CallInfo) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr CallInfo) Equal(val any) bool {
	var other CallInfo
	switch v := val.(type) {
	case CallInfo:
		other = v
	case *CallInfo:
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
func (hdr CallInfo) IsValid() bool { return validHdrEntries(hdr) }

func parseCallInfo(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (CallInfoAddr, error) {
		return errtrace.Wrap2(parseInfoAddr(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return CallInfo(list), nil
}

// CallInfoAddr is an element of the Call-Info header.
type CallInfoAddr = InfoAddr
