package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// ErrorInfo represents the Error-Info header field.
// The Error-Info header field provides a pointer to additional information about the error status response.
type ErrorInfo []ErrorInfoAddr

// CanonicName returns the canonical name of the header.
func (ErrorInfo) CanonicName() Name { return "Error-Info" }

// CompactName returns the compact name of the header.
func (ErrorInfo) CompactName() Name { return "Error-Info" }

// RenderTo writes the header to the provided writer.
func (hdr ErrorInfo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr ErrorInfo) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr ErrorInfo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr ErrorInfo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr ErrorInfo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ErrorInfo) Format(f fmt.State, verb rune) {
	type hideMethods ErrorInfo
	type ErrorInfo hideMethods
	formatHdr(f, verb, hdr, ErrorInfo(hdr))
}

// Clone returns a copy of the header.
func (hdr ErrorInfo) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr ErrorInfo) Equal(val any) bool {
	var other ErrorInfo
	switch v := val.(type) {
	case ErrorInfo:
		other = v
	case *ErrorInfo:
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
func (hdr ErrorInfo) IsValid() bool { return validHdrEntries(hdr) }

func parseErrorInfo(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (ErrorInfoAddr, error) {
		return errtrace.Wrap2(parseInfoAddr(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return ErrorInfo(list), nil
}

// ErrorInfoAddr is an element of the Error-Info header.
type ErrorInfoAddr = InfoAddr
