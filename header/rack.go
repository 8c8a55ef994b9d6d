package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// RAck represents the RAck header field (RFC 3262).
// The RAck header field is sent in a PRACK request to acknowledge a reliable provisional response.
// It holds the RSeq of the response and the CSeq of the request the response belongs to.
type RAck struct {
	RSeq   uint
	CSeq   uint
	Method RequestMethod
}

// CanonicName returns the canonical name of the header.
func (*RAck) CanonicName() Name { return "RAck" }

// CompactName returns the compact name of the header.
func (*RAck) CompactName() Name { return "RAck" }

// RenderTo writes the header to the provided writer.
func (hdr *RAck) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *RAck) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *RAck) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *RAck) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *RAck) Format(f fmt.State, verb rune) {
	type hideMethods RAck
	type RAck hideMethods
	formatHdr(f, verb, hdr, (*RAck)(hdr))
}

func (hdr *RAck) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w,
		strconv.FormatUint(uint64(hdr.RSeq), 10), " ",
		strconv.FormatUint(uint64(hdr.CSeq), 10), " ",
		hdr.Method,
	))
}

// Clone returns a copy of the header.
func (hdr *RAck) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *RAck) Equal(val any) bool {
	var other *RAck
	switch v := val.(type) {
	case RAck:
		other = &v
	case *RAck:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.RSeq == other.RSeq && hdr.CSeq == other.CSeq && hdr.Method.Equal(other.Method)
}

// IsValid checks whether the header is syntactically valid.
func (hdr *RAck) IsValid() bool {
	return hdr != nil &&
		hdr.RSeq > 0 && hdr.RSeq <= maxSeqNum &&
		hdr.CSeq <= maxSeqNum &&
		hdr.Method.IsValid()
}

func parseRAck(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	var (
		hdr RAck
		err error
	)
	if hdr.RSeq, err = parseSeqNum(l); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if !l.LWS() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "expected whitespace after response number"))
	}
	if hdr.CSeq, err = parseSeqNum(l); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if !l.LWS() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "expected whitespace after sequence number"))
	}
	if hdr.Method, err = parseMethod(l); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &hdr, nil
}
