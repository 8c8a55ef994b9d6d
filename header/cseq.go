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

// CSeq represents the CSeq header field.
// The CSeq header field serves as a way to identify and order transactions.
// It consists of a sequence number and a method.
type CSeq struct {
	SeqNum uint
	Method RequestMethod
}

// CanonicName returns the canonical name of the header.
func (*CSeq) CanonicName() Name { return "CSeq" }

// CompactName returns the compact name of the header.
func (*CSeq) CompactName() Name { return "CSeq" }

// RenderTo writes the header to the provided writer.
func (hdr *CSeq) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *CSeq) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *CSeq) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *CSeq) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *CSeq) Format(f fmt.State, verb rune) {
	type hideMethods CSeq
	type CSeq hideMethods
	formatHdr(f, verb, hdr, (*CSeq)(hdr))
}

func (hdr *CSeq) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w, strconv.FormatUint(uint64(hdr.SeqNum), 10), " ", hdr.Method))
}

// Clone returns a copy of the header.
func (hdr *CSeq) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *CSeq) Equal(val any) bool {
	var other *CSeq
	switch v := val.(type) {
	case CSeq:
		other = &v
	case *CSeq:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.SeqNum == other.SeqNum && hdr.Method.Equal(other.Method)
}

// IsValid checks whether the header is syntactically valid.
func (hdr *CSeq) IsValid() bool {
	return hdr != nil && hdr.SeqNum <= maxSeqNum && hdr.Method.IsValid()
}

func parseCSeq(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	var (
		hdr CSeq
		err error
	)
	if hdr.SeqNum, err = parseSeqNum(l); err != nil {
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
