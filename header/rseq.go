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

// RSeq represents the RSeq header field (RFC 3262).
// It carries the sequence number of a reliable provisional response.
type RSeq uint

func (RSeq) CanonicName() Name { return "RSeq" }

func (RSeq) CompactName() Name { return "RSeq" }

func (hdr RSeq) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr RSeq) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, hdr.RenderValue()))
}

func (hdr RSeq) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr RSeq) RenderValue() string { return strconv.FormatUint(uint64(hdr), 10) }

func (hdr RSeq) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr RSeq) Format(f fmt.State, verb rune) {
	type hideMethods RSeq
	type RSeq hideMethods
	formatHdr(f, verb, hdr, RSeq(hdr))
}

func (hdr RSeq) Clone() Header { return hdr }

func (hdr RSeq) Equal(val any) bool {
	switch v := val.(type) {
	case RSeq:
		return hdr == v
	case *RSeq:
		return v != nil && hdr == *v
	default:
		return false
	}
}

// IsValid checks that the sequence number is in the range 1 to 2**32-1.
func (hdr RSeq) IsValid() bool { return hdr > 0 && uint64(hdr) <= maxSeqNum }

const maxSeqNum = 1<<32 - 1

func parseRSeq(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	n, err := parseSeqNum(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return RSeq(n), nil
}

// parseSeqNum parses a 1*DIGIT sequence number of at most 32 bits.
func parseSeqNum(l *lex.Lexer) (uint, error) {
	pos := l.Pos()
	n, err := parseDelta(l)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	if n > maxSeqNum {
		return 0, errtrace.Wrap(errorutil.NewGrammarError(pos, "sequence number %d overflows 32 bits", n))
	}
	return uint(n), nil
}
