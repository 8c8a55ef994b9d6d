package header

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Timestamp represents the Timestamp header field.
// The Timestamp header field describes when the UAC sent the request to the UAS.
type Timestamp struct {
	RequestTime   time.Time
	ResponseDelay time.Duration
}

// CanonicName returns the canonical name of the header.
func (*Timestamp) CanonicName() Name { return "Timestamp" }

// CompactName returns the compact name of the header.
func (*Timestamp) CompactName() Name { return "Timestamp" }

// RenderTo writes the header to the provided writer.
func (hdr *Timestamp) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *Timestamp) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *Timestamp) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *Timestamp) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Timestamp) Format(f fmt.State, verb rune) {
	type hideMethods Timestamp
	type Timestamp hideMethods
	formatHdr(f, verb, hdr, (*Timestamp)(hdr))
}

func (hdr *Timestamp) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if !hdr.RequestTime.IsZero() {
		cw.Fprintf("%.3f", float64(hdr.RequestTime.UnixNano())/1e9)
	} else {
		cw.Fprint("0")
	}
	if hdr.ResponseDelay > 0 {
		cw.Fprintf(" %.3f", hdr.ResponseDelay.Seconds())
	}
	return errtrace.Wrap2(cw.Result())
}

// Clone returns a copy of the header.
func (hdr *Timestamp) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Timestamp) Equal(val any) bool {
	var other *Timestamp
	switch v := val.(type) {
	case Timestamp:
		other = &v
	case *Timestamp:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return hdr.RequestTime.Equal(other.RequestTime) && hdr.ResponseDelay == other.ResponseDelay
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Timestamp) IsValid() bool {
	return hdr != nil && hdr.ResponseDelay >= 0
}

func parseTimestamp(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	var hdr Timestamp
	sec, err := parseDecimal(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if sec > 0 {
		whole, frac := math.Modf(sec)
		hdr.RequestTime = time.Unix(int64(whole), int64(math.Round(frac*1e9)))
	}

	mark := l.Mark()
	if l.LWS() && grammar.IsDigit(l.LA(1)) {
		delay, err := parseDecimal(l)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		hdr.ResponseDelay = time.Duration(math.Round(delay * float64(time.Second)))
	} else {
		l.Rewind(mark)
	}
	return &hdr, nil
}

// parseDecimal parses `1*DIGIT ["." *DIGIT]`.
func parseDecimal(l *lex.Lexer) (float64, error) {
	pos := l.Pos()
	s := l.Scan(grammar.IsDigit)
	if s == "" {
		return 0, errtrace.Wrap(errorutil.NewGrammarError(pos, "expected digit"))
	}
	if l.LA(1) == '.' {
		l.Consume(1)
		l.Scan(grammar.IsDigit)
		s = string(l.Slice(pos, l.Pos()))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errtrace.Wrap(errorutil.NewGrammarError(pos, "invalid number %q", s))
	}
	return v, nil
}
