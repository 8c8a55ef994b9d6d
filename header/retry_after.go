package header

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// RetryAfter represents the Retry-After header field.
// The Retry-After header field indicates how long the service is expected to be unavailable
// or when the called party anticipates being available again.
type RetryAfter struct {
	Delay   time.Duration
	Comment string
	Params  Values
}

// CanonicName returns the canonical name of the header.
func (*RetryAfter) CanonicName() Name { return "Retry-After" }

// CompactName returns the compact name of the header.
func (*RetryAfter) CompactName() Name { return "Retry-After" }

// RenderTo writes the header to the provided writer.
func (hdr *RetryAfter) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *RetryAfter) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *RetryAfter) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *RetryAfter) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *RetryAfter) Format(f fmt.State, verb rune) {
	type hideMethods RetryAfter
	type RetryAfter hideMethods
	formatHdr(f, verb, hdr, (*RetryAfter)(hdr))
}

func (hdr *RetryAfter) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprint(int64(hdr.Delay.Seconds()))

	if hdr.Comment != "" {
		cw.Fprint(" (", hdr.Comment, ")")
	}

	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(renderHdrParams(w, hdr.Params, false))
	})

	return errtrace.Wrap2(cw.Result())
}

// Clone returns a copy of the header.
func (hdr *RetryAfter) Clone() Header {
	if hdr == nil {
		return nil
	}

	hdr2 := *hdr
	hdr2.Params = hdr.Params.Clone()
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *RetryAfter) Equal(val any) bool {
	var other *RetryAfter
	switch v := val.(type) {
	case RetryAfter:
		other = &v
	case *RetryAfter:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return hdr.Delay == other.Delay &&
		hdr.Comment == other.Comment &&
		compareHdrParams(hdr.Params, other.Params, map[string]bool{"duration": true})
}

// IsValid checks whether the header is syntactically valid.
func (hdr *RetryAfter) IsValid() bool {
	return hdr != nil && hdr.Delay >= 0 && validateHdrParams(hdr.Params)
}

// Duration returns the "duration" parameter.
func (hdr *RetryAfter) Duration() (time.Duration, bool) {
	if hdr == nil {
		return 0, false
	}
	v, ok := hdr.Params.Last("duration")
	if !ok {
		return 0, false
	}
	sec, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(sec) * time.Second, true
}

func parseRetryAfter(l *lex.Lexer, p *uri.Parser) (Header, error) {
	var (
		hdr RetryAfter
		err error
	)
	if hdr.Delay, err = parseDeltaSeconds(l); err != nil {
		return nil, errtrace.Wrap(err)
	}

	mark := l.Mark()
	l.LWS()
	if l.LA(1) == '(' {
		if hdr.Comment, err = parseComment(l); err != nil {
			return nil, errtrace.Wrap(err)
		}
	} else {
		l.Rewind(mark)
	}

	if hdr.Params, err = parseHdrParams(l, p); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &hdr, nil
}
