package header

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Expires represents the Expires header field.
// The Expires header field gives the relative time after which the message (or content) expires.
type Expires struct {
	time.Duration
}

// CanonicName returns the canonical name of the header.
func (*Expires) CanonicName() Name { return "Expires" }

// CompactName returns the compact name of the header.
func (*Expires) CompactName() Name { return "Expires" }

// RenderTo writes the header to the provided writer.
func (hdr *Expires) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *Expires) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *Expires) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *Expires) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Expires) Format(f fmt.State, verb rune) {
	type hideMethods Expires
	type Expires hideMethods
	formatHdr(f, verb, hdr, (*Expires)(hdr))
}

func (hdr *Expires) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, strconv.FormatInt(int64(hdr.Seconds()), 10)))
}

// Clone returns a copy of the header.
func (hdr *Expires) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *Expires) Equal(val any) bool {
	var other *Expires
	switch v := val.(type) {
	case Expires:
		other = &v
	case *Expires:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.Duration == other.Duration
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Expires) IsValid() bool { return hdr != nil && hdr.Duration >= 0 }

func parseExpires(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	d, err := parseDeltaSeconds(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Expires{d}, nil
}

// maxDeltaSeconds caps delta-seconds values, RFC 3261 Section 20.19 allows to treat larger values as 2**32-1.
const maxDeltaSeconds = 1<<32 - 1

func parseDeltaSeconds(l *lex.Lexer) (time.Duration, error) {
	n, err := parseDelta(l)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	return time.Duration(min(n, maxDeltaSeconds)) * time.Second, nil
}
