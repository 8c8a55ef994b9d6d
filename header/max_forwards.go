package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// MaxForwards represents the Max-Forwards header field.
// The Max-Forwards header field must be used with any SIP method to limit the number of proxies or gateways
// that can forward the request to the next downstream server.
type MaxForwards uint

func (MaxForwards) CanonicName() Name { return "Max-Forwards" }

func (MaxForwards) CompactName() Name { return "Max-Forwards" }

func (hdr MaxForwards) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr MaxForwards) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, hdr.RenderValue()))
}

func (hdr MaxForwards) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr MaxForwards) RenderValue() string { return strconv.FormatUint(uint64(hdr), 10) }

func (hdr MaxForwards) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr MaxForwards) Format(f fmt.State, verb rune) {
	type hideMethods MaxForwards
	type MaxForwards hideMethods
	formatHdr(f, verb, hdr, MaxForwards(hdr))
}

func (hdr MaxForwards) Clone() Header { return hdr }

func (hdr MaxForwards) Equal(val any) bool {
	switch v := val.(type) {
	case MaxForwards:
		return hdr == v
	case *MaxForwards:
		return v != nil && hdr == *v
	default:
		return false
	}
}

func (hdr MaxForwards) IsValid() bool { return hdr <= 255 }

func parseMaxForwards(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	n, err := l.Number()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return MaxForwards(n), nil
}
