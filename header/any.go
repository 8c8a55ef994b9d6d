package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
)

// Any implements a generic header.
// It holds headers that have no dedicated type and optional headers whose values failed to parse.
// Value is kept unfolded as it was received.
type Any struct {
	Name  string
	Value string
}

func (hdr *Any) CanonicName() Name { return CanonicName(hdr.Name) }

func (hdr *Any) CompactName() Name { return CanonicName(hdr.Name) }

func (hdr *Any) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w, hdr.CanonicName(), ": ", hdr.Value))
}

func (hdr *Any) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr *Any) String() string { return hdr.RenderValue() }

// RenderValue returns the header value without the name prefix.
func (hdr *Any) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return hdr.Value
}

func (hdr *Any) Format(f fmt.State, verb rune) {
	type hideMethods Any
	type Any hideMethods
	formatHdr(f, verb, hdr, (*Any)(hdr))
}

func (hdr *Any) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

func (hdr *Any) Equal(val any) bool {
	var other *Any
	switch v := val.(type) {
	case Any:
		other = &v
	case *Any:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}

	return CanonicName(hdr.Name) == CanonicName(other.Name) && hdr.Value == other.Value
}

func (hdr *Any) IsValid() bool { return hdr != nil && grammar.IsToken(hdr.Name) }

// IsZero reports whether the header has neither name nor value.
func (hdr *Any) IsZero() bool { return hdr == nil || hdr.Name == "" && hdr.Value == "" }

