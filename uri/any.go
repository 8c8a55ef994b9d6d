package uri

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Any implements any URI that is neither SIP nor tel.
// The scheme data is not interpreted.
type Any struct {
	// Scheme is the lowercased URI scheme.
	Scheme string
	// Opaque is everything after the scheme colon.
	Opaque string
}

// Clone returns a copy of the Any URI.
func (u *Any) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	return &u2
}

// RenderTo writes the URI to the provided writer.
func (u *Any) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w, u.Scheme, ":", u.Opaque))
}

// Render returns the string representation of the URI.
func (u *Any) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	return renderString(u, opts)
}

func (u *Any) String() string { return u.Render(nil) }

// Format implements [fmt.Formatter].
func (u *Any) Format(f fmt.State, verb rune) {
	type hideMethods Any
	type Any hideMethods
	formatURI(f, verb, u, (*Any)(u))
}

// Equal compares schemes case-insensitively and opaque parts exactly.
func (u *Any) Equal(val any) bool {
	var other *Any
	switch v := val.(type) {
	case Any:
		other = &v
	case *Any:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return util.EqFold(u.Scheme, other.Scheme) && u.Opaque == other.Opaque
}

// IsValid checks whether the URI has a scheme and scheme data.
func (u *Any) IsValid() bool {
	return u != nil && u.Scheme != "" && u.Opaque != ""
}

// MarshalText implements [encoding.TextMarshaler].
func (u *Any) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *Any) UnmarshalText(text []byte) error {
	u1, err := Parse(string(text))
	if err != nil {
		*u = Any{}
		return errtrace.Wrap(err)
	}
	v, ok := u1.(*Any)
	if !ok {
		*u = Any{}
		return errtrace.Wrap(errorutil.NewGrammarError(-1, "unexpected %s URI", GetScheme(u1)))
	}
	*u = *v
	return nil
}
