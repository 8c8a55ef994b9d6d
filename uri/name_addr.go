package uri

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// NameAddr is an address with an optional display name,
// as used in From, To, Contact, Route and similar headers.
type NameAddr struct {
	DisplayName string
	URI         URI
}

// ParseNameAddr parses a complete name-addr or addr-spec string with the [DefaultParser].
func ParseNameAddr(s string) (NameAddr, error) {
	l := lex.New([]rune(s))
	addr, err := DefaultParser.ParseNameAddr(l)
	if err != nil {
		return NameAddr{}, errtrace.Wrap(err)
	}
	l.LWS()
	if !l.Done() {
		return NameAddr{}, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after address", string(l.Rest())))
	}
	return addr, nil
}

// RenderTo writes the address in name-addr form, the URI is always enclosed in angle brackets.
func (addr NameAddr) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if addr.DisplayName != "" {
		if grammar.IsToken(addr.DisplayName) {
			cw.Fprint(addr.DisplayName, " ")
		} else {
			cw.Fprint(grammar.Quote(addr.DisplayName), " ")
		}
	}
	cw.Fprint("<")
	if addr.URI != nil {
		cw.Call(func(w io.Writer) (int, error) {
			return errtrace.Wrap2(addr.URI.RenderTo(w, opts))
		})
	}
	cw.Fprint(">")
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the address.
func (addr NameAddr) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	addr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (addr NameAddr) String() string { return addr.Render(nil) }

func (addr NameAddr) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, addr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
		return
	default:
		type hideMethods NameAddr
		type NameAddr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), NameAddr(addr))
		return
	}
}

// Equal compares URIs only, display names are ignored.
func (addr NameAddr) Equal(val any) bool {
	var other NameAddr
	switch v := val.(type) {
	case NameAddr:
		other = v
	case *NameAddr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return types.IsEqual(addr.URI, other.URI)
}

func (addr NameAddr) IsValid() bool { return types.IsValid(addr.URI) }

func (addr NameAddr) IsZero() bool { return addr.DisplayName == "" && addr.URI == nil }

func (addr NameAddr) Clone() NameAddr {
	if addr.URI != nil {
		addr.URI = addr.URI.Clone()
	}
	return addr
}
