package uri

//go:generate go tool errtrace -w .

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// ParseAddr parses a network address "host[:port]".
func ParseAddr(s string) (Addr, error) { return errtrace.Wrap2(types.ParseAddr(s)) }

// Values represents URI parameters or headers as a multi-value map.
type Values = types.Values

// RenderOptions contains options for rendering URIs and headers.
type RenderOptions = types.RenderOptions

type TransportProto = types.TransportProto

type RequestMethod = types.RequestMethod

// URI represents generic URI (SIP, SIPS, Tel, ...etc).
type URI interface {
	types.Renderer
	types.Cloneable[URI]
	types.ValidFlag
	types.Equalable
}

// Parse parses any URI (sip, sips, tel, ...etc.) from s with the [DefaultParser].
//
// Parsing of:
//   - sip/sips returns [SIP];
//   - tel URI returns [Tel];
//   - any other URI returns [Any].
func Parse(s string) (URI, error) {
	l := lex.New([]rune(s))
	u, err := DefaultParser.ParseURI(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if !l.Done() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after URI", string(l.Rest())))
	}
	return u, nil
}

// ParseSIP parses a SIP or SIPS URI.
func ParseSIP(s string) (*SIP, error) {
	u, err := Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	v, ok := u.(*SIP)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(-1, "not a SIP URI %q", s))
	}
	return v, nil
}

// ParseTel parses a tel URI.
func ParseTel(s string) (*Tel, error) {
	u, err := Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	v, ok := u.(*Tel)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(-1, "not a tel URI %q", s))
	}
	return v, nil
}

// GetScheme returns the scheme of the URI.
//
// SIP and SIPS URIs return "sip" or "sips" respectively,
// Tel URI returns "tel",
// Any URI returns the value of [Any.Scheme] field.
// If the URI is nil, an empty string is returned.
// If the URI is of unknown type, a panic is raised.
func GetScheme(u URI) string {
	if u == nil {
		return ""
	}

	switch u := u.(type) {
	case *SIP:
		return u.scheme()
	case *Tel:
		return "tel"
	case *Any:
		return u.Scheme
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

// GetAddr returns the address of the URI.
//
// SIP and SIPS URIs returns the value of [SIP.Addr] field,
// Tel URI returns the value of [Tel.Number] field,
// Any URI returns the opaque part.
func GetAddr(u URI) string {
	if u == nil {
		return ""
	}

	switch u := u.(type) {
	case *SIP:
		return u.Addr.String()
	case *Tel:
		return u.Number
	case *Any:
		return u.Opaque
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

// GetParams returns the parameters of the URI, Any URI has no parameters.
func GetParams(u URI) Values {
	if u == nil {
		return nil
	}

	switch u := u.(type) {
	case *SIP:
		return u.Params
	case *Tel:
		return u.Params
	case *Any:
		return nil
	default:
		panic(newUnexpectURITypeErr(u))
	}
}

func newUnexpectURITypeErr(u URI) error {
	return errorutil.Errorf("unexpected URI type %T", u) //errtrace:skip
}

func renderString(u URI, opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// formatURI implements [fmt.Formatter] for URIs.
// raw is u converted to a method-less type, it is printed for verbs other than 's' and 'q'.
func formatURI(f fmt.State, verb rune, u URI, raw any) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.Render(nil))
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.Render(nil)))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), raw)
	}
}
