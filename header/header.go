package header

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"net/textproto"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// Values represents header parameters as a multi-value map.
type Values = types.Values

// ProtoInfo represents SIP protocol information (name and version).
type ProtoInfo = types.ProtoInfo

// TransportProto represents a transport protocol (UDP, TCP, TLS, SCTP, WS, WSS).
type TransportProto = types.TransportProto

// RequestMethod represents a SIP request method (INVITE, ACK, BYE, etc.).
type RequestMethod = types.RequestMethod

// RenderOptions contains options for rendering headers and URIs.
type RenderOptions = types.RenderOptions

// Header represents a generic SIP header.
type Header interface {
	types.Renderer
	types.Cloneable[Header]
	types.ValidFlag
	types.Equalable
	CanonicName() Name
	CompactName() Name
	RenderValue() string
}

// Name represents a SIP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

// CanonicName converts name to the canonical form.
// Names of known headers, compact forms included, resolve to the name of their kind,
// so "l", "content-length" and "CONTENT-LENGTH" all become "Content-Length".
// Other names are canonicalized with [textproto.CanonicalMIMEHeaderKey].
func CanonicName[T ~string](name T) Name {
	name = util.TrimSP(name)
	if k, ok := Lookup(string(name)); ok {
		return k.Name()
	}
	return Name(textproto.CanonicalMIMEHeaderKey(string(name)))
}

// valueRenderer is a header able to write its value without the name.
type valueRenderer interface {
	Header
	renderValueTo(w io.Writer) (int, error)
}

func renderHdr(w io.Writer, hdr valueRenderer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(hdrName(hdr, opts), ": ")
	cw.Call(hdr.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func hdrName(hdr Header, opts *RenderOptions) Name {
	if opts != nil && opts.Compact {
		return hdr.CompactName()
	}
	return hdr.CanonicName()
}

func renderHdrString(hdr Header, opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func renderValueString(hdr valueRenderer) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func renderHdrEntries[H ~[]E, E any](w io.Writer, hdr H) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i := range hdr {
		if i > 0 {
			cw.Fprint(", ")
		}
		cw.Fprint(hdr[i])
	}
	return errtrace.Wrap2(cw.Result())
}

func renderHdrParams(w io.Writer, params Values, addQParam bool) (num int, err error) {
	if len(params) == 0 && !addQParam {
		return 0, nil
	}

	// Sort parameters in alphabet order, but with "q" parameter always the first place.
	// If missing the "q" param, then dump it with the default value.
	// RFC 2616 Section 14.1.
	var kvs [][]string //nolint:prealloc
	if addQParam && !params.Has("q") {
		kvs = append(kvs, []string{"q", "1"})
	}
	for k := range params {
		v, _ := params.Last(k)
		kvs = append(kvs, []string{util.LCase(k), v})
	}
	slices.SortFunc(kvs, func(a, b []string) int {
		if a[0] == "q" && b[0] != "q" {
			return -1
		} else if a[0] != "q" && b[0] == "q" {
			return 1
		}
		return util.CmpKVs(a, b)
	})

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, kv := range kvs {
		cw.Fprint(";", kv[0])
		if kv[1] != "" {
			cw.Fprint("=", kv[1])
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func compareHdrParams(params1, params2 Values, specParams map[string]bool) bool {
	switch {
	case len(params1) == 0 && len(params2) == 0:
		return true
	case len(params1) == 0:
		return !hasSpecHdrParam(params2, specParams)
	case len(params2) == 0:
		return !hasSpecHdrParam(params1, specParams)
	}

	// Parameters present in both lists must match, quoted values case-sensitively.
	// Special parameters present in one list must be present in the other.
	for k := range params1 {
		if params2.Has(k) {
			v1, _ := params1.Last(k)
			v2, _ := params2.Last(k)
			if grammar.IsQuoted(v1) || grammar.IsQuoted(v2) {
				if v1 != v2 {
					return false
				}
			} else if !util.EqFold(v1, v2) {
				return false
			}
		} else if specParams[k] {
			return false
		}
	}
	for k := range specParams {
		if params2.Has(k) && !params1.Has(k) {
			return false
		}
	}
	return true
}

func hasSpecHdrParam(params Values, specParams map[string]bool) bool {
	for k := range specParams {
		if params.Has(k) {
			return true
		}
	}
	return false
}

func validateHdrParams(params Values) bool {
	for k := range params {
		if !grammar.IsToken(k) {
			return false
		}
		v, _ := params.Last(k)
		if v != "" && !(grammar.IsToken(v) || grammar.IsHost(v) || grammar.IsQuoted(v)) {
			return false
		}
	}
	return true
}

func cloneHdrEntries[H ~[]E, E interface{ Clone() E }](hdr H) H {
	var hdr2 H
	if hdr == nil {
		return hdr2
	}
	hdr2 = make(H, len(hdr))
	for i := range hdr {
		hdr2[i] = hdr[i].Clone()
	}
	return hdr2
}

func equalHdrEntries[H ~[]E, E interface{ Equal(val any) bool }](hdr1, hdr2 H) bool {
	return slices.EqualFunc(hdr1, hdr2, func(e1, e2 E) bool { return e1.Equal(e2) })
}

func validHdrEntries[H ~[]E, E types.ValidFlag](hdr H) bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(e E) bool { return !e.IsValid() })
}

// Parse parses a single "Name: value" header line.
// Values of list headers may hold several comma-separated elements, they are all kept in the returned header.
// Unknown headers are returned as [*Any].
//
// Example usage:
//
//	hdr, err := header.Parse("From: <sip:alice@example.com;foo>;tag=qwerty")
func Parse(s string) (Header, error) {
	l := lex.New([]rune(s))
	name := l.Token()
	if name == "" {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(0, "empty header name"))
	}
	l.SkipWSP()
	if err := l.Match(':'); err != nil {
		return nil, errtrace.Wrap(err)
	}

	kind, ok := Lookup(name)
	if !ok {
		return &Any{Name: name, Value: Unfold(l.Rest())}, nil
	}
	return errtrace.Wrap2(kind.Parse(l.Rest(), uri.DefaultParser))
}

// formatHdr implements [fmt.Formatter] for headers.
// raw is the header converted to a method-less type, it is used for verbs other than 's' and 'q'.
func formatHdr(f fmt.State, verb rune, hdr Header, raw any) {
	switch verb {
	case 's':
		if f.Flag('+') {
			hdr.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, hdr.RenderValue())
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(hdr.Render(nil)))
			return
		}
		fmt.Fprint(f, strconv.Quote(hdr.RenderValue()))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), raw)
	}
}
