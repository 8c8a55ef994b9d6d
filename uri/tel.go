package uri

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Tel implements "tel" URI for Telephone Numbers (RFC 3966).
type Tel struct {
	// Telephone number, global ("+" prefixed) or local. Required.
	Number string
	// URI's parameters.
	// Optional when the telephone number is global.
	// And mandatory to have at least a "phone-context" parameter when the telephone number is local.
	Params Values
}

// IsGlob checks whether the telephone number is global or not.
// RFC 3966 Section 5.1.4.
func (u *Tel) IsGlob() bool { return u != nil && grammar.IsGlobTelNum(u.number()) }

// Clone returns a deep copy of the Tel URI.
func (u *Tel) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Params = u.Params.Clone()
	return &u2
}

// RenderTo writes the Tel URI to the provided writer.
func (u *Tel) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint("tel:", u.number())

	for _, kv := range sortTelParams(u.Params) {
		cw.Fprint(";", kv[0])
		if kv[1] != "" {
			cw.Fprint("=", grammar.EncodeParam(kv[1]))
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// sortTelParams orders parameters as RFC 3966 Section 3 requires:
// "isub" or "ext" first, then "phone-context", then the rest alphabetically.
func sortTelParams(params Values) [][]string {
	kvs := make([][]string, 0, len(params))
	for k := range params {
		v, _ := params.Last(k)
		kvs = append(kvs, []string{util.LCase(k), v})
	}
	slices.SortFunc(kvs, func(a, b []string) int {
		return cmp.Or(cmp.Compare(telParamRank(a[0]), telParamRank(b[0])), util.CmpKVs(a, b))
	})
	return kvs
}

func telParamRank(name string) int {
	switch name {
	case "isub", "ext":
		return 0
	case "phone-context":
		return 1
	default:
		return 2
	}
}

func (u *Tel) number() string { return strings.ReplaceAll(u.Number, " ", "") }

// Render returns the string representation of the Tel URI.
func (u *Tel) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	return renderString(u, opts)
}

func (u *Tel) String() string { return u.Render(nil) }

// Format implements [fmt.Formatter].
func (u *Tel) Format(f fmt.State, verb rune) {
	type hideMethods Tel
	type Tel hideMethods
	formatURI(f, verb, u, (*Tel)(u))
}

// Equal reports whether val is a tel URI equal to u by RFC 3966 Section 4 rules:
// numbers match after visual separators are removed, parameter sets match by name,
// values compare case-insensitively.
func (u *Tel) Equal(val any) bool {
	var other *Tel
	switch v := val.(type) {
	case Tel:
		other = &v
	case *Tel:
		other = v
	default:
		return false
	}
	if u == nil || other == nil {
		return u == other
	}
	if !util.EqFold(grammar.CleanTelNum(u.number()), grammar.CleanTelNum(other.number())) ||
		len(u.Params) != len(other.Params) {
		return false
	}
	for k := range u.Params {
		v2, ok := other.Params.Last(k)
		if !ok {
			return false
		}
		v1, _ := u.Params.Last(k)
		if !util.EqFold(telParamCmpValue(k, v1), telParamCmpValue(k, v2)) {
			return false
		}
	}
	return true
}

// telParamCmpValue strips visual separators from "ext" and numeric "phone-context" values.
func telParamCmpValue(name, val string) string {
	switch util.LCase(name) {
	case "ext", "phone-context":
		if grammar.IsTelNum(val) {
			return grammar.CleanTelNum(val)
		}
	}
	return val
}

// IsValid checks whether the u is syntactically valid tel URI.
func (u *Tel) IsValid() bool {
	if u == nil {
		return false
	}
	if u.number() == "" {
		return false
	}
	if !u.IsGlob() {
		if ctx, ok := u.Params.Last("phone-context"); !ok || grammar.CleanTelNum(ctx) == "" {
			return false
		}
	}
	for k := range u.Params {
		if !grammar.IsToken(k) {
			return false
		}
	}
	return true
}

// ToSIP converts the Tel URI to a SIP URI according to RFC 3966 Section 5.1.7.
func (u *Tel) ToSIP() *SIP {
	if u == nil {
		return nil
	}

	u2, _ := u.Clone().(*Tel)
	u2.Number = grammar.CleanTelNum(u2.Number)

	var host string
	if !u2.IsGlob() {
		if ctx, _ := u2.Params.Last("phone-context"); grammar.IsHost(ctx) {
			host = ctx
			u2.Params.Del("phone-context")
		} else if ctx != "" {
			u2.Params.Set("phone-context", grammar.CleanTelNum(ctx))
		}
	}
	if ext, _ := u2.Params.Last("ext"); ext != "" {
		u2.Params.Set("ext", grammar.CleanTelNum(ext))
	}
	// RFC 3966 Section 4.
	// All parameter names and values SHOULD use lower-case characters, as
	// tel URIs may be used within contexts where comparisons are case-sensitive.
	return &SIP{
		User:   User(util.LCase(u2.Render(nil)[4:])),
		Addr:   Host(host),
		Params: make(Values).Set("user", "phone"),
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (u *Tel) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *Tel) UnmarshalText(text []byte) error {
	u1, err := ParseTel(string(text))
	if err != nil {
		*u = Tel{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

func (u *Tel) PhoneContext() (string, bool) {
	return u.Params.Last("phone-context")
}

func (u *Tel) Extension() (string, bool) {
	return u.Params.Last("ext")
}

func (u *Tel) ISDNSubAddr() (string, bool) {
	return u.Params.Last("isub")
}
