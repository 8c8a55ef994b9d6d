package uri

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

// SIP represents a SIP or SIPS URI.
type SIP struct {
	User    UserInfo // username and passwd
	Addr    Addr     // host and port
	Params  Values   // parameters
	Headers Values   // headers
	Secured bool
	// PreEscaped marks parameter values that were received already escaped.
	PreEscaped bool
}

// Clone returns a deep copy of the SIP URI.
func (u *SIP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	u2.Params = u.Params.Clone()
	u2.Headers = u.Headers.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *SIP) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme()
}

func (u *SIP) scheme() string {
	if u.Secured {
		return "sips"
	}
	return "sip"
}

// RenderTo writes the SIP URI to the provided writer.
func (u *SIP) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(u.scheme(), ":")
	if !u.User.IsZero() {
		cw.Fprint(u.User.String(), "@")
	}
	cw.Fprint(u.Addr.String())
	cw.Call(u.renderParams)
	cw.Call(u.renderHeaders)
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderParams(w io.Writer) (num int, err error) {
	if len(u.Params) == 0 {
		return 0, nil
	}

	kvs := make([][]string, 0, len(u.Params))
	for k := range u.Params {
		v, _ := u.Params.Last(k)
		kvs = append(kvs, []string{util.LCase(k), v})
	}
	slices.SortFunc(kvs, util.CmpKVs)

	encVal := grammar.EncodeParam
	if u.PreEscaped {
		encVal = grammar.EncodeParamPreEscaped
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, kv := range kvs {
		cw.Fprint(";", grammar.EncodeParam(kv[0]))
		if kv[1] != "" {
			cw.Fprint("=", encVal(kv[1]))
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderHeaders(w io.Writer) (num int, err error) {
	if len(u.Headers) == 0 {
		return 0, nil
	}

	kvs := make([][]string, 0, len(u.Headers))
	for k := range u.Headers {
		kvs = append(kvs, append([]string{util.LCase(k)}, u.Headers.Get(k)...))
	}
	slices.SortFunc(kvs, util.CmpKVs)

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint("?")

	var i int
	for _, kv := range kvs {
		for _, v := range kv[1:] {
			if i > 0 {
				cw.Fprint("&")
			}
			cw.Fprint(grammar.EncodeHeader(kv[0]), "=", grammar.EncodeHeader(v))
			i++
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the SIP URI.
func (u *SIP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	return renderString(u, opts)
}

func (u *SIP) String() string { return u.Render(nil) }

// Format implements [fmt.Formatter].
func (u *SIP) Format(f fmt.State, verb rune) {
	type hideMethods SIP
	type SIP hideMethods
	formatURI(f, verb, u, (*SIP)(u))
}

// Equal compares this SIP URI with another for equality according to RFC 3261 Section 19.1.4.
func (u *SIP) Equal(val any) bool {
	var other *SIP
	switch v := val.(type) {
	case SIP:
		other = &v
	case *SIP:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.Secured == other.Secured &&
		u.User.Equal(other.User) &&
		u.Addr.Equal(other.Addr) &&
		u.compareParams(other.Params) &&
		u.compareHeaders(other.Headers)
}

func (u *SIP) compareParams(params Values) bool {
	switch {
	case len(u.Params) == 0 && len(params) == 0:
		return true
	case len(u.Params) == 0:
		return !hasSIPURISpecParam(params)
	case len(params) == 0:
		return !hasSIPURISpecParam(u.Params)
	}

	// Parameters present in both URIs must match,
	// special ones present in one URI must be present in the other.
	for k := range u.Params {
		if params.Has(k) {
			v1, _ := u.Params.Last(k)
			v2, _ := params.Last(k)
			if !util.EqFold(v1, v2) {
				return false
			}
		} else if sipURISpecParams[k] {
			return false
		}
	}
	for k := range sipURISpecParams {
		if params.Has(k) && !u.Params.Has(k) {
			return false
		}
	}
	return true
}

var sipURISpecParams = map[string]bool{
	"transport": true,
	"user":      true,
	"method":    true,
	"maddr":     true,
	"ttl":       true,
	"lr":        true,
}

func hasSIPURISpecParam(ps Values) bool {
	for k := range sipURISpecParams {
		if ps.Has(k) {
			return true
		}
	}
	return false
}

func (u *SIP) compareHeaders(hdrs Values) bool {
	// URI header components are never ignored.
	if len(u.Headers) != len(hdrs) {
		return false
	}
	for k := range u.Headers {
		if !hdrs.Has(k) {
			return false
		}
		v1, v2 := strings.Join(u.Headers.Get(k), ", "), strings.Join(hdrs.Get(k), ", ")
		if !util.EqFold(v1, v2) {
			return false
		}
	}
	return true
}

// IsValid checks whether the SIP URI is syntactically valid.
func (u *SIP) IsValid() bool {
	return u != nil && u.Addr.IsValid() && (u.User.IsZero() || u.User.IsValid())
}

// MarshalText implements [encoding.TextMarshaler].
func (u *SIP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *SIP) UnmarshalText(text []byte) error {
	u1, err := ParseSIP(string(text))
	if err != nil {
		*u = SIP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

func (u *SIP) Transport() (TransportProto, bool) {
	tp, ok := u.Params.Last("transport")
	return TransportProto(tp), ok
}

func (u *SIP) UserType() (string, bool) {
	return u.Params.Last("user")
}

func (u *SIP) Method() (RequestMethod, bool) {
	mtd, ok := u.Params.Last("method")
	return RequestMethod(mtd), ok
}

func (u *SIP) MAddr() (string, bool) {
	return u.Params.Last("maddr")
}

func (u *SIP) TTL() (uint8, bool) {
	val, ok := u.Params.Last("ttl")
	if !ok {
		return 0, false
	}
	ttl, err := strconv.ParseUint(val, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(ttl), true
}

func (u *SIP) LR() bool {
	return u.Params.Has("lr")
}

// UserInfo is a container for user credentials.
// It is typically used in [SIP] to store userinfo part.
type UserInfo struct {
	usrname, passwd string
	hasPasswd       bool
}

// User returns a [UserInfo] containing the provided username and no password.
func User(usrname string) UserInfo {
	return UserInfo{usrname: usrname}
}

// UserPassword returns a [UserInfo] containing the provided username and password.
func UserPassword(usrname, passwd string) UserInfo {
	return UserInfo{usrname: usrname, passwd: passwd, hasPasswd: true}
}

// Username returns the username from the UserInfo.
func (ui UserInfo) Username() string { return ui.usrname }

// Password returns the password, in case it is set, and a bool flag indicating whether it is set.
func (ui UserInfo) Password() (string, bool) { return ui.passwd, ui.hasPasswd }

// String returns the escaped representation of the UserInfo.
func (ui UserInfo) String() string {
	if !ui.hasPasswd {
		return grammar.EncodeUser(ui.usrname)
	}
	return grammar.EncodeUser(ui.usrname) + ":" + grammar.EncodePassword(ui.passwd)
}

// Equal compares this UserInfo with another for equality.
func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui == other
}

// IsValid checks whether the UserInfo is syntactically valid.
func (ui UserInfo) IsValid() bool { return ui.usrname != "" }

// IsZero checks whether the UserInfo is empty.
func (ui UserInfo) IsZero() bool { return ui == UserInfo{} }
