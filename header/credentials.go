package header

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Credentials holds the value of the Authorization and Proxy-Authorization headers:
// an auth scheme followed either by a single token (token68 form) or by comma-separated auth parameters.
// Quoted parameter values are kept with their quotes.
type Credentials struct {
	Scheme string
	Token  string
	Params Values
}

// Challenge holds the value of the WWW-Authenticate and Proxy-Authenticate headers.
// It has the same shape as [Credentials].
type Challenge = Credentials

func (crd Credentials) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprint(crd.Scheme)
	if crd.Token != "" {
		cw.Fprint(" ", crd.Token)
		return errtrace.Wrap2(cw.Result())
	}

	kvs := make([][]string, 0, len(crd.Params))
	for k := range crd.Params {
		v, _ := crd.Params.Last(k)
		kvs = append(kvs, []string{util.LCase(k), v})
	}
	slices.SortFunc(kvs, util.CmpKVs)
	for i, kv := range kvs {
		if i == 0 {
			cw.Fprint(" ")
		} else {
			cw.Fprint(", ")
		}
		cw.Fprint(kv[0], "=", kv[1])
	}
	return errtrace.Wrap2(cw.Result())
}

func (crd Credentials) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	crd.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func (crd Credentials) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, crd.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(crd.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, crd.String())
			return
		}

		type hideMethods Credentials
		type Credentials hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Credentials(crd))
		return
	}
}

// Equal compares the credentials.
// Schemes and parameter names are case-insensitive, quoted values are compared as is.
func (crd Credentials) Equal(val any) bool {
	var other Credentials
	switch v := val.(type) {
	case Credentials:
		other = v
	case *Credentials:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	if !util.EqFold(crd.Scheme, other.Scheme) || crd.Token != other.Token || len(crd.Params) != len(other.Params) {
		return false
	}
	for k := range crd.Params {
		if !other.Params.Has(k) {
			return false
		}
	}
	return compareHdrParams(crd.Params, other.Params, nil)
}

func (crd Credentials) IsValid() bool {
	if !grammar.IsToken(crd.Scheme) {
		return false
	}
	if crd.Token != "" {
		return len(crd.Params) == 0 && isToken68(crd.Token)
	}
	return validateHdrParams(crd.Params)
}

func (crd Credentials) IsZero() bool {
	return crd.Scheme == "" && crd.Token == "" && len(crd.Params) == 0
}

func (crd Credentials) Clone() Credentials {
	crd.Params = crd.Params.Clone()
	return crd
}

// Param returns the auth parameter value with quotes removed.
func (crd Credentials) Param(name string) (string, bool) {
	v, ok := crd.Params.Last(name)
	if !ok {
		return "", false
	}
	return grammar.Unquote(v), true
}

// Realm returns the "realm" parameter.
func (crd Credentials) Realm() (string, bool) { return crd.Param("realm") }

// Nonce returns the "nonce" parameter.
func (crd Credentials) Nonce() (string, bool) { return crd.Param("nonce") }

// Username returns the "username" parameter.
func (crd Credentials) Username() (string, bool) { return crd.Param("username") }

// NonceCount returns the hexadecimal "nc" parameter.
func (crd Credentials) NonceCount() (uint, bool) { return parseNonceCount(crd.Params) }

func parseNonceCount(params Values) (uint, bool) {
	v, ok := params.Last("nc")
	if !ok {
		return 0, false
	}
	nc, err := strconv.ParseUint(grammar.Unquote(v), 16, 32)
	if err != nil {
		return 0, false
	}
	return uint(nc), true
}

func isToken68Char(c rune) bool {
	return grammar.IsAlphanum(c) || c == '-' || c == '.' || c == '_' || c == '~' || c == '+' || c == '/'
}

func isToken68(s string) bool {
	l := lex.New([]rune(s))
	if l.Scan(isToken68Char) == "" {
		return false
	}
	l.Scan(func(c rune) bool { return c == '=' })
	return l.Done()
}

// parseCredentials parses `auth-scheme LWS ( token68 / auth-param *( COMMA auth-param ) )`.
// A scheme without anything after it is accepted.
func parseCredentials(l *lex.Lexer) (Credentials, error) {
	var (
		crd Credentials
		err error
	)
	if crd.Scheme, err = expectToken(l, "auth scheme"); err != nil {
		return crd, errtrace.Wrap(err)
	}
	crd.Scheme = lex.InternString(crd.Scheme)

	mark := l.Mark()
	if !l.LWS() || l.Done() {
		l.Rewind(mark)
		return crd, nil
	}

	// token68 is told apart from an auth-param by what follows the leading token.
	start := l.Pos()
	l.Scan(isToken68Char)
	afterTok := l.Pos()
	l.LWS()
	isParam := l.LA(1) == '=' && l.LA(2) != '=' && l.LA(2) != lex.EOF && l.LA(2) != ','
	if !isParam {
		l.Rewind(afterTok)
		l.Scan(func(c rune) bool { return c == '=' })
		if afterTok == start {
			return crd, errtrace.Wrap(errorutil.NewGrammarError(start, "expected auth parameters"))
		}
		crd.Token = string(l.Slice(start, l.Pos()))
		return crd, nil
	}
	l.Rewind(start)

	crd.Params = make(Values)
	_, err = parseList(l, false, func() (struct{}, error) {
		name, err := expectToken(l, "auth parameter name")
		if err != nil {
			return struct{}{}, errtrace.Wrap(err)
		}
		l.LWS()
		if err := l.Match('='); err != nil {
			return struct{}{}, errtrace.Wrap(err)
		}
		l.LWS()
		var value string
		if l.LA(1) == '"' {
			if value, err = l.RawQuotedString(); err != nil {
				return struct{}{}, errtrace.Wrap(err)
			}
		} else if value, err = expectToken(l, "auth parameter value"); err != nil {
			return struct{}{}, errtrace.Wrap(err)
		}
		crd.Params.Append(name, value)
		return struct{}{}, nil
	})
	if err != nil {
		return crd, errtrace.Wrap(err)
	}
	return crd, nil
}
