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
	"github.com/ghettovoice/sipwire/uri"
)

// AuthenticationInfo represents the Authentication-Info header field.
// The Authentication-Info header field provides for mutual authentication with HTTP Digest.
type AuthenticationInfo struct {
	NextNonce,
	QOP,
	RspAuth,
	CNonce string
	NonceCount uint
}

// CanonicName returns the canonical name of the header.
func (*AuthenticationInfo) CanonicName() Name { return "Authentication-Info" }

// CompactName returns the compact name of the header.
func (*AuthenticationInfo) CompactName() Name { return "Authentication-Info" }

// RenderTo writes the header to the provided writer.
func (hdr *AuthenticationInfo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *AuthenticationInfo) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *AuthenticationInfo) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *AuthenticationInfo) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *AuthenticationInfo) Format(f fmt.State, verb rune) {
	type hideMethods AuthenticationInfo
	type AuthenticationInfo hideMethods
	formatHdr(f, verb, hdr, (*AuthenticationInfo)(hdr))
}

func (hdr *AuthenticationInfo) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}

	var kvs [][]string
	for k, v := range map[string]string{
		"nextnonce": hdr.NextNonce,
		"qop":       hdr.QOP,
		"rspauth":   hdr.RspAuth,
		"cnonce":    hdr.CNonce,
	} {
		if v == "" {
			continue
		}
		switch k {
		case "nextnonce", "rspauth", "cnonce":
			v = grammar.Quote(v)
		}
		kvs = append(kvs, []string{k, v})
	}
	if hdr.NonceCount > 0 {
		kvs = append(kvs, []string{"nc", fmt.Sprintf("%08x", hdr.NonceCount)})
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	slices.SortFunc(kvs, util.CmpKVs)
	for i, kv := range kvs {
		if i > 0 {
			cw.Fprint(", ")
		}
		cw.Fprint(kv[0], "=", kv[1])
	}
	return errtrace.Wrap2(cw.Result())
}

// Clone returns a copy of the header.
func (hdr *AuthenticationInfo) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	return &hdr2
}

// Equal compares this header with another for equality.
func (hdr *AuthenticationInfo) Equal(val any) bool {
	var other *AuthenticationInfo
	switch v := val.(type) {
	case AuthenticationInfo:
		other = &v
	case *AuthenticationInfo:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.NextNonce == other.NextNonce &&
		util.EqFold(hdr.QOP, other.QOP) &&
		hdr.RspAuth == other.RspAuth &&
		hdr.CNonce == other.CNonce &&
		hdr.NonceCount == other.NonceCount
}

// IsValid checks whether the header is syntactically valid.
func (hdr *AuthenticationInfo) IsValid() bool {
	return hdr != nil && (hdr.QOP == "" || grammar.IsToken(hdr.QOP)) && *hdr != AuthenticationInfo{}
}

// parseAuthenticationInfo parses `ainfo *(COMMA ainfo)`, unknown parameters are ignored.
func parseAuthenticationInfo(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	var hdr AuthenticationInfo
	_, err := parseList(l, false, func() (struct{}, error) {
		pos := l.Pos()
		name, err := expectToken(l, "parameter name")
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
			value, err = l.QuotedString()
		} else {
			value, err = expectToken(l, "parameter value")
		}
		if err != nil {
			return struct{}{}, errtrace.Wrap(err)
		}

		switch util.LCase(name) {
		case "nextnonce":
			hdr.NextNonce = value
		case "qop":
			hdr.QOP = value
		case "rspauth":
			hdr.RspAuth = value
		case "cnonce":
			hdr.CNonce = value
		case "nc":
			nc, err := strconv.ParseUint(value, 16, 32)
			if err != nil {
				return struct{}{}, errtrace.Wrap(errorutil.NewGrammarError(pos, "invalid nonce count %q", value))
			}
			hdr.NonceCount = uint(nc)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &hdr, nil
}
