package uri

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Parser parses URIs, name-addresses and parameter lists at a lexer cursor.
// The zero value parses components without decoding escaped octets.
type Parser struct {
	// Unescape enables decoding of escaped octets in user, password, host, parameters and headers.
	// Network parsers always set it.
	Unescape bool
	// DetectPreEscaped keeps escaped octets found in parameter values as is,
	// such values are neither decoded on parsing nor escaped again on rendering.
	DetectPreEscaped bool
}

// DefaultParser is used by [Parse] and the text unmarshalers.
var DefaultParser = &Parser{Unescape: true}

func (p *Parser) unescape() bool { return p != nil && p.Unescape }

func (p *Parser) preEscaped() bool { return p != nil && p.DetectPreEscaped }

func (p *Parser) decode(s string) (string, error) {
	if !p.unescape() {
		return s, nil
	}
	return errtrace.Wrap2(grammar.Decode(s))
}

// ParseURI parses an absolute URI at the lexer cursor.
// The URI ends at the first character that cannot belong to it, such as SP or '>'.
//
// Parsing of:
//   - sip/sips returns [SIP];
//   - tel returns [Tel];
//   - any other scheme returns [Any] with opaque scheme data.
func (p *Parser) ParseURI(l *lex.Lexer) (URI, error) {
	return errtrace.Wrap2(p.parseURI(l, false))
}

// parseURI parses URI. A bare URI is one used in a header value without angle brackets,
// so its parameters and headers belong to the header and scanning stops at ';' and '?'.
func (p *Parser) parseURI(l *lex.Lexer, bare bool) (URI, error) {
	mark := l.Mark()
	scheme := l.Scan(grammar.IsSchemeChar)
	if !grammar.IsScheme(scheme) {
		l.Rewind(mark)
		return nil, errtrace.Wrap(errorutil.NewGrammarError(mark, "invalid URI scheme %q", scheme))
	}
	if err := l.Match(':'); err != nil {
		l.Rewind(mark)
		return nil, errtrace.Wrap(err)
	}

	var (
		u   URI
		err error
	)
	switch util.LCase(scheme) {
	case "sip":
		u, err = p.parseSIP(l, false, bare)
	case "sips":
		u, err = p.parseSIP(l, true, bare)
	case "tel":
		u, err = p.parseTel(l, bare)
	default:
		u, err = p.parseAny(l, scheme, bare)
	}
	if err != nil {
		l.Rewind(mark)
		return nil, errtrace.Wrap(err)
	}
	return u, nil
}

func (p *Parser) parseSIP(l *lex.Lexer, secured, bare bool) (*SIP, error) {
	u := &SIP{Secured: secured}

	ui, err := p.parseUserInfo(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	u.User = ui

	if u.Addr, err = types.ReadAddr(l, p.unescape()); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if bare {
		return u, nil
	}

	if l.LA(1) == ';' {
		if u.Params, u.PreEscaped, err = p.parseParams(l, ';', true, true); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	if l.LA(1) == '?' {
		if u.Headers, err = p.parseURIHeaders(l); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return u, nil
}

func isUserInfoChar(c rune) bool {
	return grammar.IsUserUnreserved(c) || grammar.IsPasswordUnreserved(c) || c == '%' || c == ':'
}

// parseUserInfo looks ahead for "user[:password]@" and consumes it if found.
func (p *Parser) parseUserInfo(l *lex.Lexer) (UserInfo, error) {
	mark := l.Mark()
	for isUserInfoChar(l.LA(1)) {
		l.Consume(1)
	}
	if l.LA(1) != '@' {
		l.Rewind(mark)
		return UserInfo{}, nil
	}

	raw := l.Slice(mark, l.Pos())
	l.Consume(1)

	colon := -1
	for i, c := range raw {
		if c == ':' {
			colon = i
			break
		}
	}
	usrRaw := raw
	if colon >= 0 {
		usrRaw = raw[:colon]
	}
	usr := lex.Intern(usrRaw)
	if usr == "" {
		return UserInfo{}, errtrace.Wrap(errorutil.NewGrammarError(mark, "empty user"))
	}
	usr, err := p.decode(usr)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	if colon < 0 {
		return User(usr), nil
	}

	passwd, err := p.decode(string(raw[colon+1:]))
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	return UserPassword(usr, passwd), nil
}

func isHeaderChar(c rune) bool { return grammar.IsHeaderUnreserved(c) || c == '%' }

// parseURIHeaders parses "?" hname "=" hvalue *( "&" hname "=" hvalue ).
func (p *Parser) parseURIHeaders(l *lex.Lexer) (Values, error) {
	hdrs := make(Values)
	for sep := '?'; l.LA(1) == sep; sep = '&' {
		l.Consume(1)
		name := l.Scan(isHeaderChar)
		if name == "" {
			return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "empty URI header name"))
		}
		if err := l.Match('='); err != nil {
			return nil, errtrace.Wrap(err)
		}
		value := l.Scan(isHeaderChar)

		var err error
		if name, err = p.decode(name); err != nil {
			return nil, errtrace.Wrap(err)
		}
		if value, err = p.decode(value); err != nil {
			return nil, errtrace.Wrap(err)
		}
		hdrs.Append(name, value)
	}
	return hdrs, nil
}

func (p *Parser) parseTel(l *lex.Lexer, bare bool) (*Tel, error) {
	start := l.Pos()
	var num string
	if l.LA(1) == '+' {
		l.Consume(1)
		num = "+" + l.Scan(grammar.IsPhoneDigit)
	} else {
		num = l.Scan(grammar.IsHexPhoneDigit)
	}
	if !grammar.IsTelNum(num) {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(start, "invalid telephone number %q", num))
	}

	u := &Tel{Number: num}
	if bare || l.LA(1) != ';' {
		return u, nil
	}

	u.Params = make(Values)
	for l.LA(1) == ';' {
		l.Consume(1)
		pos := l.Pos()
		name := l.Token()
		if name == "" {
			return nil, errtrace.Wrap(errorutil.NewGrammarError(pos, "empty parameter name"))
		}
		if u.Params.Has(name) {
			return nil, errtrace.Wrap(errorutil.NewGrammarError(pos, "duplicate parameter %q", name))
		}
		var value string
		if l.LA(1) == '=' {
			l.Consume(1)
			value = l.URIParam()
			if value == "" {
				return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "empty value of parameter %q", name))
			}
			var err error
			if value, err = p.decode(value); err != nil {
				return nil, errtrace.Wrap(err)
			}
		}
		u.Params.Append(name, value)
	}
	return u, nil
}

func (p *Parser) parseAny(l *lex.Lexer, scheme string, bare bool) (*Any, error) {
	opaque := l.Scan(func(c rune) bool {
		switch c {
		case '>', ' ', '\t', '\r', '\n':
			return false
		case ';', '?', ',':
			return !bare
		}
		return !grammar.IsControl(c)
	})
	if opaque == "" {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "empty %s URI", scheme))
	}
	return &Any{Scheme: util.LCase(scheme), Opaque: opaque}, nil
}

// ParseParams parses a list of `sep key ["=" value]` parameters at the lexer cursor,
// the cursor must be on the first separator.
//
// URI parameters (isURI) consist of paramchar runs, other parameters of tokens,
// where a value may also be a quoted-string which is kept with its quotes.
// When escaped is true, escaped octets are decoded according to the parser options.
// Linear whitespace around separators is skipped for header parameters only.
func (p *Parser) ParseParams(l *lex.Lexer, sep rune, escaped, isURI bool) (Values, error) {
	params, _, err := p.parseParams(l, sep, escaped, isURI)
	return params, errtrace.Wrap(err)
}

// parseParams is [Parser.ParseParams] that also reports whether a value was kept escaped.
func (p *Parser) parseParams(l *lex.Lexer, sep rune, escaped, isURI bool) (params Values, preEscaped bool, err error) {
	params = make(Values)
	scan := l.Param
	if isURI {
		scan = l.URIParam
	}
	skipLWS := func() {
		if !isURI {
			l.LWS()
		}
	}

	for {
		mark := l.Mark()
		skipLWS()
		if l.LA(1) != sep {
			l.Rewind(mark)
			break
		}
		l.Consume(1)
		skipLWS()

		pos := l.Pos()
		name := scan()
		if name == "" {
			return nil, false, errtrace.Wrap(errorutil.NewGrammarError(pos, "empty parameter name"))
		}

		var value string
		mark = l.Mark()
		skipLWS()
		if l.LA(1) == '=' {
			l.Consume(1)
			skipLWS()
			if !isURI && l.LA(1) == '"' {
				v, err := l.RawQuotedString()
				if err != nil {
					return nil, false, errtrace.Wrap(err)
				}
				value = v
			} else {
				value = scan()
				if value == "" {
					return nil, false, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "empty value of parameter %q", name))
				}
			}
		} else {
			l.Rewind(mark)
		}

		if escaped {
			if name, err = p.decode(name); err != nil {
				return nil, false, errtrace.Wrap(err)
			}
			if p.preEscaped() && grammar.HasEscaped(value) {
				preEscaped = true
			} else if value, err = p.decode(value); err != nil {
				return nil, false, errtrace.Wrap(err)
			}
		}
		params.Append(name, value)
	}
	return params, preEscaped, nil
}

// ParseNameAddr parses a name-addr or addr-spec at the lexer cursor:
//
//	"display name" <uri>
//	display name <uri>
//	<uri>
//	uri
//
// It looks ahead without consuming to decide which form is present
// and fails if no address can be found.
// A URI without angle brackets does not take parameters, they belong to the header.
func (p *Parser) ParseNameAddr(l *lex.Lexer) (NameAddr, error) {
	mark := l.Mark()
	l.LWS()

	var addr NameAddr
	switch c := l.LA(1); {
	case c == '"':
		name, err := l.QuotedString()
		if err != nil {
			l.Rewind(mark)
			return NameAddr{}, errtrace.Wrap(err)
		}
		addr.DisplayName = name
		l.LWS()
	case c == '<':
	default:
		switch p.lookupAddrStart(l) {
		case '<':
			addr.DisplayName = l.NextToken('<')
		case ':':
			u, err := p.parseURI(l, true)
			if err != nil {
				l.Rewind(mark)
				return NameAddr{}, errtrace.Wrap(err)
			}
			addr.URI = u
			return addr, nil
		default:
			l.Rewind(mark)
			return NameAddr{}, errtrace.Wrap(errorutil.NewGrammarError(mark, "no address found"))
		}
	}

	if err := l.Match('<'); err != nil {
		l.Rewind(mark)
		return NameAddr{}, errtrace.Wrap(err)
	}
	u, err := p.parseURI(l, false)
	if err != nil {
		l.Rewind(mark)
		return NameAddr{}, errtrace.Wrap(err)
	}
	if err := l.Match('>'); err != nil {
		l.Rewind(mark)
		return NameAddr{}, errtrace.Wrap(err)
	}
	addr.URI = u
	return addr, nil
}

// lookupAddrStart scans ahead from the cursor and returns '<' if a bracketed address follows
// an unquoted display name, ':' if a bare URI starts at the cursor, or 0 otherwise.
// The cursor is not moved.
func (p *Parser) lookupAddrStart(l *lex.Lexer) rune {
	scheme := true
	for k := 1; ; k++ {
		switch c := l.LA(k); {
		case c == '<':
			return '<'
		case c == ':':
			if scheme && k > 1 {
				return ':'
			}
			return 0
		case c == lex.EOF, c == ',', c == ';', c == '"', c == '\r', c == '\n':
			return 0
		case c > 0x7F:
			scheme = false
		case grammar.IsTokenChar(c) || grammar.IsWSP(c):
			if !grammar.IsSchemeChar(c) || k == 1 && !grammar.IsAlpha(c) {
				scheme = false
			}
		default:
			return 0
		}
	}
}
