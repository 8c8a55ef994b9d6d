package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/uri"
)

// Split splits a header value into its top-level comma-separated elements.
// Commas inside quoted strings or angle brackets do not split.
// Elements are trimmed of surrounding linear whitespace, empty ones are dropped
// unless the value has no other element.
func Split(value []rune) [][]rune {
	var (
		parts       [][]rune
		start       int
		angle       int
		quoted, esc bool
	)
	add := func(part []rune) {
		if part = trimLWS(part); len(part) > 0 {
			parts = append(parts, part)
		}
	}
	for i, c := range value {
		switch {
		case esc:
			esc = false
		case c == '\\' && quoted:
			esc = true
		case quoted:
			quoted = c != '"'
		case c == '"':
			quoted = true
		case c == '<':
			angle++
		case c == '>' && angle > 0:
			angle--
		case c == ',' && angle == 0:
			add(value[start:i])
			start = i + 1
		}
	}
	add(value[start:])
	if len(parts) == 0 {
		parts = append(parts, trimLWS(value))
	}
	return parts
}

func isLWSChar(c rune) bool { return grammar.IsWSP(c) || c == '\r' || c == '\n' }

func trimLWS(s []rune) []rune {
	for len(s) > 0 && isLWSChar(s[0]) {
		s = s[1:]
	}
	for len(s) > 0 && isLWSChar(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

// Unfold returns the value as a string with every line fold replaced by a single space
// and surrounding whitespace removed.
func Unfold(value []rune) string {
	value = trimLWS(value)
	i := 0
	for ; i < len(value); i++ {
		if value[i] == '\r' || value[i] == '\n' {
			break
		}
	}
	if i == len(value) {
		return string(value)
	}

	var sb strings.Builder
	sb.Grow(len(value))
	sb.WriteString(string(value[:i]))
	for ; i < len(value); i++ {
		c := value[i]
		if c != '\r' && c != '\n' {
			sb.WriteRune(c)
			continue
		}
		for i+1 < len(value) && isLWSChar(value[i+1]) {
			i++
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}

// parseList parses `elem *(COMMA elem)` where COMMA is SWS "," SWS.
// An empty list is accepted only when allowEmpty is set.
func parseList[E any](l *lex.Lexer, allowEmpty bool, parseElem func() (E, error)) ([]E, error) {
	list := make([]E, 0, 1)
	if allowEmpty && (l.Done() || l.LA(1) == '\r' || l.LA(1) == '\n') {
		return list, nil
	}
	for {
		l.LWS()
		e, err := parseElem()
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		list = append(list, e)

		mark := l.Mark()
		l.LWS()
		if l.LA(1) != ',' {
			l.Rewind(mark)
			return list, nil
		}
		l.Consume(1)
	}
}

// parseHdrParams parses the `*( SEMI generic-param )` tail of a header value.
// Nil is returned if there are no parameters.
func parseHdrParams(l *lex.Lexer, p *uri.Parser) (Values, error) {
	params, err := p.ParseParams(l, ';', false, false)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

// parseTokenList parses a comma-separated token list.
func parseTokenList(l *lex.Lexer, allowEmpty bool) ([]string, error) {
	return errtrace.Wrap2(parseList(l, allowEmpty, func() (string, error) {
		return errtrace.Wrap2(expectToken(l, "token"))
	}))
}

func expectToken(l *lex.Lexer, what string) (string, error) {
	pos := l.Pos()
	tok := l.Token()
	if tok == "" {
		return "", errtrace.Wrap(errorutil.NewGrammarError(pos, "expected %s", what))
	}
	return tok, nil
}

// restText consumes the rest of the value as unfolded text.
func restText(l *lex.Lexer) string {
	rest := l.Rest()
	l.Consume(len(rest))
	return Unfold(rest)
}

func parseDelta(l *lex.Lexer) (uint64, error) {
	n, err := l.LongNumber()
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	return uint64(n), nil
}

// parseParam parses a single `SEMI generic-param` at the cursor.
// It returns ok == false and leaves the cursor in place if no ';' follows.
func parseParam(l *lex.Lexer) (name, value string, ok bool, err error) {
	mark := l.Mark()
	l.LWS()
	if l.LA(1) != ';' {
		l.Rewind(mark)
		return "", "", false, nil
	}
	l.Consume(1)
	l.LWS()
	if name, err = expectToken(l, "parameter name"); err != nil {
		return "", "", false, errtrace.Wrap(err)
	}

	mark = l.Mark()
	l.LWS()
	if l.LA(1) != '=' {
		l.Rewind(mark)
		return name, "", true, nil
	}
	l.Consume(1)
	l.LWS()
	if l.LA(1) == '"' {
		value, err = l.RawQuotedString()
	} else {
		value = l.Param()
		if value == "" {
			err = errorutil.NewGrammarError(l.Pos(), "empty value of parameter %q", name)
		}
	}
	if err != nil {
		return "", "", false, errtrace.Wrap(err)
	}
	return name, value, true, nil
}

// parseMethod parses a method token, standard methods resolve to the shared constants.
func parseMethod(l *lex.Lexer) (RequestMethod, error) {
	tok, err := expectToken(l, "method")
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if mtd, ok := types.LookupRequestMethod([]byte(tok)); ok {
		return mtd, nil
	}
	return RequestMethod(tok), nil
}

// parseComment parses a parenthesized comment with nested comments and quoted pairs,
// the returned text excludes the outer parentheses.
func parseComment(l *lex.Lexer) (string, error) {
	pos := l.Pos()
	if err := l.Match('('); err != nil {
		return "", errtrace.Wrap(err)
	}
	start := l.Pos()
	for depth := 1; ; {
		switch c := l.LA(1); c {
		case lex.EOF:
			return "", errtrace.Wrap(errorutil.NewGrammarError(pos, "unterminated comment"))
		case '\\':
			l.Consume(2)
		case '(':
			depth++
			l.Consume(1)
		case ')':
			if depth--; depth == 0 {
				text := Unfold(l.Slice(start, l.Pos()))
				l.Consume(1)
				return text, nil
			}
			l.Consume(1)
		default:
			l.Consume(1)
		}
	}
}
