// Package lex implements a rune cursor used by the SIP message, header and URI parsers.
package lex

//go:generate go tool errtrace -w .

import (
	"math"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
)

// EOF is returned by [Lexer.LA] past the end of input.
const EOF rune = -1

// Lexer is a cursor over a rune slice.
// The zero value is an empty lexer, use [Lexer.Reset] to attach input.
type Lexer struct {
	buf []rune
	pos int
}

// New returns a lexer positioned at the start of buf.
func New(buf []rune) *Lexer { return &Lexer{buf: buf} }

// Reset attaches new input and moves the cursor to the start.
func (l *Lexer) Reset(buf []rune) {
	l.buf = buf
	l.pos = 0
}

// Pos returns the cursor offset.
func (l *Lexer) Pos() int { return l.pos }

// Len returns the input length.
func (l *Lexer) Len() int { return len(l.buf) }

// Done reports whether the cursor reached the end of input.
func (l *Lexer) Done() bool { return l.pos >= len(l.buf) }

// Mark returns the current position to be restored later with [Lexer.Rewind].
func (l *Lexer) Mark() int { return l.pos }

// Rewind moves the cursor back to a position obtained with [Lexer.Mark].
func (l *Lexer) Rewind(mark int) {
	if mark < 0 || mark > len(l.buf) {
		panic(errorutil.NewInvalidArgumentError("mark %d out of range [0, %d]", mark, len(l.buf)))
	}
	l.pos = mark
}

// LA returns the k-th lookahead rune, LA(1) is the rune under the cursor.
// It returns [EOF] past the end of input.
func (l *Lexer) LA(k int) rune {
	if i := l.pos + k - 1; i >= 0 && i < len(l.buf) {
		return l.buf[i]
	}
	return EOF
}

// Consume advances the cursor by k runes, not beyond the end of input.
func (l *Lexer) Consume(k int) {
	l.pos = min(l.pos+k, len(l.buf))
}

// Rest returns the unread part of input.
func (l *Lexer) Rest() []rune { return l.buf[l.pos:] }

// Slice returns the runes between two positions.
func (l *Lexer) Slice(from, to int) []rune { return l.buf[from:to] }

func (l *Lexer) errorf(format string, args ...any) error {
	return errorutil.NewGrammarError(l.pos, format, args...) //errtrace:skip
}

func quoteRune(r rune) string {
	if r == EOF {
		return "EOF"
	}
	return "'" + string(r) + "'"
}

// Match consumes r or returns a grammar error.
func (l *Lexer) Match(r rune) error {
	if c := l.LA(1); c != r {
		return errtrace.Wrap(l.errorf("expected %s, got %s", quoteRune(r), quoteRune(c)))
	}
	l.pos++
	return nil
}

// MatchString consumes s or returns a grammar error leaving the cursor untouched.
func (l *Lexer) MatchString(s string) error {
	return errtrace.Wrap(l.matchString(s, false))
}

// MatchStringFold is like [Lexer.MatchString] but compares ASCII letters case-insensitively.
func (l *Lexer) MatchStringFold(s string) error {
	return errtrace.Wrap(l.matchString(s, true))
}

func (l *Lexer) matchString(s string, fold bool) error {
	mark := l.pos
	for _, r := range s {
		c := l.LA(1)
		if c != r && (!fold || c == EOF || lower(c) != lower(r)) {
			l.pos = mark
			return errtrace.Wrap(errorutil.NewGrammarError(mark, "expected %q", s))
		}
		l.pos++
	}
	return nil
}

func lower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// Number consumes one or more digits and returns their int32-ranged value.
func (l *Lexer) Number() (int, error) {
	v, err := l.digits(math.MaxInt32)
	return int(v), errtrace.Wrap(err)
}

// LongNumber consumes one or more digits and returns their int64 value.
func (l *Lexer) LongNumber() (int64, error) {
	v, err := l.digits(math.MaxInt64)
	return int64(v), errtrace.Wrap(err)
}

// ShortNumber consumes one or more digits and returns their uint16 value.
func (l *Lexer) ShortNumber() (uint16, error) {
	v, err := l.digits(math.MaxUint16)
	return uint16(v), errtrace.Wrap(err)
}

func (l *Lexer) digits(limit uint64) (uint64, error) {
	if !grammar.IsDigit(l.LA(1)) {
		return 0, errtrace.Wrap(l.errorf("expected digit, got %s", quoteRune(l.LA(1))))
	}
	mark := l.pos
	var n uint64
	for c := l.LA(1); grammar.IsDigit(c); c = l.LA(1) {
		d := uint64(c - '0')
		if n > (limit-d)/10 {
			l.pos = mark
			return 0, errtrace.Wrap(l.errorf("number overflows %d", limit))
		}
		n = n*10 + d
		l.pos++
	}
	return n, nil
}

func isNewline(c rune) bool { return c == '\r' || c == '\n' }

// SkipWSP consumes SP and HTAB runes and reports whether anything was consumed.
func (l *Lexer) SkipWSP() bool {
	mark := l.pos
	for grammar.IsWSP(l.LA(1)) {
		l.pos++
	}
	return l.pos > mark
}

// LWS consumes linear whitespace: *WSP [CRLF 1*WSP], repeated while lines keep folding.
// The line terminator may also be a lone CR or a lone LF.
// A terminator not followed by whitespace is left unconsumed.
// LWS reports whether anything was consumed.
func (l *Lexer) LWS() bool {
	i, end := l.pos, l.pos
	for {
		for i < len(l.buf) && grammar.IsWSP(l.buf[i]) {
			i++
		}
		end = i
		if i >= len(l.buf) || !isNewline(l.buf[i]) {
			break
		}
		if l.buf[i] == '\r' && i+1 < len(l.buf) && l.buf[i+1] == '\n' {
			i += 2
		} else {
			i++
		}
		if i >= len(l.buf) || !grammar.IsWSP(l.buf[i]) {
			break
		}
	}
	consumed := end > l.pos
	l.pos = end
	return consumed
}

// Scan consumes the longest run of runes accepted by fn and returns it interned.
func (l *Lexer) Scan(fn func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.buf) && fn(l.buf[l.pos]) {
		l.pos++
	}
	return Intern(l.buf[start:l.pos])
}

// Token scans a token.
func (l *Lexer) Token() string { return l.Scan(grammar.IsTokenChar) }

// Word scans a word (Call-ID grammar).
func (l *Lexer) Word() string { return l.Scan(grammar.IsWordChar) }

// Param scans a header parameter name or unquoted value.
// It is a token extended with the characters allowed in IPv6 references.
func (l *Lexer) Param() string { return l.Scan(isParamChar) }

func isParamChar(c rune) bool { return grammar.IsTokenChar(c) || c == '[' || c == ']' || c == ':' }

// URIParam scans a SIP URI parameter name or value: paramchar = param-unreserved / unreserved / escaped.
func (l *Lexer) URIParam() string { return l.Scan(isURIParamChar) }

func isURIParamChar(c rune) bool { return grammar.IsParamUnreserved(c) || c == '%' }

// NextToken returns the text from the cursor up to, not including, the first delimiter,
// with trailing SP and HTAB trimmed. If no delimiter is found, the rest of input is taken.
// The delimiter itself is not consumed.
func (l *Lexer) NextToken(delims ...rune) string {
	start := l.pos
	for l.pos < len(l.buf) && !isDelim(l.buf[l.pos], delims) {
		l.pos++
	}
	end := l.pos
	for end > start && grammar.IsWSP(l.buf[end-1]) {
		end--
	}
	return Intern(l.buf[start:end])
}

func isDelim(c rune, delims []rune) bool {
	for _, d := range delims {
		if c == d {
			return true
		}
	}
	return false
}

// QuotedString consumes a quoted-string and returns its content with quoted-pairs resolved.
// A new string is built only when at least one quoted-pair was found.
func (l *Lexer) QuotedString() (string, error) {
	start, end, escaped, err := l.scanQuoted()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	body := l.buf[start+1 : end-1]
	if !escaped {
		return string(body), nil
	}
	out := make([]rune, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
		}
		out = append(out, body[i])
	}
	return string(out), nil
}

// RawQuotedString consumes a quoted-string and returns it verbatim including the quotes.
func (l *Lexer) RawQuotedString() (string, error) {
	start, end, _, err := l.scanQuoted()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return string(l.buf[start:end]), nil
}

func (l *Lexer) scanQuoted() (start, end int, escaped bool, err error) {
	if err = l.Match('"'); err != nil {
		return 0, 0, false, errtrace.Wrap(err)
	}
	start = l.pos - 1
	for i := l.pos; i < len(l.buf); i++ {
		switch c := l.buf[i]; c {
		case '"':
			l.pos = i + 1
			return start, l.pos, escaped, nil
		case '\\':
			if i+1 >= len(l.buf) || !isQuotedPairChar(l.buf[i+1]) {
				l.pos = start
				return 0, 0, false, errtrace.Wrap(errorutil.NewGrammarError(i, "invalid quoted pair"))
			}
			escaped = true
			i++
		}
	}
	l.pos = start
	return 0, 0, false, errtrace.Wrap(errorutil.NewGrammarError(start, "unterminated quoted string"))
}

// quoted-pair = "\" (%x00-09 / %x0B-0C / %x0E-7F)
func isQuotedPairChar(c rune) bool {
	return 0 <= c && c <= 0x7F && c != '\r' && c != '\n'
}
