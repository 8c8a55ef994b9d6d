package grammar

import (
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
)

// Escape escapes s by replacing each byte matched by shouldEscape with the hex form "% HEXDIG HEXDIG".
// Bytes above 0x7F are always escaped.
// When keepEscaped is true, well-formed "%XX" triplets already present in s are copied as is.
// If nothing needs escaping, s is returned unchanged.
func Escape(s string, shouldEscape func(c rune) bool, keepEscaped bool) string {
	if shouldEscape == nil {
		shouldEscape = func(c rune) bool { return !IsUnreserved(c) }
	}

	i := 0
	for ; i < len(s); i++ {
		if needEscape(s, i, shouldEscape, keepEscaped) {
			break
		}
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*(len(s)-i))
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		if needEscape(s, i, shouldEscape, keepEscaped) {
			b.Write(AppendEscaped(nil, s[i]))
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func needEscape(s string, i int, shouldEscape func(c rune) bool, keepEscaped bool) bool {
	c := s[i]
	if c >= utf8.RuneSelf {
		return true
	}
	if c == '%' && keepEscaped && isEscapedAt(s, i) {
		return false
	}
	return shouldEscape(rune(c))
}

func isEscapedAt(s string, i int) bool {
	return i+2 < len(s) && s[i] == '%' && ishex(s[i+1]) && ishex(s[i+2])
}

// AppendEscaped appends the "% HEXDIG HEXDIG" form of c to dst.
func AppendEscaped(dst []byte, c byte) []byte {
	return append(dst, '%', upperhex[c>>4], upperhex[c&15])
}

// Encode escapes every character outside the unreserved rule.
func Encode(s string) string {
	return Escape(s, func(c rune) bool { return !IsUnreserved(c) }, false)
}

// EncodeUser escapes s for the userinfo user part of a SIP URI.
func EncodeUser(s string) string {
	return Escape(s, func(c rune) bool { return !IsUserUnreserved(c) }, false)
}

// EncodePassword escapes s for the userinfo password part of a SIP URI.
func EncodePassword(s string) string {
	return Escape(s, func(c rune) bool { return !IsPasswordUnreserved(c) }, false)
}

// EncodeParam escapes a SIP URI parameter name or value.
func EncodeParam(s string) string {
	return Escape(s, func(c rune) bool { return !IsParamUnreserved(c) }, false)
}

// EncodeParamPreEscaped is like [EncodeParam] but leaves "%XX" triplets found in s untouched.
func EncodeParamPreEscaped(s string) string {
	return Escape(s, func(c rune) bool { return !IsParamUnreserved(c) }, true)
}

// EncodeHeader escapes a SIP URI header name or value.
func EncodeHeader(s string) string {
	return Escape(s, func(c rune) bool { return !IsHeaderUnreserved(c) }, false)
}

// EncodeTel escapes a tel URI component.
// The '#' character is escaped only when escapeHash is true.
func EncodeTel(s string, escapeHash bool) string {
	return Escape(s, func(c rune) bool {
		if c == '#' {
			return escapeHash
		}
		return !telChars.has(c)
	}, false)
}

// Decode replaces every "% HEXDIG HEXDIG" triplet in s with the byte it encodes.
// If s contains no '%', it is returned unchanged.
// A '%' not followed by two hex digits yields a grammar error.
func Decode(s string) (string, error) {
	i := strings.IndexByte(s, '%')
	if i < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if !isEscapedAt(s, i) {
			return s, errtrace.Wrap(errorutil.NewGrammarError(i, "malformed escape sequence in %q", s))
		}
		b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
		i += 2
	}
	return b.String(), nil
}

// HasEscaped reports whether s contains at least one well-formed "%XX" triplet.
func HasEscaped(s string) bool {
	for i := strings.IndexByte(s, '%'); i >= 0 && i < len(s); i++ {
		if isEscapedAt(s, i) {
			return true
		}
	}
	return false
}

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
