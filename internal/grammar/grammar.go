// Package grammar implements the character classes, escaping rules and small
// lexical checks of RFC 3261, RFC 2396 and RFC 3966.
package grammar

//go:generate go tool errtrace -w .

import (
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// IsToken reports whether s is a non-empty RFC 3261 token.
func IsToken[T ~string | ~[]rune](s T) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range []rune(string(s)) {
		if !IsTokenChar(c) {
			return false
		}
	}
	return true
}

// IsWord reports whether s is a non-empty RFC 3261 word.
func IsWord(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsWordChar(rune(s[i])) {
			return false
		}
	}
	return true
}

// IsScheme reports whether s matches the URI scheme rule.
func IsScheme(s string) bool {
	if len(s) == 0 || !IsAlpha(rune(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsSchemeChar(rune(s[i])) {
			return false
		}
	}
	return true
}

// IsHost reports whether s is a hostname, an IPv4 address or an IPv6 reference in brackets.
func IsHost(s string) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == '[' {
		if len(s) < 3 || s[len(s)-1] != ']' {
			return false
		}
		addr, err := netip.ParseAddr(s[1 : len(s)-1])
		return err == nil && addr.Is6()
	}
	for i := 0; i < len(s); i++ {
		if !IsHostChar(rune(s[i])) {
			return false
		}
	}
	if s[0] == '-' || s[0] == '.' {
		return false
	}
	_, ok := dns.IsDomainName(s)
	return ok
}

// IsQuoted reports whether s is a complete quoted-string including the surrounding quotes.
func IsQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
			if i == len(s)-1 {
				return false
			}
		case '"':
			return false
		}
	}
	return true
}

// Quote wraps s into double quotes escaping '"' and '\' with quoted-pairs.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote strips the surrounding quotes of s and resolves quoted-pairs.
// If s is not a valid quoted-string, it is returned unchanged.
func Unquote(s string) string {
	if !IsQuoted(s) {
		return s
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// IsTelNum reports whether s is a global ("+" 1*phonedigit) or local (1*phonedigit-hex) telephone number.
func IsTelNum(s string) bool {
	if len(s) == 0 {
		return false
	}
	digits := 0
	if s[0] == '+' {
		for i := 1; i < len(s); i++ {
			if !IsPhoneDigit(rune(s[i])) {
				return false
			}
			if IsDigit(rune(s[i])) {
				digits++
			}
		}
		return digits > 0
	}
	for i := 0; i < len(s); i++ {
		if !IsHexPhoneDigit(rune(s[i])) {
			return false
		}
		if IsHex(rune(s[i])) || s[i] == '*' || s[i] == '#' {
			digits++
		}
	}
	return digits > 0
}

// IsGlobTelNum reports whether s is a global telephone number.
func IsGlobTelNum(s string) bool { return IsTelNum(s) && s[0] == '+' }

var telVisSepRpl = strings.NewReplacer("-", "", ".", "", "(", "", ")", "")

// CleanTelNum removes all visual separators.
func CleanTelNum(s string) string { return telVisSepRpl.Replace(s) }
