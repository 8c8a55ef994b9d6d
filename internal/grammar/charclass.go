package grammar

// Character classes of RFC 3261 Section 25.1 and RFC 2396 Section 2.4.3.
// Every class is a 128-entry table; any byte or rune above 0x7F is outside all of them.

type charClass [128]bool

func (cc *charClass) has(c rune) bool { return c >= 0 && c < 128 && cc[c] }

func newClass(parts ...string) *charClass {
	var cc charClass
	for _, p := range parts {
		for i := 0; i < len(p); i++ {
			cc[p[i]] = true
		}
	}
	return &cc
}

const (
	alpha    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digit    = "0123456789"
	alphanum = alpha + digit
	hexdig   = digit + "abcdefABCDEF"
)

var (
	reservedChars   = newClass(";/?:@&=+$,")
	markChars       = newClass("-_.!~*'()")
	unreservedChars = newClass(alphanum, "-_.!~*'()")
	userUnreserved  = newClass(alphanum, "-_.!~*'()", "&=+$,;?/")
	passwdChars     = newClass(alphanum, "-_.!~*'()", "&=+$,")
	paramUnreserved = newClass(alphanum, "-_.!~*'()", "[]/:&+$")
	hnvUnreserved   = newClass(alphanum, "-_.!~*'()", "[]/?:+$")
	telChars        = newClass(alphanum, "-_.!~*'()", ";/?:@&=+$,")
	tokenChars      = newClass(alphanum, "-.!%*_+`'~")
	wordChars       = newClass(alphanum, "-.!%*_+`'~()<>:\\\"/[]?{}")
	hexChars        = newClass(hexdig)
	delimChars      = newClass("<>#%\"")
	unwiseChars     = newClass("{}|\\^[]`")
	schemeChars     = newClass(alphanum, "+-.")
	hostChars       = newClass(alphanum, "-.")
	phoneDigits     = newClass(digit, "-.()")
	hexPhoneDigits  = newClass(hexdig, "-.()*#")
)

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c rune) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c rune) bool { return '0' <= c && c <= '9' }

// IsAlphanum reports whether c matches the alphanum rule.
func IsAlphanum(c rune) bool { return IsAlpha(c) || IsDigit(c) }

// IsHex reports whether c matches the HEXDIG rule (case-insensitive).
func IsHex(c rune) bool { return hexChars.has(c) }

func IsReserved(c rune) bool { return reservedChars.has(c) }

func IsMark(c rune) bool { return markChars.has(c) }

func IsUnreserved(c rune) bool { return unreservedChars.has(c) }

func IsUserUnreserved(c rune) bool { return userUnreserved.has(c) }

func IsPasswordUnreserved(c rune) bool { return passwdChars.has(c) }

func IsParamUnreserved(c rune) bool { return paramUnreserved.has(c) }

func IsHeaderUnreserved(c rune) bool { return hnvUnreserved.has(c) }

// IsTokenChar reports whether c may appear in the token rule.
func IsTokenChar(c rune) bool { return tokenChars.has(c) }

// IsWordChar reports whether c may appear in the word rule (Call-ID).
func IsWordChar(c rune) bool { return wordChars.has(c) }

// IsControl matches the RFC 2396 control class: US-ASCII 0x00-0x1F and 0x7F.
func IsControl(c rune) bool { return 0 <= c && c < 0x20 || c == 0x7F }

// IsSpace matches the RFC 2396 space class.
func IsSpace(c rune) bool { return c == ' ' }

// IsWSP matches SP / HTAB.
func IsWSP(c rune) bool { return c == ' ' || c == '\t' }

func IsDelim(c rune) bool { return delimChars.has(c) }

func IsUnwise(c rune) bool { return unwiseChars.has(c) }

// IsExcluded matches characters that must always be escaped inside a URI.
func IsExcluded(c rune) bool {
	return IsControl(c) || IsSpace(c) || IsDelim(c) || IsUnwise(c) || c > 0x7F
}

// IsSchemeChar reports whether c may follow the first letter of a URI scheme.
func IsSchemeChar(c rune) bool { return schemeChars.has(c) }

// IsHostChar reports whether c may appear in a hostname or IPv4 address.
func IsHostChar(c rune) bool { return hostChars.has(c) }

// IsPhoneDigit matches phonedigit of RFC 3966: DIGIT / visual-separator.
func IsPhoneDigit(c rune) bool { return phoneDigits.has(c) }

// IsHexPhoneDigit matches phonedigit-hex of RFC 3966, including '*' and '#'.
func IsHexPhoneDigit(c rune) bool { return hexPhoneDigits.has(c) }
