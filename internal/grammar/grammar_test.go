package grammar_test

import (
	"testing"

	"github.com/ghettovoice/sipwire/internal/grammar"
)

func TestIsToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"INVITE", true},
		{"z9hG4bK-776asdhds", true},
		{"a`b'c~d", true},
		{"with space", false},
		{"semi;colon", false},
		{"ünïcode", false},
	}
	for _, c := range cases {
		if got := grammar.IsToken(c.in); got != c.want {
			t.Errorf("IsToken(%q) = %v, want %v", c.in, got, c.want)
		}
		if got := grammar.IsToken([]rune(c.in)); got != c.want {
			t.Errorf("IsToken([]rune(%q)) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"atlanta.com", true},
		{"pc33.atlanta.com", true},
		{"192.0.2.4", true},
		{"[2001:db8::9:1]", true},
		{"[2001:db8::9:1", false},
		{"[192.0.2.4]", false},
		{"-bad.com", false},
		{"bad_host.com", false},
		{"a..b", false},
	}
	for _, c := range cases {
		if got := grammar.IsHost(c.in); got != c.want {
			t.Errorf("IsHost(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestQuoteUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw, quoted string
	}{
		{"", `""`},
		{"Bob", `"Bob"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, c := range cases {
		if got := grammar.Quote(c.raw); got != c.quoted {
			t.Errorf("Quote(%q) = %q, want %q", c.raw, got, c.quoted)
		}
		if got := grammar.Unquote(c.quoted); got != c.raw {
			t.Errorf("Unquote(%q) = %q, want %q", c.quoted, got, c.raw)
		}
		if !grammar.IsQuoted(c.quoted) {
			t.Errorf("IsQuoted(%q) = false, want true", c.quoted)
		}
	}

	for _, s := range []string{`"`, `"abc`, `abc"`, `"a"b"`, `"abc\"`} {
		if grammar.IsQuoted(s) {
			t.Errorf("IsQuoted(%q) = true, want false", s)
		}
		if got := grammar.Unquote(s); got != s {
			t.Errorf("Unquote(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestIsTelNum(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in         string
		want, glob bool
	}{
		{"", false, false},
		{"+1-201-555-0123", true, true},
		{"+", false, false},
		{"7042", true, false},
		{"*67#", true, false},
		{"+1 201", false, false},
		{"abc", true, false},
		{"xyz", false, false},
	}
	for _, c := range cases {
		if got := grammar.IsTelNum(c.in); got != c.want {
			t.Errorf("IsTelNum(%q) = %v, want %v", c.in, got, c.want)
		}
		if got := grammar.IsGlobTelNum(c.in); got != c.glob {
			t.Errorf("IsGlobTelNum(%q) = %v, want %v", c.in, got, c.glob)
		}
	}

	if got, want := grammar.CleanTelNum("+1-(201).555-0123"), "+12015550123"; got != want {
		t.Errorf("CleanTelNum() = %q, want %q", got, want)
	}
}

func TestCharClasses(t *testing.T) {
	t.Parallel()

	check := func(name string, fn func(rune) bool, yes, no string) {
		t.Helper()
		for _, c := range yes {
			if !fn(c) {
				t.Errorf("%s(%q) = false, want true", name, c)
			}
		}
		for _, c := range no {
			if fn(c) {
				t.Errorf("%s(%q) = true, want false", name, c)
			}
		}
	}

	check("IsReserved", grammar.IsReserved, ";/?:@&=+$,", "aZ9-_%")
	check("IsMark", grammar.IsMark, "-_.!~*'()", "a;%")
	check("IsUnreserved", grammar.IsUnreserved, "aZ9-_.!~*'()", ";/?:@&=+$,% ")
	check("IsUserUnreserved", grammar.IsUserUnreserved, "a&=+$,;?/", ":@% ")
	check("IsPasswordUnreserved", grammar.IsPasswordUnreserved, "a&=+$,", ";?/:@%")
	check("IsParamUnreserved", grammar.IsParamUnreserved, "a[]/:&+$", ";=?,%")
	check("IsHeaderUnreserved", grammar.IsHeaderUnreserved, "a[]/?:+$", ";=&,%")
	check("IsTokenChar", grammar.IsTokenChar, "a9-.!%*_+`'~", "()<>:\"/[]?{} ")
	check("IsWordChar", grammar.IsWordChar, "a9()<>:\\\"/[]?{}", " ;@,=")
	check("IsControl", grammar.IsControl, "\x00\x1f\x7f", " a")
	check("IsDelim", grammar.IsDelim, "<>#%\"", "a;")
	check("IsUnwise", grammar.IsUnwise, "{}|\\^[]`", "a;")
	check("IsExcluded", grammar.IsExcluded, "\x01 <{é", "a;@")
}
