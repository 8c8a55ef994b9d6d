package grammar_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"generic empty", grammar.Encode, "", ""},
		{"generic plain", grammar.Encode, "alice", "alice"},
		{"generic reserved", grammar.Encode, "a b;c", "a%20b%3Bc"},
		{"generic percent", grammar.Encode, "100%", "100%25"},
		{"generic utf8", grammar.Encode, "é", "%C3%A9"},
		{"user", grammar.EncodeUser, "alice;tel?x/y:z@w", "alice;tel?x/y%3Az%40w"},
		{"password", grammar.EncodePassword, "p&=+$,;:", "p&=+$,%3B%3A"},
		{"param", grammar.EncodeParam, "[::1]/a&b=c", "[::1]/a&b%3Dc"},
		{"param pre-escaped", grammar.EncodeParamPreEscaped, "a%20b c%zz", "a%20b%20c%25zz"},
		{"header", grammar.EncodeHeader, "a b?c=d", "a%20b?c%3Dd"},
		{"tel keep hash", func(s string) string { return grammar.EncodeTel(s, false) }, "*67#;x=a b", "*67#;x=a%20b"},
		{"tel escape hash", func(s string) string { return grammar.EncodeTel(s, true) }, "*67#", "*67%23"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.fn(c.in); got != c.want {
				t.Errorf("encode(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr *errorutil.GrammarError
	}{
		{"", "", nil},
		{"alice", "alice", nil},
		{"a%20b%3bc", "a b;c", nil},
		{"%C3%A9", "é", nil},
		{"bad%2", "bad%2", &errorutil.GrammarError{Pos: 3, Msg: `malformed escape sequence in "bad%2"`}},
		{"bad%zz", "bad%zz", &errorutil.GrammarError{Pos: 3, Msg: `malformed escape sequence in "bad%zz"`}},
	}
	for _, c := range cases {
		got, err := grammar.Decode(c.in)
		if got != c.want {
			t.Errorf("Decode(%q) = %q, want %q", c.in, got, c.want)
		}
		var gerr *errorutil.GrammarError
		if c.wantErr == nil {
			if err != nil {
				t.Errorf("Decode(%q) error = %v, want nil", c.in, err)
			}
			continue
		}
		if !errors.As(err, &gerr) {
			t.Errorf("Decode(%q) error = %v, want %v", c.in, err, c.wantErr)
			continue
		}
		if diff := cmp.Diff(gerr, c.wantErr); diff != "" {
			t.Errorf("Decode(%q) error mismatch (-got +want):\n%v", c.in, diff)
		}
	}
}

func TestDecode_EncodeRoundTrip(t *testing.T) {
	t.Parallel()

	encoders := map[string]func(string) string{
		"generic":  grammar.Encode,
		"user":     grammar.EncodeUser,
		"password": grammar.EncodePassword,
		"param":    grammar.EncodeParam,
		"header":   grammar.EncodeHeader,
	}
	inputs := []string{
		"",
		"alice",
		"a b c",
		"sip:bob@biloxi.com;transport=tcp?subject=hi",
		"<\"quoted\">",
		"Grüße, 世界",
		"\x00\x01\x7f",
	}
	for name, enc := range encoders {
		for _, in := range inputs {
			got, err := grammar.Decode(enc(in))
			if err != nil {
				t.Errorf("%s: Decode(enc(%q)) error = %v, want nil", name, in, err)
				continue
			}
			if got != in {
				t.Errorf("%s: Decode(enc(%q)) = %q, want %q", name, in, got, in)
			}
		}
	}
}

func TestHasEscaped(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{
		"":       false,
		"abc":    false,
		"a%":     false,
		"a%2":    false,
		"a%2g":   false,
		"a%%20b": true,
		"%41":    true,
	} {
		if got := grammar.HasEscaped(in); got != want {
			t.Errorf("HasEscaped(%q) = %v, want %v", in, got, want)
		}
	}
}
