package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

func TestParser_ParseURI_StopsAtDelimiter(t *testing.T) {
	t.Parallel()

	l := lex.New([]rune("sip:bob@biloxi.com;lr> rest"))
	u, err := uri.DefaultParser.ParseURI(l)
	if err != nil {
		t.Fatalf("p.ParseURI(l) error = %v, want nil", err)
	}
	if got, want := u.Render(nil), "sip:bob@biloxi.com;lr"; got != want {
		t.Errorf("u.Render(nil) = %q, want %q", got, want)
	}
	if got, want := string(l.Rest()), "> rest"; got != want {
		t.Errorf("l.Rest() = %q, want %q", got, want)
	}
}

func TestParser_ParseURI_RewindsOnError(t *testing.T) {
	t.Parallel()

	l := lex.New([]rune("sip:alice@;x"))
	if _, err := uri.DefaultParser.ParseURI(l); err == nil {
		t.Fatalf("p.ParseURI(l) error = nil, want error")
	}
	if got := l.Pos(); got != 0 {
		t.Errorf("l.Pos() = %d, want 0", got)
	}
}

func TestParser_Unescape(t *testing.T) {
	t.Parallel()

	in := "sip:%61lice@atlanta.com;x=%41b"

	var raw uri.Parser
	u, err := raw.ParseURI(lex.New([]rune(in)))
	if err != nil {
		t.Fatalf("p.ParseURI(l) error = %v, want nil", err)
	}
	sip := u.(*uri.SIP)
	if got, want := sip.User.Username(), "%61lice"; got != want {
		t.Errorf("u.User.Username() = %q, want %q", got, want)
	}
	if got, _ := sip.Params.Last("x"); got != "%41b" {
		t.Errorf("u.Params.Last(x) = %q, want %q", got, "%41b")
	}

	u, err = uri.DefaultParser.ParseURI(lex.New([]rune(in)))
	if err != nil {
		t.Fatalf("p.ParseURI(l) error = %v, want nil", err)
	}
	sip = u.(*uri.SIP)
	if got, want := sip.User.Username(), "alice"; got != want {
		t.Errorf("u.User.Username() = %q, want %q", got, want)
	}
	if got, _ := sip.Params.Last("x"); got != "Ab" {
		t.Errorf("u.Params.Last(x) = %q, want %q", got, "Ab")
	}
}

func TestParser_DetectPreEscaped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		in             string
		wantX          string
		wantPreEscaped bool
		wantRender     string
	}{
		{"escaped value", "sip:atlanta.com;x=a%20b;y=c", "a%20b", true, "sip:atlanta.com;x=a%20b;y=c"},
		{"user and escaped value", "sip:alice@a.com;x=a%20b", "a%20b", true, "sip:alice@a.com;x=a%20b"},
		{"plain values", "sip:atlanta.com;x=ab;y=c", "ab", false, "sip:atlanta.com;x=ab;y=c"},
	}

	p := &uri.Parser{Unescape: true, DetectPreEscaped: true}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			u, err := p.ParseURI(lex.New([]rune(c.in)))
			if err != nil {
				t.Fatalf("p.ParseURI(%q) error = %v, want nil", c.in, err)
			}
			sip := u.(*uri.SIP)
			if got, _ := sip.Params.Last("x"); got != c.wantX {
				t.Errorf("u.Params.Last(x) = %q, want %q", got, c.wantX)
			}
			if sip.PreEscaped != c.wantPreEscaped {
				t.Errorf("u.PreEscaped = %v, want %v", sip.PreEscaped, c.wantPreEscaped)
			}
			if got := sip.Render(nil); got != c.wantRender {
				t.Errorf("u.Render(nil) = %q, want %q", got, c.wantRender)
			}
		})
	}
}

func TestParser_ParseParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		isURI   bool
		want    uri.Values
		rest    string
		wantErr bool
	}{
		{
			"header params with LWS",
			` ; tag = 1928301774 ;received="10.0.0.1";rport, next`,
			false,
			uri.Values{"tag": {"1928301774"}, "received": {`"10.0.0.1"`}, "rport": {""}},
			", next",
			false,
		},
		{
			"uri params stop at question mark",
			";transport=tcp;lr?h=v",
			true,
			uri.Values{"transport": {"tcp"}, "lr": {""}},
			"?h=v",
			false,
		},
		{"empty name", ";=x", false, nil, "", true},
		{"empty value", ";tag=", false, nil, "", true},
		{"unterminated quote", `;x="abc`, false, nil, "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			l := lex.New([]rune(c.in))
			got, err := uri.DefaultParser.ParseParams(l, ';', true, c.isURI)
			if c.wantErr {
				if err == nil {
					t.Fatalf("p.ParseParams() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("p.ParseParams() error = %v, want nil", err)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("p.ParseParams() = %v, want %v\ndiff (-got +want):\n%v", got, c.want, diff)
			}
			if rest := string(l.Rest()); rest != c.rest {
				t.Errorf("l.Rest() = %q, want %q", rest, c.rest)
			}
		})
	}
}

func TestParser_ParseNameAddr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       string
		wantName string
		wantURI  string
		rest     string
	}{
		{"quoted name", `"Alice \"A\"" <sip:alice@atlanta.com>;tag=1`, `Alice "A"`, "sip:alice@atlanta.com", ";tag=1"},
		{"token name", `Bob Smith <sip:bob@biloxi.com;lr>`, "Bob Smith", "sip:bob@biloxi.com;lr", ""},
		{"brackets only", `<tel:+12015550123>`, "", "tel:+12015550123", ""},
		{"bare uri", `sip:carol@chicago.com;tag=abc`, "", "sip:carol@chicago.com", ";tag=abc"},
		{"bare uri with user looking like scheme", `sip:a:b@chicago.com, x`, "", "sip:a:b@chicago.com", ", x"},
		{"utf-8 display name", `Алиса <sip:alice@atlanta.com>`, "Алиса", "sip:alice@atlanta.com", ""},
		{"leading LWS", "  <sip:alice@atlanta.com>", "", "sip:alice@atlanta.com", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			l := lex.New([]rune(c.in))
			got, err := uri.DefaultParser.ParseNameAddr(l)
			if err != nil {
				t.Fatalf("p.ParseNameAddr() error = %v, want nil", err)
			}
			if got.DisplayName != c.wantName {
				t.Errorf("addr.DisplayName = %q, want %q", got.DisplayName, c.wantName)
			}
			if s := got.URI.Render(nil); s != c.wantURI {
				t.Errorf("addr.URI.Render(nil) = %q, want %q", s, c.wantURI)
			}
			if rest := string(l.Rest()); rest != c.rest {
				t.Errorf("l.Rest() = %q, want %q", rest, c.rest)
			}
		})
	}
}

func TestParser_ParseNameAddr_Error(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"Alice",
		`"Alice" sip:alice@atlanta.com`,
		"<sip:alice@atlanta.com",
		"<>",
		`"Alice <sip:alice@atlanta.com>`,
	} {
		l := lex.New([]rune(in))
		if got, err := uri.DefaultParser.ParseNameAddr(l); err == nil {
			t.Errorf("p.ParseNameAddr(%q) = %v, want error", in, got)
		}
		if l.Pos() != 0 {
			t.Errorf("p.ParseNameAddr(%q) left cursor at %d, want 0", in, l.Pos())
		}
	}
}
