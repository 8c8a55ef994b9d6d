package header_test

import (
	"testing"
	"time"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/uri"
)

func TestNameAddr_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.Header
		want string
	}{
		{
			"from",
			&header.From{
				DisplayName: "Bob",
				URI:         &uri.SIP{User: uri.User("bob"), Addr: uri.Host("biloxi.com")},
				Params:      make(header.Values).Set("tag", "a6c85cf"),
			},
			"From: Bob <sip:bob@biloxi.com>;tag=a6c85cf",
		},
		{
			"to without display name",
			&header.To{URI: &uri.SIP{User: uri.User("alice"), Addr: uri.Host("atlanta.com")}},
			"To: <sip:alice@atlanta.com>",
		},
		{
			"contact wildcard",
			header.Contact{},
			"Contact: *",
		},
		{
			"route",
			header.Route{
				{URI: &uri.SIP{Addr: uri.Host("p1.example.com"), Params: make(uri.Values).Set("lr", "")}},
				{URI: &uri.SIP{Addr: uri.Host("p2.example.com"), Params: make(uri.Values).Set("lr", "")}},
			},
			"Route: <sip:p1.example.com;lr>, <sip:p2.example.com;lr>",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Render(nil); got != c.want {
				t.Errorf("hdr.Render(nil) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestNameAddr_Accessors(t *testing.T) {
	t.Parallel()

	hdr, err := header.Parse("Contact: <sip:alice@192.0.2.4>;q=0.7;expires=3600, sip:bob@192.0.2.5;q=bad")
	if err != nil {
		t.Fatalf("header.Parse() error = %v, want nil", err)
	}
	cnt, ok := hdr.(header.Contact)
	if !ok || len(cnt) != 2 {
		t.Fatalf("header.Parse() = %#v, want Contact with 2 elements", hdr)
	}
	if cnt.IsWildcard() {
		t.Error("cnt.IsWildcard() = true, want false")
	}

	if got, ok := cnt[0].Q(); !ok || got != 0.7 {
		t.Errorf("cnt[0].Q() = (%v, %v), want (0.7, true)", got, ok)
	}
	if got, ok := cnt[0].Expires(); !ok || got != time.Hour {
		t.Errorf("cnt[0].Expires() = (%v, %v), want (1h, true)", got, ok)
	}
	if _, ok := cnt[1].Q(); ok {
		t.Error("cnt[1].Q() ok = true, want false")
	}
	if _, ok := cnt[1].Expires(); ok {
		t.Error("cnt[1].Expires() ok = true, want false")
	}
}

func TestFrom_Tag(t *testing.T) {
	t.Parallel()

	hdr, err := header.Parse(`From: "Alice" <sip:alice@atlanta.com>;tag=1928301774`)
	if err != nil {
		t.Fatalf("header.Parse() error = %v, want nil", err)
	}
	from := hdr.(*header.From)
	if got, ok := from.Tag(); !ok || got != "1928301774" {
		t.Errorf("from.Tag() = (%q, %v), want (\"1928301774\", true)", got, ok)
	}
	if from.DisplayName != "Alice" {
		t.Errorf("from.DisplayName = %q, want \"Alice\"", from.DisplayName)
	}
}

func TestNameAddr_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"display name ignored", `To: "Bob" <sip:bob@biloxi.com>`, "t: sip:bob@biloxi.com", true},
		{"tag mismatch", "To: <sip:bob@biloxi.com>;tag=1", "To: <sip:bob@biloxi.com>;tag=2", false},
		{"tag missing", "To: <sip:bob@biloxi.com>;tag=1", "To: <sip:bob@biloxi.com>", false},
		{"other uri", "To: <sip:bob@biloxi.com>", "To: <sip:carol@biloxi.com>", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			a, err := header.Parse(c.a)
			if err != nil {
				t.Fatalf("header.Parse(%q) error = %v, want nil", c.a, err)
			}
			b, err := header.Parse(c.b)
			if err != nil {
				t.Fatalf("header.Parse(%q) error = %v, want nil", c.b, err)
			}
			if got := a.Equal(b); got != c.want {
				t.Errorf("a.Equal(b) = %v, want %v", got, c.want)
			}
		})
	}
}
