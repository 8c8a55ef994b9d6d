package uri_test

import (
	"testing"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/uri"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       string
		wantType string
		want     string
	}{
		{"sip user and host", "sip:alice@atlanta.com", "sip", "sip:alice@atlanta.com"},
		{"sip host only", "sip:atlanta.com:5060", "sip", "sip:atlanta.com:5060"},
		{
			"sips full",
			"SIPS:alice:secret@[::1]:5061;transport=TCP;lr?Subject=hi%20there&Priority=urgent",
			"sips",
			"sips:alice:secret@[::1]:5061;lr;transport=TCP?priority=urgent&subject=hi%20there",
		},
		{"sip escaped user", "sip:%61lice@atlanta.com", "sip", "sip:alice@atlanta.com"},
		{"sip ipv4", "sip:192.0.2.4", "sip", "sip:192.0.2.4"},
		{"tel global", "tel:+1-201-555-0123;ext=1234", "tel", "tel:+1-201-555-0123;ext=1234"},
		{"tel local", "tel:7042;phone-context=example.com", "tel", "tel:7042;phone-context=example.com"},
		{"mailto", "mailto:alice@example.com", "mailto", "mailto:alice@example.com"},
		{"urn", "URN:service:sos", "urn", "urn:service:sos"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			u, err := uri.Parse(c.in)
			if err != nil {
				t.Fatalf("uri.Parse(%q) error = %v, want nil", c.in, err)
			}
			if got := uri.GetScheme(u); got != c.wantType {
				t.Errorf("uri.GetScheme(u) = %q, want %q", got, c.wantType)
			}
			if got := u.Render(nil); got != c.want {
				t.Errorf("u.Render(nil) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestParse_Error(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no scheme", "alice@atlanta.com"},
		{"bad scheme", "1sip:alice@atlanta.com"},
		{"no host", "sip:"},
		{"empty host after user", "sip:alice@"},
		{"empty user", "sip:@atlanta.com"},
		{"bad port", "sip:atlanta.com:99999"},
		{"malformed escape", "sip:%zzalice@atlanta.com"},
		{"trailing text", "sip:atlanta.com extra"},
		{"tel without digits", "tel:+"},
		{"tel duplicate param", "tel:+12015550123;ext=1;ext=2"},
		{"tel empty param value", "tel:+12015550123;ext="},
		{"empty opaque", "urn:"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			u, err := uri.Parse(c.in)
			if err == nil {
				t.Fatalf("uri.Parse(%q) = %v, want error", c.in, u)
			}
			if !errorutil.IsGrammarErr(err) {
				t.Errorf("uri.Parse(%q) error = %v, want grammar error", c.in, err)
			}
		})
	}
}

func TestParseSIP_NotSIP(t *testing.T) {
	t.Parallel()

	if _, err := uri.ParseSIP("tel:+12015550123"); err == nil {
		t.Errorf("uri.ParseSIP(tel) error = nil, want error")
	}
	if _, err := uri.ParseTel("sip:alice@atlanta.com"); err == nil {
		t.Errorf("uri.ParseTel(sip) error = nil, want error")
	}
}

func TestGetAddr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		uri  uri.URI
		want string
	}{
		{"nil", nil, ""},
		{"sip", &uri.SIP{Addr: uri.HostPort("example.com", 5060)}, "example.com:5060"},
		{"tel", &uri.Tel{Number: "+123"}, "+123"},
		{"any", &uri.Any{Scheme: "urn", Opaque: "service:sos"}, "service:sos"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := uri.GetAddr(c.uri); got != c.want {
				t.Errorf("uri.GetAddr(u) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestGetParams(t *testing.T) {
	t.Parallel()

	ps := make(uri.Values).Set("lr", "")
	if got := uri.GetParams(&uri.SIP{Params: ps}); !got.Has("lr") {
		t.Errorf("uri.GetParams(sip) = %v, want lr", got)
	}
	if got := uri.GetParams(&uri.Any{Scheme: "urn", Opaque: "x"}); got != nil {
		t.Errorf("uri.GetParams(any) = %v, want nil", got)
	}
	if got := uri.GetParams(nil); got != nil {
		t.Errorf("uri.GetParams(nil) = %v, want nil", got)
	}
}
