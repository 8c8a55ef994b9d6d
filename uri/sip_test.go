package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/uri"
)

func TestSIP_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		uri  *uri.SIP
		want string
	}{
		{"nil", (*uri.SIP)(nil), ""},
		{"zero", &uri.SIP{}, "sip:"},
		{"host and port", &uri.SIP{Addr: uri.HostPort("example.com", 5060)}, "sip:example.com:5060"},
		{"secured", &uri.SIP{Secured: true, Addr: uri.Host("example.com")}, "sips:example.com"},
		{
			"user with empty password",
			&uri.SIP{Addr: uri.Host("example.com"), User: uri.UserPassword("root", "")},
			"sip:root:@example.com",
		},
		{
			"escaped user and password",
			&uri.SIP{
				Addr: uri.Host("example.com"),
				User: uri.UserPassword("root@;field=123", "p@sswd;qwe"),
			},
			"sip:root%40;field=123:p%40sswd%3Bqwe@example.com",
		},
		{
			"params and headers",
			&uri.SIP{
				Addr: uri.Host("example.com"),
				Params: make(uri.Values).
					Append("transport", "UDP").
					Append("lr", "").
					Append("x", "a b"),
				Headers: make(uri.Values).
					Append("Subject", "Hello world!").
					Append("priority", "emergency").
					Append("priority", "URGENT"),
			},
			"sip:example.com;lr;transport=UDP;x=a%20b?priority=emergency&priority=URGENT&subject=Hello%20world!",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.uri.Render(nil); got != c.want {
				t.Errorf("uri.Render(nil) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestSIP_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"sip:%61lice@atlanta.com;transport=TCP", "sip:alice@AtLanTa.CoM;Transport=tcp", true},
		{"sip:carol@chicago.com", "sip:carol@chicago.com;newparam=5", true},
		{"sip:carol@chicago.com;security=on", "sip:carol@chicago.com;newparam=5", true},
		{
			"sip:biloxi.com;transport=tcp;method=REGISTER?to=sip:bob%40biloxi.com",
			"sip:biloxi.com;method=REGISTER;transport=tcp?to=sip:bob%40biloxi.com",
			true,
		},
		{
			"sip:alice@atlanta.com?subject=project%20x&priority=urgent",
			"sip:alice@atlanta.com?priority=urgent&subject=project%20x",
			true,
		},
		{"SIP:ALICE@AtLanTa.CoM;Transport=udp", "sip:alice@AtLanTa.CoM;Transport=UDP", false},
		{"sip:bob@biloxi.com", "sip:bob@biloxi.com:5060", false},
		{"sip:bob@biloxi.com", "sip:bob@biloxi.com;transport=udp", false},
		{"sip:bob@biloxi.com", "sips:bob@biloxi.com", false},
		{"sip:carol@chicago.com", "sip:carol@chicago.com?Subject=next%20meeting", false},
		{"sip:bob@phone21.boxesbybob.com", "sip:bob@192.0.2.4", false},
	}

	for _, c := range cases {
		t.Run(c.a+" vs "+c.b, func(t *testing.T) {
			t.Parallel()

			a, err := uri.ParseSIP(c.a)
			if err != nil {
				t.Fatalf("uri.ParseSIP(%q) error = %v, want nil", c.a, err)
			}
			b, err := uri.ParseSIP(c.b)
			if err != nil {
				t.Fatalf("uri.ParseSIP(%q) error = %v, want nil", c.b, err)
			}
			if got := a.Equal(b); got != c.want {
				t.Errorf("a.Equal(b) = %v, want %v", got, c.want)
			}
			if got := b.Equal(a); got != c.want {
				t.Errorf("b.Equal(a) = %v, want %v", got, c.want)
			}
		})
	}
}

func TestSIP_Clone(t *testing.T) {
	t.Parallel()

	u := &uri.SIP{
		User:    uri.User("alice"),
		Addr:    uri.HostPort("192.0.2.1", 5060),
		Params:  make(uri.Values).Set("lr", ""),
		Headers: make(uri.Values).Set("subject", "hi"),
	}
	got := u.Clone().(*uri.SIP)
	if diff := cmp.Diff(got, u); diff != "" {
		t.Errorf("u.Clone() = %v, want %v\ndiff (-got +want):\n%v", got, u, diff)
	}
	got.Params.Set("transport", "tcp")
	if u.Params.Has("transport") {
		t.Errorf("u.Params modified through clone")
	}
}

func TestSIP_Accessors(t *testing.T) {
	t.Parallel()

	u, err := uri.ParseSIP("sip:alice@atlanta.com;transport=tcp;user=phone;method=INVITE;maddr=239.255.255.1;ttl=15;lr")
	if err != nil {
		t.Fatalf("uri.ParseSIP() error = %v, want nil", err)
	}
	if tp, ok := u.Transport(); !ok || tp != "tcp" {
		t.Errorf("u.Transport() = %q, %v, want tcp, true", tp, ok)
	}
	if v, ok := u.UserType(); !ok || v != "phone" {
		t.Errorf("u.UserType() = %q, %v, want phone, true", v, ok)
	}
	if m, ok := u.Method(); !ok || m != "INVITE" {
		t.Errorf("u.Method() = %q, %v, want INVITE, true", m, ok)
	}
	if v, ok := u.MAddr(); !ok || v != "239.255.255.1" {
		t.Errorf("u.MAddr() = %q, %v, want 239.255.255.1, true", v, ok)
	}
	if v, ok := u.TTL(); !ok || v != 15 {
		t.Errorf("u.TTL() = %d, %v, want 15, true", v, ok)
	}
	if !u.LR() {
		t.Errorf("u.LR() = false, want true")
	}
}

func TestSIP_MarshalUnmarshalText_RoundTrip(t *testing.T) {
	t.Parallel()

	in := "sips:bob:pa%24%24@biloxi.com:5061;lr;transport=tls?subject=a%20b"
	var u uri.SIP
	if err := u.UnmarshalText([]byte(in)); err != nil {
		t.Fatalf("u.UnmarshalText() error = %v, want nil", err)
	}
	if got, _ := u.User.Password(); got != "pa$$" {
		t.Errorf("u.User.Password() = %q, want %q", got, "pa$$")
	}
	b, err := u.MarshalText()
	if err != nil {
		t.Fatalf("u.MarshalText() error = %v, want nil", err)
	}
	if got := string(b); got != "sips:bob:pa$$@biloxi.com:5061;lr;transport=tls?subject=a%20b" {
		t.Errorf("u.MarshalText() = %q", got)
	}

	if err := u.UnmarshalText([]byte("tel:+123")); err == nil {
		t.Errorf("u.UnmarshalText(tel) error = nil, want error")
	}
}

func TestUserInfo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		ui        uri.UserInfo
		wantStr   string
		wantValid bool
		wantZero  bool
	}{
		{"zero", uri.UserInfo{}, "", false, true},
		{"user", uri.User("alice"), "alice", true, false},
		{"user and password", uri.UserPassword("alice", "s:cret"), "alice:s%3Acret", true, false},
		{"empty password", uri.UserPassword("alice", ""), "alice:", true, false},
		{"password only", uri.UserPassword("", "x"), ":x", false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.ui.String(); got != c.wantStr {
				t.Errorf("ui.String() = %q, want %q", got, c.wantStr)
			}
			if got := c.ui.IsValid(); got != c.wantValid {
				t.Errorf("ui.IsValid() = %v, want %v", got, c.wantValid)
			}
			if got := c.ui.IsZero(); got != c.wantZero {
				t.Errorf("ui.IsZero() = %v, want %v", got, c.wantZero)
			}
			if !c.ui.Equal(c.ui) {
				t.Errorf("ui.Equal(ui) = false, want true")
			}
		})
	}

	if uri.User("alice").Equal(uri.UserPassword("alice", "")) {
		t.Errorf("user without password equals user with empty password")
	}
}
