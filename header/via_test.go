package header_test

import (
	"net/netip"
	"testing"

	"github.com/ghettovoice/sipwire/header"
)

func TestVia_Render(t *testing.T) {
	t.Parallel()

	hdr := header.Via{
		{
			Proto:     header.ProtoInfo{Name: "SIP", Version: "2.0"},
			Transport: "UDP",
			Addr:      header.HostPort("192.0.2.1", 5060),
			Params:    make(header.Values).Set("branch", "z9hG4bK776asdhds").Set("rport", ""),
		},
		{
			Proto:     header.ProtoInfo{Name: "SIP", Version: "2.0"},
			Transport: "TLS",
			Addr:      header.Host("proxy.example.com"),
		},
	}

	want := "Via: SIP/2.0/UDP 192.0.2.1:5060;branch=z9hG4bK776asdhds;rport, SIP/2.0/TLS proxy.example.com"
	if got := hdr.Render(nil); got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
	if !hdr.IsValid() {
		t.Error("hdr.IsValid() = false, want true")
	}
	if (header.Via{}).IsValid() {
		t.Error("Via{}.IsValid() = true, want false")
	}
}

func TestViaHop_Params(t *testing.T) {
	t.Parallel()

	hdr, err := header.Parse("Via: SIP/2.0/UDP 10.0.0.1:5060;branch=z9hG4bK1;received=192.0.2.4;rport=5070;maddr=239.255.255.1;ttl=16")
	if err != nil {
		t.Fatalf("header.Parse() error = %v, want nil", err)
	}
	via, ok := hdr.(header.Via)
	if !ok || len(via) != 1 {
		t.Fatalf("header.Parse() = %#v, want single hop Via", hdr)
	}
	hop := via[0]

	if got, ok := hop.Branch(); !ok || got != "z9hG4bK1" {
		t.Errorf("hop.Branch() = (%q, %v), want (\"z9hG4bK1\", true)", got, ok)
	}
	if got, ok := hop.Received(); !ok || got != netip.MustParseAddr("192.0.2.4") {
		t.Errorf("hop.Received() = (%v, %v), want (192.0.2.4, true)", got, ok)
	}
	if got, ok := hop.RPort(); !ok || got != 5070 {
		t.Errorf("hop.RPort() = (%v, %v), want (5070, true)", got, ok)
	}
	if got, ok := hop.MAddr(); !ok || got != "239.255.255.1" {
		t.Errorf("hop.MAddr() = (%q, %v), want (\"239.255.255.1\", true)", got, ok)
	}
	if got, ok := hop.TTL(); !ok || got != 16 {
		t.Errorf("hop.TTL() = (%v, %v), want (16, true)", got, ok)
	}
	if got, ok := hop.Addr.Port(); !ok || got != 5060 {
		t.Errorf("hop.Addr.Port() = (%v, %v), want (5060, true)", got, ok)
	}
}

func TestViaHop_Equal(t *testing.T) {
	t.Parallel()

	parse := func(s string) header.ViaHop {
		t.Helper()
		hdr, err := header.Parse(s)
		if err != nil {
			t.Fatalf("header.Parse(%q) error = %v, want nil", s, err)
		}
		return hdr.(header.Via)[0]
	}

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"same", "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1", "v: SIP/2.0/UDP a.example.com;branch=z9hG4bK1", true},
		{"param case", "Via: SIP/2.0/UDP a.example.com;BRANCH=z9hG4bK1", "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1", true},
		{"different branch", "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1", "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK2", false},
		{"missing branch", "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1", "Via: SIP/2.0/UDP a.example.com", false},
		{"different transport", "Via: SIP/2.0/UDP a.example.com", "Via: SIP/2.0/TCP a.example.com", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			a, b := parse(c.a), parse(c.b)
			if got := a.Equal(b); got != c.want {
				t.Errorf("a.Equal(b) = %v, want %v", got, c.want)
			}
		})
	}
}
