package header_test

import (
	"testing"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"content length", "Content-Length: 5", "Content-Length: 5"},
		{"content length compact", "l: 5", "Content-Length: 5"},
		{"content length lower", "content-length:5", "Content-Length: 5"},
		{"via", "Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds", "Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds"},
		{"via compact", "v: SIP/2.0/TCP 192.0.2.1:5060;branch=z9hG4bKnashds8", "Via: SIP/2.0/TCP 192.0.2.1:5060;branch=z9hG4bKnashds8"},
		{"via lws around slash", "Via: SIP / 2.0 / UDP first.example.com:4000", "Via: SIP/2.0/UDP first.example.com:4000"},
		{"via folded", "Via: SIP/2.0/UDP\r\n  server10.biloxi.com;branch=z9hG4bK4b43c2ff8.1", "Via: SIP/2.0/UDP server10.biloxi.com;branch=z9hG4bK4b43c2ff8.1"},
		{
			"via list",
			"Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1, SIP/2.0/UDP b.example.com;branch=z9hG4bK2",
			"Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1, SIP/2.0/UDP b.example.com;branch=z9hG4bK2",
		},
		{"from", `From: "Alice Liddell" <sip:alice@atlanta.com>;tag=1928301774`, `From: "Alice Liddell" <sip:alice@atlanta.com>;tag=1928301774`},
		{"from token display name", "f: Alice <sip:alice@atlanta.com>;tag=88", "From: Alice <sip:alice@atlanta.com>;tag=88"},
		{"to bare uri", "To: sip:bob@biloxi.com;tag=a6c85cf", "To: <sip:bob@biloxi.com>;tag=a6c85cf"},
		{"contact wildcard", "Contact: *", "Contact: *"},
		{
			"contact list",
			"m: <sip:alice@pc33.atlanta.com>;expires=3600, <sip:a@b.c>;q=0.5",
			"Contact: <sip:alice@pc33.atlanta.com>;expires=3600, <sip:a@b.c>;q=0.5",
		},
		{"cseq", "CSeq: 314159 INVITE", "CSeq: 314159 INVITE"},
		{"call id compact", "i: a84b4c76e66710@pc33.atlanta.com", "Call-ID: a84b4c76e66710@pc33.atlanta.com"},
		{"max forwards", "Max-Forwards: 70", "Max-Forwards: 70"},
		{"content type compact", "c: application/sdp", "Content-Type: application/sdp"},
		{"content type params", "Content-Type: text/plain; charset=UTF-8", "Content-Type: text/plain;charset=UTF-8"},
		{
			"accept",
			"Accept: application/sdp;level=1, application/x-private, text/html;q=0.5",
			"Accept: application/sdp;level=1;q=1, application/x-private, text/html;q=0.5",
		},
		{"accept empty", "Accept: ", "Accept: "},
		{"accept encoding", "Accept-Encoding: gzip;q=1.0, identity", "Accept-Encoding: gzip;q=1.0, identity"},
		{"accept language", "Accept-Language: da, en-gb;q=0.8", "Accept-Language: da, en-gb;q=0.8"},
		{"allow", "Allow: INVITE, ACK, OPTIONS, CANCEL, BYE", "Allow: INVITE, ACK, OPTIONS, CANCEL, BYE"},
		{"supported compact", "k: 100rel, timer", "Supported: 100rel, timer"},
		{"supported empty", "Supported:", "Supported: "},
		{"require", "Require: 100rel", "Require: 100rel"},
		{"date", "Date: Sat, 13 Nov 2010 23:29:00 GMT", "Date: Sat, 13 Nov 2010 23:29:00 GMT"},
		{"expires", "Expires: 3600", "Expires: 3600"},
		{"min expires", "Min-Expires: 60", "Min-Expires: 60"},
		{"timestamp", "Timestamp: 54", "Timestamp: 54.000"},
		{"timestamp delay", "Timestamp: 54.5 1.25", "Timestamp: 54.500 1.250"},
		{"retry after params", "Retry-After: 18000;duration=3600", "Retry-After: 18000;duration=3600"},
		{"retry after comment", "Retry-After: 120 (I'm in a meeting)", "Retry-After: 120 (I'm in a meeting)"},
		{
			"warning",
			`Warning: 307 isi.edu "Session parameter 'foo' not understood"`,
			`Warning: 307 isi.edu "Session parameter 'foo' not understood"`,
		},
		{
			"authorization digest",
			`Authorization: Digest username="Alice", realm="atlanta.com", nonce="84a4cc6f3082121f32b42a2187831a9e", response="7587245234b3434cc3412213e5f113a5432"`,
			`Authorization: Digest nonce="84a4cc6f3082121f32b42a2187831a9e", realm="atlanta.com", response="7587245234b3434cc3412213e5f113a5432", username="Alice"`,
		},
		{"authorization bearer", "Authorization: Bearer mF_9.B5f-4.1JqM", "Authorization: Bearer mF_9.B5f-4.1JqM"},
		{
			"www authenticate",
			`WWW-Authenticate: Digest realm="atlanta.com", qop="auth", nonce="abc", stale=FALSE`,
			`WWW-Authenticate: Digest nonce="abc", qop="auth", realm="atlanta.com", stale=FALSE`,
		},
		{
			"authentication info",
			`Authentication-Info: nextnonce="47364c23432d2e131a5fb210812c", qop=auth, rspauth="abc", cnonce="0a4f113b", nc=00000001`,
			`Authentication-Info: cnonce="0a4f113b", nc=00000001, nextnonce="47364c23432d2e131a5fb210812c", qop=auth, rspauth="abc"`,
		},
		{"event compact", "o: presence;id=123", "Event: presence;id=123"},
		{"rack", "RAck: 776656 1 INVITE", "RAck: 776656 1 INVITE"},
		{"rseq", "RSeq: 988789", "RSeq: 988789"},
		{"refer to compact", "r: <sip:carol@chicago.com>", "Refer-To: <sip:carol@chicago.com>"},
		{"subject folded", "Subject: I know you're there,\r\n   pick up the phone", "Subject: I know you're there, pick up the phone"},
		{
			"call info",
			"Call-Info: <http://wwww.example.com/alice/photo.jpg> ;purpose=icon, <http://www.example.com/alice/> ;purpose=info",
			"Call-Info: <http://wwww.example.com/alice/photo.jpg>;purpose=icon, <http://www.example.com/alice/>;purpose=info",
		},
		{
			"record route",
			"Record-Route: <sip:server10.biloxi.com;lr>, <sip:bigbox3.site3.atlanta.com;lr>",
			"Record-Route: <sip:server10.biloxi.com;lr>, <sip:bigbox3.site3.atlanta.com;lr>",
		},
		{"unknown", "X-Custom: some  value", "X-Custom: some  value"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.Parse(c.in)
			if err != nil {
				t.Fatalf("header.Parse(%q) error = %v, want nil", c.in, err)
			}
			if got := hdr.Render(nil); got != c.want {
				t.Errorf("header.Parse(%q).Render(nil) = %q, want %q", c.in, got, c.want)
			}
			if !hdr.IsValid() {
				t.Errorf("header.Parse(%q).IsValid() = false, want true", c.in)
			}
			if clone := hdr.Clone(); !clone.Equal(hdr) {
				t.Errorf("header.Parse(%q).Clone() = %+v, want equal to %+v", c.in, clone, hdr)
			}
		})
	}
}

func TestParse_Error(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, in string
	}{
		{"bad cseq number", "CSeq: abc INVITE"},
		{"cseq without method", "CSeq: 1"},
		{"empty max forwards", "Max-Forwards: "},
		{"empty from", "From: "},
		{"trailing garbage", "Content-Length: 5x"},
		{"via without sent-by", "Via: SIP/2.0/UDP"},
		{"empty name", ": value"},
		{"missing colon", "Foo value"},
		{"bad warning code", `Warning: 30 isi.edu "text"`},
		{"unclosed name-addr", "To: <sip:bob@biloxi.com"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.Parse(c.in)
			if err == nil {
				t.Fatalf("header.Parse(%q) = %+v, want error", c.in, hdr)
			}
			if !errorutil.IsGrammarErr(err) {
				t.Errorf("header.Parse(%q) error = %v, want grammar error", c.in, err)
			}
		})
	}
}

func TestParse_Compact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"Via: SIP/2.0/UDP a.example.com", "v: SIP/2.0/UDP a.example.com"},
		{"Content-Length: 0", "l: 0"},
		{"CSeq: 1 ACK", "CSeq: 1 ACK"},
		{"X-Foo: bar", "X-Foo: bar"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			hdr, err := header.Parse(c.in)
			if err != nil {
				t.Fatalf("header.Parse(%q) error = %v, want nil", c.in, err)
			}
			if got := hdr.Render(&header.RenderOptions{Compact: true}); got != c.want {
				t.Errorf("hdr.Render(compact) = %q, want %q", got, c.want)
			}
		})
	}
}
