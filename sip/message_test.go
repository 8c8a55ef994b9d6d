package sip_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/sip"
)

func parseReq(t *testing.T, s string) *sip.Request {
	t.Helper()

	p := sip.NewPacketParser(nil)
	req, ok := p.Parse([]byte(s)).(*sip.Request)
	if !ok {
		t.Fatalf("failed to parse request %q: %v", s, p.Err())
	}
	return req
}

func mustHdr(t *testing.T, s string) sip.Header {
	t.Helper()

	hdr, err := sip.ParseHeader(s)
	if err != nil {
		t.Fatalf("sip.ParseHeader(%q) error = %v, want nil", s, err)
	}
	return hdr
}

func TestRequest_NewResponse(t *testing.T) {
	t.Parallel()

	req := parseReq(t, inviteMsg)
	req.Headers.Append(mustHdr(t, "Timestamp: 54"))

	t.Run("100 Trying", func(t *testing.T) {
		t.Parallel()

		res, err := req.NewResponse(sip.ResponseStatusTrying, nil)
		if err != nil {
			t.Fatalf("req.NewResponse() error = %v, want nil", err)
		}
		want := lines(
			"SIP/2.0 100 Trying",
			"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
			"From: Alice <sip:alice@atlanta.com>;tag=1928301774",
			"To: Bob <sip:bob@biloxi.com>",
			"Call-ID: a84b4c76e66710@pc33.atlanta.com",
			"CSeq: 314159 INVITE",
			"Timestamp: 54.000",
			"",
			"",
		)
		if got := res.Render(nil); got != want {
			t.Errorf("res.Render() = %q, want %q", got, want)
		}
	})

	t.Run("180 Ringing with local tag", func(t *testing.T) {
		t.Parallel()

		res, err := req.NewResponse(sip.ResponseStatusRinging, &sip.ResponseOptions{
			LocalTag: "a6c85cf",
			Headers:  make(sip.Headers).Append(mustHdr(t, "Contact: <sip:bob@192.0.2.4>")),
		})
		if err != nil {
			t.Fatalf("req.NewResponse() error = %v, want nil", err)
		}
		to, ok := res.Headers.To()
		if !ok {
			t.Fatal("res.Headers.To() = false, want true")
		}
		if tag, _ := to.Tag(); tag != "a6c85cf" {
			t.Errorf("to.Tag() = %q, want %q", tag, "a6c85cf")
		}
		if !res.Headers.Has("Contact") {
			t.Error("res.Headers.Has(\"Contact\") = false, want true")
		}
		if err := res.Validate(); err != nil {
			t.Errorf("res.Validate() = %v, want nil", err)
		}

		// the request headers stay untouched
		reqTo, _ := req.Headers.To()
		if _, ok := reqTo.Tag(); ok {
			t.Error("request To header got a tag")
		}
	})

	t.Run("200 OK with body", func(t *testing.T) {
		t.Parallel()

		res, err := req.NewResponse(sip.ResponseStatusOK, &sip.ResponseOptions{
			Reason:  "Fine",
			Headers: make(sip.Headers).Append(mustHdr(t, "Content-Type: application/sdp")),
			Body:    []byte("v=0\r\n"),
		})
		if err != nil {
			t.Fatalf("req.NewResponse() error = %v, want nil", err)
		}
		if res.Reason != "Fine" {
			t.Errorf("res.Reason = %q, want %q", res.Reason, "Fine")
		}
		if to, _ := res.Headers.To(); to != nil {
			if tag, ok := to.Tag(); !ok || len(tag) != 16 {
				t.Errorf("to.Tag() = (%q, %v), want random 16 chars tag", tag, ok)
			}
		}
		if cl, _ := res.Headers.ContentLength(); cl != 5 {
			t.Errorf("Content-Length = %d, want 5", cl)
		}
		if res.MessageContentType() == nil {
			t.Error("res.MessageContentType() = nil, want application/sdp")
		}
	})

	t.Run("ACK", func(t *testing.T) {
		t.Parallel()

		ack := req.Clone().(*sip.Request) //nolint:forcetypeassert
		ack.Method = sip.RequestMethodAck
		if _, err := ack.NewResponse(sip.ResponseStatusOK, nil); !errors.Is(err, sip.ErrInvalidArgument) {
			t.Errorf("ack.NewResponse() error = %v, want %v", err, sip.ErrInvalidArgument)
		}
	})
}

func TestRequest_CloneEqual(t *testing.T) {
	t.Parallel()

	req := parseReq(t, inviteMsg)
	clone := req.Clone().(*sip.Request) //nolint:forcetypeassert
	if !req.Equal(clone) {
		t.Fatalf("req.Equal(clone) = false, want true\nreq = %+s\nclone = %+s", req, clone)
	}
	if diff := cmp.Diff(clone.Render(nil), req.Render(nil)); diff != "" {
		t.Errorf("clone rendering mismatch (-got +want):\n%v", diff)
	}

	clone.Body[0] = 'x'
	if req.Equal(clone) {
		t.Error("req.Equal(clone) = true after the body change, want false")
	}
	if string(req.Body) != "v=0\n" {
		t.Errorf("req.Body = %q, want %q", req.Body, "v=0\n")
	}

	clone = req.Clone().(*sip.Request) //nolint:forcetypeassert
	clone.Headers.Set(header.MaxForwards(69))
	if req.Equal(clone) {
		t.Error("req.Equal(clone) = true after the header change, want false")
	}

	if req.Equal(nil) {
		t.Error("req.Equal(nil) = true, want false")
	}
	if (*sip.Request)(nil).Clone() != nil {
		t.Error("nil request clone is not nil")
	}
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := parseReq(t, inviteMsg)
	if err := valid.Validate(); err != nil {
		t.Fatalf("req.Validate() = %v, want nil", err)
	}

	cases := []struct {
		name   string
		modify func(req *sip.Request)
	}{
		{"illegal method", func(req *sip.Request) { req.Method = sip.RequestMethodIllegal }},
		{"nil URI", func(req *sip.Request) { req.URI = nil }},
		{"invalid proto", func(req *sip.Request) { req.Proto = sip.ProtoInfo{} }},
		{"missing Via", func(req *sip.Request) { req.Headers.Del("Via") }},
		{"missing Max-Forwards", func(req *sip.Request) { req.Headers.Del("Max-Forwards") }},
		{"CSeq method mismatch", func(req *sip.Request) { req.Method = sip.RequestMethodBye }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			req := valid.Clone().(*sip.Request) //nolint:forcetypeassert
			c.modify(req)
			err := req.Validate()
			if !errors.Is(err, sip.ErrInvalidMessage) {
				t.Errorf("req.Validate() = %v, want %v", err, sip.ErrInvalidMessage)
			}
			if req.IsValid() {
				t.Error("req.IsValid() = true, want false")
			}
		})
	}

	if err := (*sip.Request)(nil).Validate(); !errors.Is(err, sip.ErrInvalidArgument) {
		t.Errorf("nil req.Validate() = %v, want %v", err, sip.ErrInvalidArgument)
	}
}

func TestResponse_Render(t *testing.T) {
	t.Parallel()

	in := lines(
		"SIP/2.0 486 Busy Here",
		"v: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
		"t: <sip:bob@biloxi.com>;tag=a6c85cf",
		"f: <sip:alice@atlanta.com>;tag=1928301774",
		"i: a84b4c76e66710",
		"CSeq: 314159 INVITE",
		"l: 0",
		"",
		"",
	)
	p := sip.NewPacketParser(nil)
	res, ok := p.Parse([]byte(in)).(*sip.Response)
	if !ok {
		t.Fatalf("p.Parse() failed: %v", p.Err())
	}

	cases := []struct {
		name string
		opts *sip.RenderOptions
		want string
	}{
		{
			"full", nil,
			lines(
				"SIP/2.0 486 Busy Here",
				"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
				"From: <sip:alice@atlanta.com>;tag=1928301774",
				"To: <sip:bob@biloxi.com>;tag=a6c85cf",
				"Call-ID: a84b4c76e66710",
				"CSeq: 314159 INVITE",
				"Content-Length: 0",
				"",
				"",
			),
		},
		{
			"compact", &sip.RenderOptions{Compact: true},
			lines(
				"SIP/2.0 486 Busy Here",
				"v: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
				"f: <sip:alice@atlanta.com>;tag=1928301774",
				"t: <sip:bob@biloxi.com>;tag=a6c85cf",
				"i: a84b4c76e66710",
				"CSeq: 314159 INVITE",
				"l: 0",
				"",
				"",
			),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(res.Render(c.opts), c.want); diff != "" {
				t.Errorf("res.Render() mismatch (-got +want):\n%v", diff)
			}
		})
	}

	if got, want := res.String(), "SIP/2.0 486 Busy Here"; got != want {
		t.Errorf("res.String() = %q, want %q", got, want)
	}
	if got, want := fmt.Sprintf("%q", res), `"SIP/2.0 486 Busy Here"`; got != want {
		t.Errorf("fmt.Sprintf(%%q) = %s, want %s", got, want)
	}
	if err := res.Validate(); err != nil {
		t.Errorf("res.Validate() = %v, want nil", err)
	}

	bad := res.Clone().(*sip.Response) //nolint:forcetypeassert
	bad.Status = 99
	if err := bad.Validate(); !errors.Is(err, sip.ErrInvalidMessage) {
		t.Errorf("bad.Validate() = %v, want %v", err, sip.ErrInvalidMessage)
	}
}
