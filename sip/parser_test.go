package sip_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/sip"
)

func lines(ls ...string) string { return strings.Join(ls, "\r\n") }

var inviteMsg = lines(
	"INVITE sip:bob@biloxi.com SIP/2.0",
	"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
	"Max-Forwards: 70",
	"To: Bob <sip:bob@biloxi.com>",
	"From: Alice <sip:alice@atlanta.com>;tag=1928301774",
	"Call-ID: a84b4c76e66710@pc33.atlanta.com",
	"CSeq: 314159 INVITE",
	"Contact: <sip:alice@pc33.atlanta.com>",
	"Content-Type: application/sdp",
	"Content-Length: 4",
	"",
	"v=0\n",
)

var inviteRendered = lines(
	"INVITE sip:bob@biloxi.com SIP/2.0",
	"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
	"Max-Forwards: 70",
	"From: Alice <sip:alice@atlanta.com>;tag=1928301774",
	"To: Bob <sip:bob@biloxi.com>",
	"Call-ID: a84b4c76e66710@pc33.atlanta.com",
	"CSeq: 314159 INVITE",
	"Contact: <sip:alice@pc33.atlanta.com>",
	"Content-Type: application/sdp",
	"Content-Length: 4",
	"",
	"v=0\n",
)

func checkParseErr(t *testing.T, got, want *sip.ParseError) {
	t.Helper()

	switch {
	case want == nil && got == nil:
		return
	case want == nil:
		t.Errorf("p.Err() = %v, want nil", got)
	case got == nil:
		t.Errorf("p.Err() = nil, want %v", want)
	case got.Code != want.Code || got.State != want.State || !errors.Is(got, want.Err):
		t.Errorf("p.Err() = %v (state %v), want %v (state %v)", got, got.State, want, want.State)
	}
}

func renderMsg(msg sip.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Render(nil)
}

func TestPacketParser_Parse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr *sip.ParseError
	}{
		{"empty", "", "", nil},
		{"empty lines", "\r\n\r\n\n", "", nil},
		{"invite", inviteMsg, inviteRendered, nil},
		{"leading empty lines", "\r\n\r\n" + inviteMsg, inviteRendered, nil},
		{
			"response",
			lines(
				"SIP/2.0 180 Ringing",
				"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
				"CSeq: 1 INVITE",
				"Content-Length: 0",
				"",
				"",
			),
			lines(
				"SIP/2.0 180 Ringing",
				"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds",
				"CSeq: 1 INVITE",
				"Content-Length: 0",
				"",
				"",
			),
			nil,
		},
		{
			"response with empty reason",
			"SIP/2.0 200\r\nContent-Length: 0\r\n\r\n",
			"SIP/2.0 200 \r\nContent-Length: 0\r\n\r\n",
			nil,
		},
		{
			"lone lf and cr",
			"OPTIONS sip:bob@b.example.com SIP/2.0\nCall-ID: abc\rContent-Length: 0\n\n",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Call-ID: abc", "Content-Length: 0", "", ""),
			nil,
		},
		{
			"compact and folded headers",
			lines(
				"OPTIONS sip:bob@b.example.com SIP/2.0",
				"v: SIP/2.0/UDP",
				"  a.example.com;branch=z9hG4bK1",
				"i: abc",
				"l: 0",
				"",
				"",
			),
			lines(
				"OPTIONS sip:bob@b.example.com SIP/2.0",
				"Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1",
				"Call-ID: abc",
				"Content-Length: 0",
				"",
				"",
			),
			nil,
		},
		{
			"missing content length takes rest",
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "", "hello"),
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "", "hello"),
			nil,
		},
		{
			"bytes after body ignored",
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "Content-Length: 2", "", "hello"),
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "Content-Length: 2", "", "he"),
			nil,
		},
		{
			"body without content type dropped",
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Length: 5", "", "hello"),
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Length: 5", "", ""),
			nil,
		},
		{
			"incomplete body",
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "Content-Length: 10", "", "1234"),
			lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "Content-Length: 10", "", "1234"),
			&sip.ParseError{Code: sip.ResponseStatusBadRequest, State: sip.ParseStateBody, Err: sip.ErrIncompleteBody},
		},
		{"malformed request line", lines("INVITE qwerty", "Content-Length: 0", "", ""), "", nil},
		{"malformed request uri", lines("INVITE <sip:bob@b.example.com> SIP/2.0", "Content-Length: 0", "", ""), "", nil},
		{"malformed request proto", lines("INVITE sip:bob@b.example.com HTTP/1.1", "", ""), "", nil},
		{"malformed status line", lines("SIP/2.0 abc OK", "Content-Length: 0", "", ""), "", nil},
		{"malformed status code", lines("SIP/2.0 2000 OK", "Content-Length: 0", "", ""), "", nil},
		{
			"invalid critical header",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "CSeq: abc", "Content-Length: 0", "", ""),
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "CSeq: abc", "Content-Length: 0", "", ""),
			&sip.ParseError{Code: sip.ResponseStatusBadRequest, State: sip.ParseStateHeaders, Err: sip.ErrInvalidHeader},
		},
		{
			"invalid optional header",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Expires: soon", "Content-Length: 0", "", ""),
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Expires: soon", "Content-Length: 0", "", ""),
			nil,
		},
		{
			"extension header",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "x-custom-header:  foo, bar ", "Content-Length: 0", "", ""),
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "X-Custom-Header: foo, bar", "Content-Length: 0", "", ""),
			nil,
		},
		{
			"line without colon ignored",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "qwerty", "Content-Length: 0", "", ""),
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Content-Length: 0", "", ""),
			nil,
		},
		{
			"illegal byte sequence",
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Subject: caf\xe9", "Content-Length: 0", "", ""),
			lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Content-Length: 0", "", ""),
			&sip.ParseError{Code: sip.ResponseStatusBadRequest, State: sip.ParseStateHeaders, Err: sip.ErrIllegalByteSequence},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			p := sip.NewPacketParser(nil)
			msg := p.Parse([]byte(c.in))
			if diff := cmp.Diff(renderMsg(msg), c.want); diff != "" {
				t.Errorf("p.Parse(%q) = %q, want %q\ndiff (-got +want):\n%v",
					util.Ellipsis(c.in, 35), renderMsg(msg), c.want, diff,
				)
			}
			checkParseErr(t, p.Err(), c.wantErr)
			if p.HasMore() {
				t.Error("p.HasMore() = true, want false")
			}
		})
	}
}

func TestPacketParser_Parse_Invite(t *testing.T) {
	t.Parallel()

	p := sip.NewPacketParser(nil)
	msg := p.Parse([]byte(inviteMsg))
	req, ok := msg.(*sip.Request)
	if !ok {
		t.Fatalf("p.Parse(invite) = %T, want *sip.Request", msg)
	}

	if req.Method != sip.RequestMethodInvite {
		t.Errorf("req.Method = %q, want %q", req.Method, sip.RequestMethodInvite)
	}
	if got, want := req.URI.Render(nil), "sip:bob@biloxi.com"; got != want {
		t.Errorf("req.URI = %q, want %q", got, want)
	}
	if req.Proto != sip.Proto20 {
		t.Errorf("req.Proto = %v, want %v", req.Proto, sip.Proto20)
	}
	if got, want := string(req.Body), "v=0\n"; got != want {
		t.Errorf("req.Body = %q, want %q", got, want)
	}
	if ct := req.MessageContentType(); ct == nil || ct.Render(nil) != "Content-Type: application/sdp" {
		t.Errorf("req.MessageContentType() = %v, want application/sdp", ct)
	}
	if from, ok := req.Headers.From(); !ok {
		t.Error("req.Headers.From() not found")
	} else if tag, _ := from.Tag(); tag != "1928301774" {
		t.Errorf("from.Tag() = %q, want \"1928301774\"", tag)
	}
	if cseq, ok := req.Headers.CSeq(); !ok || cseq.SeqNum != 314159 || cseq.Method != sip.RequestMethodInvite {
		t.Errorf("req.Headers.CSeq() = (%v, %v), want (314159 INVITE, true)", cseq, ok)
	}
	if hop, ok := util.IterFirst(req.Headers.Via()); !ok {
		t.Error("req.Headers.Via() is empty")
	} else if branch, _ := hop.Branch(); branch != "z9hG4bK776asdhds" {
		t.Errorf("hop.Branch() = %q, want \"z9hG4bK776asdhds\"", branch)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("req.Validate() = %v, want nil", err)
	}
}

func TestPacketParser_Parse_DoesNotRetainInput(t *testing.T) {
	t.Parallel()

	b := []byte(inviteMsg)
	p := sip.NewPacketParser(nil)
	msg := p.Parse(b)
	for i := range b {
		b[i] = 'x'
	}

	if diff := cmp.Diff(renderMsg(msg), inviteRendered); diff != "" {
		t.Errorf("message changed after input reuse\ndiff (-got +want):\n%v", diff)
	}
}

func TestPacketParser_Parse_BadRequest(t *testing.T) {
	t.Parallel()

	p := sip.NewPacketParser(&sip.ParserOptions{SendBadRequestForMalformedStartLine: true})

	msg := p.Parse([]byte(lines("INVITE qwerty", "Call-ID: abc", "Content-Length: 0", "", "")))
	req, ok := msg.(*sip.Request)
	if !ok {
		t.Fatalf("p.Parse() = %T, want *sip.Request", msg)
	}
	if req.Method != sip.RequestMethodIllegal {
		t.Errorf("req.Method = %q, want %q", req.Method, sip.RequestMethodIllegal)
	}
	if got, ok := req.Headers.CallID(); !ok || got != "abc" {
		t.Errorf("req.Headers.CallID() = (%q, %v), want (\"abc\", true)", got, ok)
	}
	checkParseErr(t, p.Err(), &sip.ParseError{
		Code:  sip.ResponseStatusBadRequest,
		State: sip.ParseStateStart,
		Err:   sip.ErrMalformedStartLine,
	})
	if got, want := p.Err().Reason, sip.ResponseReason("Bad Request"); got != want {
		t.Errorf("p.Err().Reason = %q, want %q", got, want)
	}

	p.ClearError()
	if msg := p.Parse([]byte(lines("SIP/2.0 qwerty", "", ""))); msg != nil {
		t.Errorf("p.Parse(malformed status line) = %v, want nil", msg)
	}
	checkParseErr(t, p.Err(), nil)
}

func TestPacketParser_Parse_EntityTooLarge(t *testing.T) {
	t.Parallel()

	p := sip.NewPacketParser(&sip.ParserOptions{MaxContentLength: 4})
	msg := p.Parse([]byte(lines("MESSAGE sip:bob@b.example.com SIP/2.0", "Content-Type: text/plain", "Content-Length: 10", "", "0123456789")))
	if msg == nil {
		t.Fatal("p.Parse() = nil, want message")
	}
	if got, want := string(msg.MessageBody()), "0123"; got != want {
		t.Errorf("msg.MessageBody() = %q, want %q", got, want)
	}
	checkParseErr(t, p.Err(), &sip.ParseError{
		Code:  sip.ResponseStatusRequestEntityTooLarge,
		State: sip.ParseStateBody,
		Err:   sip.ErrEntityTooLarge,
	})
	if got, want := p.Err().Reason, sip.ResponseReason("Content-Length too large"); got != want {
		t.Errorf("p.Err().Reason = %q, want %q", got, want)
	}
}

func TestPacketParser_Parse_FirstErrorWins(t *testing.T) {
	t.Parallel()

	p := sip.NewPacketParser(nil)
	p.Parse([]byte(lines("OPTIONS sip:bob@b.example.com SIP/2.0", "CSeq: abc", "Max-Forwards: many", "", "")))
	if err := p.Err(); err == nil || !errors.Is(err, sip.ErrInvalidHeader) || !strings.Contains(err.Error(), "CSeq") {
		t.Errorf("p.Err() = %v, want CSeq error", err)
	}

	// the error stays latched until cleared
	p.Parse([]byte(lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Content-Length: 0", "", "")))
	if err := p.Err(); err == nil || !strings.Contains(err.Error(), "CSeq") {
		t.Errorf("p.Err() = %v, want latched CSeq error", err)
	}
	p.ClearError()
	if err := p.Err(); err != nil {
		t.Errorf("p.Err() = %v after ClearError, want nil", err)
	}
}

func TestPacketParser_Parse_ListValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		line      string
		hdr       sip.HeaderName
		wantTypes []string
		wantErr   *sip.ParseError
	}{
		{
			name:      "valid via list",
			line:      "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1, SIP/2.0/TCP b.example.com;branch=z9hG4bK2",
			hdr:       "Via",
			wantTypes: []string{"header.Via"},
		},
		{
			name:      "via list with bad hop",
			line:      "Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1, @@@bad",
			hdr:       "Via",
			wantTypes: []string{"header.Via", "*header.Any"},
			wantErr: &sip.ParseError{
				Code:  sip.ResponseStatusBadRequest,
				State: sip.ParseStateHeaders,
				Err:   sip.ErrInvalidHeader,
			},
		},
		{
			name:      "allow list with bad method",
			line:      "Allow: INVITE, ACK, @@@",
			hdr:       "Allow",
			wantTypes: []string{"header.Allow", "header.Allow", "*header.Any"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			p := sip.NewPacketParser(nil)
			msg := p.Parse([]byte(lines("OPTIONS sip:bob@b.example.com SIP/2.0", c.line, "Content-Length: 0", "", "")))
			if msg == nil {
				t.Fatal("p.Parse() = nil, want message")
			}

			var types []string
			for _, hdr := range msg.MessageHeaders().Get(c.hdr) {
				types = append(types, fmt.Sprintf("%T", hdr))
			}
			if diff := cmp.Diff(types, c.wantTypes); diff != "" {
				t.Errorf("%s header types = %q\ndiff (-got +want):\n%v", c.hdr, types, diff)
			}
			checkParseErr(t, p.Err(), c.wantErr)
		})
	}

	t.Run("valid hop is kept", func(t *testing.T) {
		t.Parallel()

		p := sip.NewPacketParser(nil)
		msg := p.Parse([]byte(lines("OPTIONS sip:bob@b.example.com SIP/2.0",
			"Via: SIP/2.0/UDP a.example.com;branch=z9hG4bK1, @@@bad", "Content-Length: 0", "", "")))
		var hosts []string
		for hop := range msg.MessageHeaders().Via() {
			hosts = append(hosts, hop.Addr.String())
		}
		if diff := cmp.Diff(hosts, []string{"a.example.com"}); diff != "" {
			t.Errorf("via hosts = %q\ndiff (-got +want):\n%v", hosts, diff)
		}
	})
}

func TestPacketParser_Parse_AcceptNonUTF8(t *testing.T) {
	t.Parallel()

	p := sip.NewPacketParser(&sip.ParserOptions{AcceptNonUTF8: true})
	msg := p.Parse([]byte(lines("OPTIONS sip:bob@b.example.com SIP/2.0", "Subject: caf\xe9", "Content-Length: 0", "", "")))
	if msg == nil {
		t.Fatal("p.Parse() = nil, want message")
	}
	hs := msg.MessageHeaders().Get("Subject")
	if len(hs) != 1 {
		t.Fatalf("Subject headers = %v, want one", hs)
	}
	if got, want := hs[0].Render(nil), "Subject: café"; got != want {
		t.Errorf("Subject = %q, want %q", got, want)
	}
	checkParseErr(t, p.Err(), nil)
}

func TestPacketParser_Parse_UnescapesURI(t *testing.T) {
	t.Parallel()

	in := []byte(lines("OPTIONS sip:b%6Fb@b.example.com SIP/2.0", "Content-Length: 0", "", ""))

	msg := sip.NewPacketParser(nil).Parse(in)
	if got, want := msg.(*sip.Request).URI.Render(nil), "sip:bob@b.example.com"; got != want { //nolint:forcetypeassert
		t.Errorf("URI = %q, want %q", got, want)
	}
}

func TestPacketParserFromContext(t *testing.T) {
	t.Parallel()

	if _, ok := sip.PacketParserFromContext(t.Context()); ok {
		t.Error("sip.PacketParserFromContext(empty) ok = true, want false")
	}

	p := sip.NewPacketParser(nil)
	ctx := sip.ContextWithPacketParser(context.Background(), p)
	if got, ok := sip.PacketParserFromContext(ctx); !ok || got != p {
		t.Errorf("sip.PacketParserFromContext(ctx) = (%p, %v), want (%p, true)", got, ok, p)
	}
}

func TestLookupMethod(t *testing.T) {
	t.Parallel()

	std := []sip.RequestMethod{
		sip.RequestMethodAck,
		sip.RequestMethodBye,
		sip.RequestMethodCancel,
		sip.RequestMethodInfo,
		sip.RequestMethodInvite,
		sip.RequestMethodKeepAlive,
		sip.RequestMethodMessage,
		sip.RequestMethodNotify,
		sip.RequestMethodOptions,
		sip.RequestMethodPrack,
		sip.RequestMethodPublish,
		sip.RequestMethodRefer,
		sip.RequestMethodRegister,
		sip.RequestMethodSubscribe,
		sip.RequestMethodUpdate,
	}
	for _, m := range std {
		if got := sip.LookupMethod([]byte(m)); got != m {
			t.Errorf("sip.LookupMethod(%q) = %q, want the %q constant", m, got, m)
		}
	}

	m1 := sip.LookupMethod([]byte("FOOBAR"))
	m2 := sip.LookupMethod([]byte("FOOBAR"))
	if m1 != "FOOBAR" || unsafe.StringData(string(m1)) != unsafe.StringData(string(m2)) {
		t.Errorf("sip.LookupMethod(\"FOOBAR\") = %q, %q, want the same interned value", m1, m2)
	}
	if got := sip.LookupMethod([]byte("invite")); got == sip.RequestMethodInvite {
		t.Errorf("sip.LookupMethod(\"invite\") = %q, want case-sensitive lookup", got)
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	err := &sip.ParseError{
		Code:   sip.ResponseStatusBadRequest,
		Reason: "Bad Request",
		State:  sip.ParseStateHeaders,
		Err:    sip.ErrInvalidHeader,
	}
	if got, want := err.Error(), "400 Bad Request: invalid header"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, sip.ErrInvalidHeader) {
		t.Error("errors.Is(err, sip.ErrInvalidHeader) = false, want true")
	}
	if got, want := sip.ParseStateBody.String(), "body"; got != want {
		t.Errorf("sip.ParseStateBody.String() = %q, want %q", got, want)
	}
}
