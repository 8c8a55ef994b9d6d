package header_test

import (
	"fmt"
	"testing"

	"github.com/ghettovoice/sipwire/header"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		want   header.Kind
		wantOk bool
	}{
		{"Content-Length", header.KindContentLength, true},
		{"content-length", header.KindContentLength, true},
		{"CONTENT-LENGTH", header.KindContentLength, true},
		{"l", header.KindContentLength, true},
		{"L", header.KindContentLength, true},
		{"Call-ID", header.KindCallID, true},
		{"i", header.KindCallID, true},
		{"Allow", header.KindAllow, true},
		{"Allow-Events", header.KindAllowEvents, true},
		{"u", header.KindAllowEvents, true},
		{"WWW-Authenticate", header.KindWWWAuthenticate, true},
		{"o", header.KindEvent, true},
		{"r", header.KindReferTo, true},
		{"RAck", header.KindRAck, true},
		{"Content", header.KindUnknown, false},
		{"Content-Lengths", header.KindUnknown, false},
		{"X-Custom", header.KindUnknown, false},
		{"x", header.KindUnknown, false},
		{"", header.KindUnknown, false},
		{"Via1", header.KindUnknown, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, ok := header.Lookup(c.name)
			if got != c.want || ok != c.wantOk {
				t.Errorf("header.Lookup(%q) = (%v, %v), want (%v, %v)", c.name, got, ok, c.want, c.wantOk)
			}
			got, ok = header.LookupRunes([]rune(c.name))
			if got != c.want || ok != c.wantOk {
				t.Errorf("header.LookupRunes(%q) = (%v, %v), want (%v, %v)", c.name, got, ok, c.want, c.wantOk)
			}
		})
	}
}

func TestKind_Props(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind                     header.Kind
		name, compact            header.Name
		wantNested, wantCritical bool
	}{
		{header.KindVia, "Via", "v", true, true},
		{header.KindContact, "Contact", "m", true, true},
		{header.KindCSeq, "CSeq", "CSeq", false, true},
		{header.KindContentLength, "Content-Length", "l", false, true},
		{header.KindSubject, "Subject", "s", false, false},
		{header.KindAllow, "Allow", "Allow", true, false},
		{header.KindDate, "Date", "Date", false, false},
		{header.KindUnknown, "", "", false, false},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			t.Parallel()

			if got := c.kind.Name(); got != c.name {
				t.Errorf("kind.Name() = %q, want %q", got, c.name)
			}
			if got := c.kind.CompactName(); got != c.compact {
				t.Errorf("kind.CompactName() = %q, want %q", got, c.compact)
			}
			if got := c.kind.IsNested(); got != c.wantNested {
				t.Errorf("kind.IsNested() = %v, want %v", got, c.wantNested)
			}
			if got := c.kind.IsCritical(); got != c.wantCritical {
				t.Errorf("kind.IsCritical() = %v, want %v", got, c.wantCritical)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, wantType string
	}{
		{"l", "header.ContentLength"},
		{"Via", "header.Via"},
		{"from", "*header.From"},
		{"WWW-Authenticate", "*header.WWWAuthenticate"},
		{"X-Custom", "*header.Any"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := fmt.Sprintf("%T", header.New(c.name)); got != c.wantType {
				t.Errorf("header.New(%q) type = %s, want %s", c.name, got, c.wantType)
			}
			if got := fmt.Sprintf("%T", header.NewRunes([]rune(c.name))); got != c.wantType {
				t.Errorf("header.NewRunes(%q) type = %s, want %s", c.name, got, c.wantType)
			}
		})
	}

	want := &header.Any{Name: "X-Custom"}
	if got := header.New("X-Custom"); !got.Equal(want) {
		t.Errorf("header.New(\"X-Custom\") = %#v, want %#v", got, want)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := header.KindOf(header.ContentLength(5)); got != header.KindContentLength {
		t.Errorf("header.KindOf(ContentLength) = %v, want %v", got, header.KindContentLength)
	}
	if got := header.KindOf(&header.Any{Name: "Via"}); got != header.KindUnknown {
		t.Errorf("header.KindOf(*Any) = %v, want %v", got, header.KindUnknown)
	}
	if got := header.KindOf(nil); got != header.KindUnknown {
		t.Errorf("header.KindOf(nil) = %v, want %v", got, header.KindUnknown)
	}
}

func TestCanonicName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want header.Name
	}{
		{"content-length", "Content-Length"},
		{"l", "Content-Length"},
		{"call-id", "Call-ID"},
		{"CSEQ", "CSeq"},
		{"www-authenticate", "WWW-Authenticate"},
		{" via ", "Via"},
		{"x-custom-header", "X-Custom-Header"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			if got := header.CanonicName(c.in); got != c.want {
				t.Errorf("header.CanonicName(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}

	if !header.Name("l").Equal(header.Name("CONTENT-LENGTH")) {
		t.Error("Name(\"l\").Equal(\"CONTENT-LENGTH\") = false, want true")
	}
}
