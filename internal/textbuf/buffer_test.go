package textbuf_test

import (
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipwire/internal/textbuf"
)

func TestGet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n, wantCap int
	}{
		{0, 16},
		{1, 16},
		{16, 16},
		{17, 32},
		{100, 128},
		{1024, 1024},
		{1025, 2048},
	}
	for _, c := range cases {
		b := textbuf.Get(c.n)
		if got := b.Len(); got != c.n {
			t.Errorf("Get(%d).Len() = %d, want %d", c.n, got, c.n)
		}
		if got := b.Cap(); got != c.wantCap {
			t.Errorf("Get(%d).Cap() = %d, want %d", c.n, got, c.wantCap)
		}
		b.Free()
	}
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      []byte
		strict  bool
		want    string
		wantErr error
	}{
		{"ascii", []byte("INVITE sip:bob@biloxi.com SIP/2.0"), true, "INVITE sip:bob@biloxi.com SIP/2.0", nil},
		{"utf8", []byte("Grüße 世界"), true, "Grüße 世界", nil},
		{"empty", nil, true, "", nil},
		{"bad trail strict", []byte{'a', 0xC3, 'b'}, true, "", textbuf.ErrIllegalByteSequence},
		{"bad trail latin1", []byte{'a', 0xC3, 'b'}, false, "aÃb", nil},
		{"short seq strict", []byte{'a', 0xE4, 0xB8}, true, "", textbuf.ErrIllegalByteSequence},
		{"short seq latin1", []byte{0xE9, 't', 0xE9}, false, "été", nil},
		{"stray trail latin1", []byte{0xA9, '2', '0'}, false, "©20", nil},
		{"invalid lead strict", []byte{0xFF}, true, "", textbuf.ErrIllegalByteSequence},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			b, err := textbuf.FromBytes(c.in, c.strict)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("FromBytes() error = %v, want %v", err, c.wantErr)
			}
			if err != nil {
				return
			}
			defer b.Free()
			if got := b.String(); got != c.want {
				t.Errorf("FromBytes() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFromBytes_SixOctets(t *testing.T) {
	t.Parallel()

	// historical 5 and 6 octet forms decode to values above utf8.MaxRune
	b, err := textbuf.FromBytes([]byte{0xFC, 0x84, 0x80, 0x80, 0x80, 0x80, 'x'}, true)
	if err != nil {
		t.Fatalf("FromBytes() error = %v, want nil", err)
	}
	defer b.Free()
	if diff := cmp.Diff(b.Runes(), []rune{'�', 'x'}); diff != "" {
		t.Errorf("FromBytes() = %q, want %q\ndiff (-got +want):\n%v", b.Runes(), []rune{'�', 'x'}, diff)
	}
}

func TestBuffer_EqualHashClone(t *testing.T) {
	t.Parallel()

	b := textbuf.FromString("Via: SIP/2.0/UDP pc33.atlanta.com")
	defer b.Free()

	c := b.Clone()
	defer c.Free()

	if !b.Equal(c) {
		t.Errorf("b.Equal(clone) = false, want true")
	}
	if !b.Equal("Via: SIP/2.0/UDP pc33.atlanta.com") {
		t.Errorf("b.Equal(string) = false, want true")
	}
	if b.Equal("Via: SIP/2.0/UDP pc33.atlanta.co") {
		t.Errorf("b.Equal(prefix) = true, want false")
	}
	if b.Equal(42) {
		t.Errorf("b.Equal(int) = true, want false")
	}
	if got, want := b.Hash(), c.Hash(); got != want {
		t.Errorf("b.Hash() = %d, want %d", got, want)
	}
	if got, want := b.Hash(), xxhash.Sum64String(b.String()); got != want {
		t.Errorf("b.Hash() = %d, want %d", got, want)
	}

	// the capacity tail beyond the logical length must not affect equality or hash
	d := textbuf.Get(b.Len() + 5)
	defer d.Free()
	copy(d.Runes(), b.Runes())
	for i, r := range "xyzzy" {
		d.Runes()[b.Len()+i] = r
	}
	e := textbuf.FromRunes(d.Runes()[:b.Len()])
	defer e.Free()
	if !e.Equal(b) || e.Hash() != b.Hash() {
		t.Errorf("e = %q, want equal to %q", e, b)
	}
}

func TestUse(t *testing.T) {
	t.Parallel()

	var got string
	err := textbuf.Use([]byte("Max-Forwards: 70"), true, func(b *textbuf.Buffer) error {
		got = b.String()
		return nil
	})
	if err != nil {
		t.Fatalf("Use() error = %v, want nil", err)
	}
	if want := "Max-Forwards: 70"; got != want {
		t.Errorf("Use() saw %q, want %q", got, want)
	}

	errStop := errors.New("stop")
	if err := textbuf.Use([]byte("x"), true, func(*textbuf.Buffer) error { return errStop }); !errors.Is(err, errStop) {
		t.Errorf("Use() error = %v, want %v", err, errStop)
	}

	if err := textbuf.Use([]byte{0xC3}, true, func(*textbuf.Buffer) error { return nil }); !errors.Is(err, textbuf.ErrIllegalByteSequence) {
		t.Errorf("Use() error = %v, want %v", err, textbuf.ErrIllegalByteSequence)
	}
}

// not parallel: a parallel Get could take b back from the pool
func TestBuffer_UseAfterFree(t *testing.T) {
	b := textbuf.FromString("abc")
	b.Free()

	for name, fn := range map[string]func(){
		"Len":    func() { b.Len() },
		"String": func() { _ = b.String() },
		"Free":   func() { b.Free() },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s after Free did not panic", name)
				}
			}()
			fn()
		}()
	}
}
