// Package textbuf provides pooled rune buffers decoded from network bytes.
package textbuf

//go:generate go tool errtrace -w .

import (
	"math/bits"
	"slices"
	"sync"
	"unicode/utf8"

	"braces.dev/errtrace"
	"github.com/cespare/xxhash/v2"

	"github.com/ghettovoice/sipwire/internal/errorutil"
)

// ErrIllegalByteSequence is returned when strict decoding meets a malformed UTF-8 sequence.
const ErrIllegalByteSequence errorutil.Error = "illegal byte sequence"

const (
	minClass = 4  // 16 runes
	maxClass = 20 // 1M runes
)

var pools [maxClass + 1]sync.Pool

// Buffer is a pooled rune buffer with a logical length.
// Its capacity is always a power of two not less than the length.
// A Buffer must not be used after [Buffer.Free].
type Buffer struct {
	runes []rune
	n     int
	freed bool
}

func sizeClass(n int) int {
	if n <= 1<<minClass {
		return minClass
	}
	return bits.Len(uint(n - 1))
}

// Get returns a buffer of logical length n taken from the pool.
// The contents of the returned buffer are undefined.
func Get(n int) *Buffer {
	if n < 0 {
		panic(errorutil.NewInvalidArgumentError("negative buffer length %d", n))
	}
	c := sizeClass(n)
	if c > maxClass {
		return &Buffer{runes: make([]rune, 1<<c), n: n}
	}
	if v := pools[c].Get(); v != nil {
		b := v.(*Buffer) //nolint:forcetypeassert
		b.n = n
		b.freed = false
		return b
	}
	return &Buffer{runes: make([]rune, 1<<c), n: n}
}

// Free returns the buffer to the pool.
// Calling any method of b after Free panics.
func (b *Buffer) Free() {
	b.mustLive()
	b.freed = true
	if c := sizeClass(cap(b.runes)); c <= maxClass && 1<<c == cap(b.runes) {
		pools[c].Put(b)
	}
}

func (b *Buffer) mustLive() {
	if b == nil {
		panic("textbuf: nil buffer")
	}
	if b.freed {
		panic("textbuf: use of freed buffer")
	}
}

// FromString returns a pooled buffer holding the runes of s.
func FromString(s string) *Buffer {
	b := Get(utf8.RuneCountInString(s))
	i := 0
	for _, r := range s {
		b.runes[i] = r
		i++
	}
	return b
}

// FromRunes returns a pooled buffer holding a copy of r.
func FromRunes(r []rune) *Buffer {
	b := Get(len(r))
	copy(b.runes, r)
	return b
}

// FromBytes decodes p into a pooled buffer.
//
// Bytes below 0x80 are copied as is. A lead byte announces a sequence of 2 to 6 octets
// following the historical UTF-8 layout. If the sequence is malformed, FromBytes returns
// [ErrIllegalByteSequence] when strict is true, otherwise the lead byte is taken as a Latin-1 character.
func FromBytes(p []byte, strict bool) (*Buffer, error) {
	b := Get(len(p))
	n := 0
	for i := 0; i < len(p); {
		c := p[i]
		if c < utf8.RuneSelf {
			b.runes[n] = rune(c)
			n++
			i++
			continue
		}

		r, size := decodeSeq(p[i:])
		if size == 0 {
			if strict {
				b.Free()
				return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrIllegalByteSequence, "byte 0x%02X at %d", c, i))
			}
			r, size = rune(c), 1
		}
		b.runes[n] = r
		n++
		i += size
	}
	b.n = n
	return b, nil
}

// decodeSeq decodes one multi-octet sequence at the start of p.
// It returns size 0 if the sequence is malformed.
func decodeSeq(p []byte) (rune, int) {
	c := p[0]
	var size int
	var r rune
	switch {
	case c&0xE0 == 0xC0:
		size, r = 2, rune(c&0x1F)
	case c&0xF0 == 0xE0:
		size, r = 3, rune(c&0x0F)
	case c&0xF8 == 0xF0:
		size, r = 4, rune(c&0x07)
	case c&0xFC == 0xF8:
		size, r = 5, rune(c&0x03)
	case c&0xFE == 0xFC:
		size, r = 6, rune(c&0x01)
	default:
		return 0, 0
	}
	if len(p) < size {
		return 0, 0
	}
	for _, t := range p[1:size] {
		if t&0xC0 != 0x80 {
			return 0, 0
		}
		r = r<<6 | rune(t&0x3F)
	}
	if r > utf8.MaxRune || r < 0 {
		r = utf8.RuneError
	}
	return r, size
}

// Use decodes p into a pooled buffer, calls fn with it and frees the buffer when fn returns or panics.
// The buffer must not be retained by fn.
func Use(p []byte, strict bool, fn func(b *Buffer) error) error {
	b, err := FromBytes(p, strict)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer b.Free()
	return errtrace.Wrap(fn(b))
}

// Len returns the logical length of the buffer.
func (b *Buffer) Len() int {
	b.mustLive()
	return b.n
}

// Cap returns the capacity of the backing storage.
func (b *Buffer) Cap() int {
	b.mustLive()
	return cap(b.runes)
}

// Runes returns the runes in [0, Len()).
// The slice is only valid until the buffer is freed.
func (b *Buffer) Runes() []rune {
	b.mustLive()
	return b.runes[:b.n]
}

// Clone returns a deep copy of b taken from the pool.
func (b *Buffer) Clone() *Buffer {
	b.mustLive()
	return FromRunes(b.runes[:b.n])
}

// Equal reports whether b has the same contents as v.
// v may be a *Buffer, a []rune or a string.
func (b *Buffer) Equal(v any) bool {
	b.mustLive()
	switch other := v.(type) {
	case *Buffer:
		if other == nil {
			return false
		}
		return slices.Equal(b.Runes(), other.Runes())
	case []rune:
		return slices.Equal(b.Runes(), other)
	case string:
		i := 0
		for _, r := range other {
			if i >= b.n || b.runes[i] != r {
				return false
			}
			i++
		}
		return i == b.n
	default:
		return false
	}
}

// Hash returns xxhash of the buffer contents.
func (b *Buffer) Hash() uint64 {
	b.mustLive()
	return Hash(b.runes[:b.n])
}

func (b *Buffer) String() string {
	b.mustLive()
	return string(b.runes[:b.n])
}

// Hash returns xxhash of the UTF-8 encoding of r.
func Hash(r []rune) uint64 {
	var (
		d   xxhash.Digest
		tmp [64]byte
	)
	d.Reset()
	chunk := tmp[:0]
	for _, c := range r {
		if len(chunk)+utf8.UTFMax > len(tmp) {
			d.Write(chunk) //nolint:errcheck
			chunk = tmp[:0]
		}
		chunk = utf8.AppendRune(chunk, c)
	}
	d.Write(chunk) //nolint:errcheck
	return d.Sum64()
}
