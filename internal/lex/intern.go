package lex

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ghettovoice/sipwire/internal/textbuf"
	"github.com/ghettovoice/sipwire/internal/util"
)

const (
	internCacheSize = 4096
	maxInternLen    = 64
)

var internCache = util.Must2(lru.New[uint64, string](internCacheSize))

// Intern returns a string with the contents of r, reusing a previously returned string
// with the same contents when it is still held by the shared cache.
// Long inputs are not cached. Intern is safe for concurrent use.
func Intern(r []rune) string {
	if len(r) == 0 {
		return ""
	}
	if len(r) > maxInternLen {
		return string(r)
	}
	k := textbuf.Hash(r)
	if s, ok := internCache.Get(k); ok && sameRunes(s, r) {
		return s
	}
	s := string(r)
	internCache.Add(k, s)
	return s
}

// InternString is like [Intern] for a string input.
func InternString(s string) string {
	if s == "" || len(s) > maxInternLen {
		return s
	}
	return Intern([]rune(s))
}

func sameRunes(s string, r []rune) bool {
	i := 0
	for _, c := range s {
		if i >= len(r) || r[i] != c {
			return false
		}
		i++
	}
	return i == len(r)
}
