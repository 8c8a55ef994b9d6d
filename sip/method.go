package sip

import (
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
)

// LookupMethod returns the method named by b.
// Standard methods always resolve to the same constant, other names are interned,
// so repeated lookups of one name share the string data.
// Method names are case-sensitive.
func LookupMethod(b []byte) RequestMethod {
	if m, ok := types.LookupRequestMethod(b); ok {
		return m
	}
	return RequestMethod(lex.InternString(string(b)))
}
