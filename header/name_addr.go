package header

import (
	"fmt"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// NameAddr represents a single element in From, To, Contact, Reply-To, Route headers.
// It contains a display name, URI, and parameters.
type NameAddr struct {
	DisplayName string
	URI         uri.URI
	Params      Values
}

// String returns the string representation of the NameAddr.
// The URI is always enclosed in angle brackets.
func (addr NameAddr) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	uri.NameAddr{DisplayName: addr.DisplayName, URI: addr.URI}.RenderTo(sb, nil) //nolint:errcheck
	renderHdrParams(sb, addr.Params, false)                                     //nolint:errcheck

	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the NameAddr.
func (addr NameAddr) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, addr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, addr.String())
			return
		}

		type hideMethods NameAddr
		type NameAddr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), NameAddr(addr))
		return
	}
}

// Equal compares this NameAddr with another for equality.
// Display names are ignored.
func (addr NameAddr) Equal(val any) bool {
	var other NameAddr
	switch v := val.(type) {
	case NameAddr:
		other = v
	case *NameAddr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return types.IsEqual(addr.URI, other.URI) &&
		compareHdrParams(addr.Params, other.Params, map[string]bool{
			"q":       true,
			"tag":     true,
			"expires": true,
		})
}

// IsValid checks whether the NameAddr is syntactically valid.
func (addr NameAddr) IsValid() bool {
	return types.IsValid(addr.URI) && validateHdrParams(addr.Params)
}

// IsZero checks whether the NameAddr is empty.
func (addr NameAddr) IsZero() bool {
	return addr.DisplayName == "" && addr.URI == nil && len(addr.Params) == 0
}

// Clone returns a copy of the NameAddr.
func (addr NameAddr) Clone() NameAddr {
	addr.URI = types.Clone[uri.URI](addr.URI)
	addr.Params = addr.Params.Clone()
	return addr
}

// Tag returns the "tag" parameter.
func (addr NameAddr) Tag() (string, bool) {
	return addr.Params.Last("tag")
}

// Expires returns the "expires" parameter as a duration.
func (addr NameAddr) Expires() (time.Duration, bool) {
	v, ok := addr.Params.Last("expires")
	if !ok {
		return 0, false
	}
	sec, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(sec) * time.Second, true
}

// Q returns the "q" parameter value.
func (addr NameAddr) Q() (float64, bool) {
	v, ok := addr.Params.Last("q")
	if !ok {
		return 0, false
	}
	q, err := strconv.ParseFloat(v, 64)
	if err != nil || q < 0 || q > 1 {
		return 0, false
	}
	return q, true
}

// parseNameAddr parses `( name-addr / addr-spec ) *( SEMI generic-param )`.
// Parameters following a URI without angle brackets belong to the header (RFC 3261 Section 20).
func parseNameAddr(l *lex.Lexer, p *uri.Parser) (NameAddr, error) {
	na, err := p.ParseNameAddr(l)
	if err != nil {
		return NameAddr{}, errtrace.Wrap(err)
	}
	params, err := parseHdrParams(l, p)
	if err != nil {
		return NameAddr{}, errtrace.Wrap(err)
	}
	return NameAddr{DisplayName: na.DisplayName, URI: na.URI, Params: params}, nil
}
