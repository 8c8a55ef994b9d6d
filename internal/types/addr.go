package types

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Addr is a container for host and optional port.
// The host text is kept exactly as received, IPv6 references keep their brackets.
type Addr struct {
	host    string
	ip      net.IP
	port    uint16
	hasPort bool
}

// Host returns an [Addr] containing the provided host and no port.
// A bare IPv6 address is wrapped into brackets.
func Host(host string) Addr {
	ip := parseIP(host)
	if ip != nil && ip.To4() == nil && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}
	return Addr{host: host, ip: ip}
}

// HostPort returns an [Addr] containing the provided host and port.
func HostPort(host string, port uint16) Addr {
	addr := Host(host)
	addr.port = port
	addr.hasPort = true
	return addr
}

func parseIP(host string) net.IP {
	ip := net.ParseIP(strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"))
	if v := ip.To4(); v != nil {
		ip = v
	}
	return ip
}

// ParseAddr parses a "host[:port]" string into an [Addr].
func ParseAddr(s string) (Addr, error) {
	if s == "" {
		return Addr{}, errtrace.Wrap(errorutil.NewGrammarError(0, "empty address"))
	}
	l := lex.New([]rune(s))
	addr, err := ReadAddr(l, false)
	if err != nil {
		return Addr{}, errtrace.Wrap(err)
	}
	if !l.Done() {
		return Addr{}, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after address", string(l.Rest())))
	}
	return addr, nil
}

// ReadAddr reads host[":" port] at the lexer cursor.
// A host is either an IPv6 reference in brackets, taken verbatim, or a hostname/IPv4 address.
// When unescape is true, escaped octets in a hostname are decoded before validation.
func ReadAddr(l *lex.Lexer, unescape bool) (Addr, error) {
	mark := l.Mark()
	var host string
	if l.LA(1) == '[' {
		start := l.Pos()
		for c := l.LA(1); c != ']'; c = l.LA(1) {
			if c == lex.EOF {
				l.Rewind(mark)
				return Addr{}, errtrace.Wrap(errorutil.NewGrammarError(start, "unterminated IPv6 reference"))
			}
			l.Consume(1)
		}
		l.Consume(1)
		host = string(l.Slice(start, l.Pos()))
	} else {
		host = l.Scan(func(c rune) bool { return grammar.IsHostChar(c) || c == '%' })
		if unescape {
			var err error
			if host, err = grammar.Decode(host); err != nil {
				l.Rewind(mark)
				return Addr{}, errtrace.Wrap(err)
			}
		}
	}
	if !grammar.IsHost(host) {
		l.Rewind(mark)
		return Addr{}, errtrace.Wrap(errorutil.NewGrammarError(mark, "invalid host %q", host))
	}

	addr := Addr{host: host, ip: parseIP(host)}
	if l.LA(1) == ':' {
		l.Consume(1)
		port, err := l.ShortNumber()
		if err != nil {
			l.Rewind(mark)
			return Addr{}, errtrace.Wrap(err)
		}
		addr.port = port
		addr.hasPort = true
	}
	return addr, nil
}

// Host returns the hostname portion of the address as provided during construction or parsing.
func (addr Addr) Host() string { return addr.host }

// IP returns the parsed IP representation when the host is an IP literal, otherwise nil.
func (addr Addr) IP() net.IP { return addr.ip }

// Port returns the port, in case it is set, and bool flag indicating whether it is set.
func (addr Addr) Port() (uint16, bool) { return addr.port, addr.hasPort }

// String formats the address as host[:port].
func (addr Addr) String() string {
	if !addr.hasPort {
		return addr.host
	}
	return addr.host + ":" + strconv.Itoa(int(addr.port))
}

// Format implements fmt.Formatter to support custom formatting verbs for Addr values.
func (addr Addr) Format(f fmt.State, verb rune) {
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

		type hideMethods Addr
		type Addr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Addr(addr))
		return
	}
}

// Clone returns a deep copy of the address including the underlying IP slice.
func (addr Addr) Clone() Addr {
	addr.ip = slices.Clone(addr.ip)
	return addr
}

// Equal reports whether the address equals the provided value, accepting Addr and *Addr.
func (addr Addr) Equal(val any) bool {
	var other Addr
	switch v := val.(type) {
	case Addr:
		other = v
	case *Addr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	var hostMatch bool
	switch {
	case addr.ip == nil && other.ip == nil:
		hostMatch = util.EqFold(addr.host, other.host)
	case addr.ip != nil && other.ip != nil:
		hostMatch = addr.ip.Equal(other.ip)
	default:
		return false
	}

	return hostMatch && addr.port == other.port && addr.hasPort == other.hasPort
}

// IsValid reports whether the address contains a syntactically valid host component.
func (addr Addr) IsValid() bool { return grammar.IsHost(addr.host) }

// IsZero reports whether the address has zero host, IP and port information.
func (addr Addr) IsZero() bool { return addr.host == "" && addr.ip == nil && !addr.hasPort }
