package header

import (
	"fmt"
	"io"
	"net/netip"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// Via represents the Via header field.
// The Via header field indicates the transport used for the transaction and identifies the location
// where the response is to be sent.
type Via []ViaHop

// CanonicName returns the canonical name of the header.
func (Via) CanonicName() Name { return "Via" }

// CompactName returns the compact name of the header.
func (Via) CompactName() Name { return "v" }

// RenderTo writes the header to the provided writer.
func (hdr Via) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Via) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr Via) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr Via) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr Via) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Via) Format(f fmt.State, verb rune) {
	type hideMethods Via
	type Via hideMethods
	formatHdr(f, verb, hdr, Via(hdr))
}

// Clone returns a copy of the header.
func (hdr Via) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Via) Equal(val any) bool {
	var other Via
	switch v := val.(type) {
	case Via:
		other = v
	case *Via:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return equalHdrEntries(hdr, other)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Via) IsValid() bool { return validHdrEntries(hdr) }

func parseVia(l *lex.Lexer, p *uri.Parser) (Header, error) {
	list, err := parseList(l, false, func() (ViaHop, error) {
		return errtrace.Wrap2(parseViaHop(l, p))
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Via(list), nil
}

// ViaHop represents a single hop in the Via header.
type ViaHop struct {
	Proto     ProtoInfo
	Transport TransportProto
	Addr      Addr
	Params    Values
}

// String returns the string representation of the ViaHop.
func (hop ViaHop) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, hop.Proto, "/", hop.Transport, " ", hop.Addr)
	renderHdrParams(sb, hop.Params, false) //nolint:errcheck
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the ViaHop.
func (hop ViaHop) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, hop.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(hop.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, hop.String())
			return
		}

		type hideMethods ViaHop
		type ViaHop hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ViaHop(hop))
		return
	}
}

// Equal compares this ViaHop with another for equality.
func (hop ViaHop) Equal(val any) bool {
	var other ViaHop
	switch v := val.(type) {
	case ViaHop:
		other = v
	case *ViaHop:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return hop.Proto.Equal(other.Proto) &&
		hop.Transport.Equal(other.Transport) &&
		hop.Addr.Equal(other.Addr) &&
		compareHdrParams(hop.Params, other.Params, map[string]bool{
			"maddr":    true,
			"ttl":      true,
			"received": true,
			"rport":    true,
			"branch":   true,
		})
}

// IsValid checks whether the ViaHop is syntactically valid.
func (hop ViaHop) IsValid() bool {
	return hop.Proto.IsValid() &&
		hop.Transport.IsValid() &&
		hop.Addr.IsValid() &&
		validateHdrParams(hop.Params)
}

// IsZero checks whether the ViaHop is empty.
func (hop ViaHop) IsZero() bool {
	return hop.Proto.IsZero() &&
		hop.Transport == "" &&
		hop.Addr.IsZero() &&
		len(hop.Params) == 0
}

// Clone returns a copy of the ViaHop.
func (hop ViaHop) Clone() ViaHop {
	hop.Addr = hop.Addr.Clone()
	hop.Params = hop.Params.Clone()
	return hop
}

// Branch returns the "branch" parameter, the transaction identifier.
func (hop ViaHop) Branch() (string, bool) {
	return hop.Params.Last("branch")
}

var zeroAddr netip.Addr

// Received returns the "received" parameter as an IP address.
func (hop ViaHop) Received() (netip.Addr, bool) {
	val, ok := hop.Params.Last("received")
	if !ok {
		return zeroAddr, false
	}
	addr, err := netip.ParseAddr(val)
	if err != nil {
		return zeroAddr, false
	}
	return addr, true
}

func (hop ViaHop) RPort() (uint16, bool) {
	val, ok := hop.Params.Last("rport")
	if !ok {
		return 0, false
	}
	port, err := strconv.ParseUint(val, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(port), true
}

func (hop ViaHop) MAddr() (string, bool) {
	return hop.Params.Last("maddr")
}

func (hop ViaHop) TTL() (uint8, bool) {
	val, ok := hop.Params.Last("ttl")
	if !ok {
		return 0, false
	}
	ttl, err := strconv.ParseUint(val, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(ttl), true
}

// parseViaHop parses `sent-protocol LWS sent-by *( SEMI via-params )`,
// where sent-protocol is `protocol-name SLASH protocol-version SLASH transport`.
func parseViaHop(l *lex.Lexer, p *uri.Parser) (ViaHop, error) {
	var (
		hop ViaHop
		err error
	)
	if hop.Proto.Name, err = expectToken(l, "protocol name"); err != nil {
		return hop, errtrace.Wrap(err)
	}
	if err = matchSlash(l); err != nil {
		return hop, errtrace.Wrap(err)
	}
	if hop.Proto.Version, err = expectToken(l, "protocol version"); err != nil {
		return hop, errtrace.Wrap(err)
	}
	if err = matchSlash(l); err != nil {
		return hop, errtrace.Wrap(err)
	}
	transp, err := expectToken(l, "transport")
	if err != nil {
		return hop, errtrace.Wrap(err)
	}
	hop.Proto.Name, hop.Proto.Version = lex.InternString(hop.Proto.Name), lex.InternString(hop.Proto.Version)
	hop.Transport = TransportProto(lex.InternString(transp))

	if !l.LWS() {
		return hop, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "expected whitespace before sent-by"))
	}
	if hop.Addr, err = types.ReadAddr(l, false); err != nil {
		return hop, errtrace.Wrap(err)
	}
	if hop.Params, err = parseHdrParams(l, p); err != nil {
		return hop, errtrace.Wrap(err)
	}
	return hop, nil
}

func matchSlash(l *lex.Lexer) error {
	l.LWS()
	if err := l.Match('/'); err != nil {
		return errtrace.Wrap(err)
	}
	l.LWS()
	return nil
}
