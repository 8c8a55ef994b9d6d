package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Event represents the Event header field (RFC 6665).
// The Event header field names the event package of a SUBSCRIBE or NOTIFY request.
type Event struct {
	Type   string
	Params Values
}

// CanonicName returns the canonical name of the header.
func (*Event) CanonicName() Name { return "Event" }

// CompactName returns the compact name of the header.
func (*Event) CompactName() Name { return "o" }

// RenderTo writes the header to the provided writer.
func (hdr *Event) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *Event) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *Event) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *Event) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *Event) Format(f fmt.State, verb rune) {
	type hideMethods Event
	type Event hideMethods
	formatHdr(f, verb, hdr, (*Event)(hdr))
}

func (hdr *Event) renderValueTo(w io.Writer) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(hdr.Type)
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(renderHdrParams(w, hdr.Params, false)) })
	return errtrace.Wrap2(cw.Result())
}

// Clone returns a copy of the header.
func (hdr *Event) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	hdr2.Params = hdr.Params.Clone()
	return &hdr2
}

// Equal compares this header with another for equality.
// Event types are compared case-sensitively and the "id" parameter must match on both sides.
func (hdr *Event) Equal(val any) bool {
	var other *Event
	switch v := val.(type) {
	case Event:
		other = &v
	case *Event:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.Type == other.Type &&
		compareHdrParams(hdr.Params, other.Params, map[string]bool{"id": true})
}

// IsValid checks whether the header is syntactically valid.
func (hdr *Event) IsValid() bool {
	return hdr != nil && grammar.IsToken(hdr.Type) && validateHdrParams(hdr.Params)
}

// ID returns the "id" parameter.
func (hdr *Event) ID() (string, bool) {
	if hdr == nil {
		return "", false
	}
	return hdr.Params.Last("id")
}

func parseEvent(l *lex.Lexer, p *uri.Parser) (Header, error) {
	typ, err := expectToken(l, "event type")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	params, err := parseHdrParams(l, p)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Event{Type: lex.InternString(typ), Params: params}, nil
}
