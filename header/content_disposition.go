package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// ContentDisposition represents the Content-Disposition header field.
// The Content-Disposition header field describes how the message body is to be interpreted by the UAC or UAS.
type ContentDisposition struct {
	Type   string
	Params Values
}

// CanonicName returns the canonical name of the header.
func (*ContentDisposition) CanonicName() Name { return "Content-Disposition" }

// CompactName returns the compact name of the header.
func (*ContentDisposition) CompactName() Name { return "Content-Disposition" }

// RenderTo writes the header to the provided writer.
func (hdr *ContentDisposition) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

// Render returns the string representation of the header.
func (hdr *ContentDisposition) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr *ContentDisposition) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr *ContentDisposition) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr *ContentDisposition) Format(f fmt.State, verb rune) {
	type hideMethods ContentDisposition
	type ContentDisposition hideMethods
	formatHdr(f, verb, hdr, (*ContentDisposition)(hdr))
}

func (hdr *ContentDisposition) renderValueTo(w io.Writer) (num int, err error) {
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
func (hdr *ContentDisposition) Clone() Header {
	if hdr == nil {
		return nil
	}
	hdr2 := *hdr
	hdr2.Params = hdr.Params.Clone()
	return &hdr2
}

// Equal compares this header with another for equality.
// The "handling" parameter is compared even if present only on one side.
func (hdr *ContentDisposition) Equal(val any) bool {
	var other *ContentDisposition
	switch v := val.(type) {
	case ContentDisposition:
		other = &v
	case *ContentDisposition:
		other = v
	default:
		return false
	}

	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return util.EqFold(hdr.Type, other.Type) &&
		compareHdrParams(hdr.Params, other.Params, map[string]bool{"handling": true})
}

// IsValid checks whether the header is syntactically valid.
func (hdr *ContentDisposition) IsValid() bool {
	return hdr != nil && grammar.IsToken(hdr.Type) && validateHdrParams(hdr.Params)
}

func parseContentDisposition(l *lex.Lexer, p *uri.Parser) (Header, error) {
	typ, err := expectToken(l, "disposition type")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	params, err := parseHdrParams(l, p)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &ContentDisposition{Type: lex.InternString(typ), Params: params}, nil
}
