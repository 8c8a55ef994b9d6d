package header

import (
	"fmt"
	"io"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// ProxyRequire represents the Proxy-Require header field.
// The Proxy-Require header field is used to indicate proxy-sensitive features that must be supported by the proxy.
type ProxyRequire []Option

// CanonicName returns the canonical name of the header.
func (ProxyRequire) CanonicName() Name { return "Proxy-Require" }

// CompactName returns the compact name of the header.
func (ProxyRequire) CompactName() Name { return "Proxy-Require" }

// RenderTo writes the header to the provided writer.
func (hdr ProxyRequire) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if hdr == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr ProxyRequire) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(renderHdrEntries(w, hdr))
}

// Render returns the string representation of the header.
func (hdr ProxyRequire) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

// RenderValue returns the header value without the name prefix.
func (hdr ProxyRequire) RenderValue() string { return renderValueString(hdr) }

// String returns the string representation of the header value.
func (hdr ProxyRequire) String() string { return hdr.RenderValue() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ProxyRequire) Format(f fmt.State, verb rune) {
	type hideMethods ProxyRequire
	type ProxyRequire hideMethods
	formatHdr(f, verb, hdr, ProxyRequire(hdr))
}

// Clone returns a copy of the header.
func (hdr ProxyRequire) Clone() Header { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr ProxyRequire) Equal(val any) bool {
	var other ProxyRequire
	switch v := val.(type) {
	case ProxyRequire:
		other = v
	case *ProxyRequire:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, util.EqFold)
}

// IsValid checks whether the header is syntactically valid.
func (hdr ProxyRequire) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(s Option) bool { return !grammar.IsToken(s) })
}

func parseProxyRequire(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	list, err := parseTokenList(l, false)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return ProxyRequire(list), nil
}
