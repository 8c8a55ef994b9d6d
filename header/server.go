package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Server represents the Server header field.
// It contains information about the software used by the UAS to handle the request.
type Server string

func (Server) CanonicName() Name { return "Server" }

func (Server) CompactName() Name { return "Server" }

func (hdr Server) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(renderHdr(w, hdr, opts))
}

func (hdr Server) renderValueTo(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, string(hdr)))
}

func (hdr Server) Render(opts *RenderOptions) string { return renderHdrString(hdr, opts) }

func (hdr Server) RenderValue() string { return string(hdr) }

func (hdr Server) String() string { return string(hdr) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Server) Format(f fmt.State, verb rune) {
	type hideMethods Server
	type Server hideMethods
	formatHdr(f, verb, hdr, Server(hdr))
}

func (hdr Server) Clone() Header { return hdr }

func (hdr Server) Equal(val any) bool {
	switch v := val.(type) {
	case Server:
		return hdr == v
	case *Server:
		return v != nil && hdr == *v
	default:
		return false
	}
}

func (hdr Server) IsValid() bool { return hdr != "" }

func parseServer(l *lex.Lexer, _ *uri.Parser) (Header, error) {
	return Server(restText(l)), nil
}
