package sip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Frequently used response status codes.
// See [types.ResponseStatus] for the full list.
const (
	ResponseStatusTrying  = types.ResponseStatusTrying
	ResponseStatusRinging = types.ResponseStatusRinging
	ResponseStatusOK      = types.ResponseStatusOK
)

// Response represents a SIP response message.
type Response struct {
	Status  ResponseStatus
	Reason  ResponseReason
	Proto   ProtoInfo
	Headers Headers
	Body    []byte
	// ContentType is the type of Body, taken from the Content-Type header when the body was attached.
	ContentType *header.ContentType
}

// MessageHeaders returns the response headers.
func (res *Response) MessageHeaders() Headers {
	if res == nil {
		return nil
	}
	return res.Headers
}

// MessageBody returns the response body.
func (res *Response) MessageBody() []byte {
	if res == nil {
		return nil
	}
	return res.Body
}

// MessageContentType returns the type of the response body.
func (res *Response) MessageContentType() *header.ContentType {
	if res == nil {
		return nil
	}
	return res.ContentType
}

func (res *Response) setHeaders(hs Headers) { res.Headers = hs }

func (res *Response) setBody(body []byte, ct *header.ContentType) {
	res.Body = body
	res.ContentType = ct
}

// RenderTo renders the SIP response to the given writer.
func (res *Response) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if res == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(res.renderStartLine)
	cw.Fprint("\r\n")
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(renderHdrs(w, res.Headers, opts))
	})
	cw.Fprint("\r\n")
	cw.Write(res.Body)
	return errtrace.Wrap2(cw.Result())
}

func (res *Response) renderStartLine(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(res.Proto, " ", strconv.Itoa(int(res.Status)), " ", res.Reason)
	return errtrace.Wrap2(cw.Result())
}

// Render renders the SIP response to a string.
func (res *Response) Render(opts *RenderOptions) string {
	if res == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	res.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the status line.
func (res *Response) String() string {
	if res == nil {
		return "<nil>"
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	res.renderStartLine(sb) //nolint:errcheck
	return sb.String()
}

// Format implements [fmt.Formatter] for custom formatting.
func (res *Response) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			res.RenderTo(f, nil) //nolint:errcheck
			return
		}
		f.Write([]byte(res.String()))
		return
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(res.Render(nil)))
			return
		}
		f.Write([]byte(strconv.Quote(res.String())))
		return
	default:
		type hideMethods Response
		type Response hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Response)(res))
		return
	}
}

// LogValue implements [slog.LogValuer] for structured logging.
func (res *Response) LogValue() slog.Value {
	if res == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs, slog.Int("status", int(res.Status)), slog.String("reason", string(res.Reason)))
	return slog.GroupValue(logMsgAttrs(attrs, res.Headers)...)
}

// Clone returns a deep copy of the response.
func (res *Response) Clone() Message {
	if res == nil {
		return nil
	}

	res2 := *res
	res2.Headers = res.Headers.Clone()
	res2.Body = slices.Clone(res.Body)
	if res.ContentType != nil {
		res2.ContentType = res.ContentType.Clone().(*header.ContentType) //nolint:forcetypeassert
	}
	return &res2
}

// Equal returns whether the response is equal to another value.
func (res *Response) Equal(val any) bool {
	var other *Response
	switch v := val.(type) {
	case Response:
		other = &v
	case *Response:
		other = v
	default:
		return false
	}

	if res == other {
		return true
	} else if res == nil || other == nil {
		return false
	}

	return res.Status == other.Status &&
		res.Reason == other.Reason &&
		res.Proto.Equal(other.Proto) &&
		compareHdrs(res.Headers, other.Headers) &&
		slices.Equal(res.Body, other.Body)
}

// IsValid returns whether the response is valid.
func (res *Response) IsValid() bool {
	return res.Validate() == nil
}

var resMandatoryHdrs = []HeaderName{
	"Via",
	"From",
	"To",
	"Call-ID",
	"CSeq",
}

// Validate validates the response and returns an error if invalid.
func (res *Response) Validate() error {
	if res == nil {
		return errtrace.Wrap(NewInvalidArgumentError("invalid response"))
	}

	errs := make([]error, 0, 10)

	if !res.Status.IsValid() {
		errs = append(errs, errorutil.Errorf("invalid status %d", res.Status))
	}
	if !res.Proto.IsValid() {
		errs = append(errs, errorutil.Errorf("invalid protocol %q", res.Proto))
	}
	if err := validateHdrs(res.Headers); err != nil {
		errs = append(errs, err)
	}
	for _, n := range resMandatoryHdrs {
		if !res.Headers.Has(n) {
			errs = append(errs, errorutil.Errorf("missing %q header", n))
		}
	}

	if len(errs) > 0 {
		return errtrace.Wrap(NewInvalidMessageError(errors.Join(errs...)))
	}
	return nil
}
