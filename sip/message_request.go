package sip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// RequestMethod represents a SIP request method.
// See [types.RequestMethod].
type RequestMethod = types.RequestMethod

// Request method constants.
// See [types.RequestMethod].
const (
	RequestMethodAck       = types.RequestMethodAck
	RequestMethodBye       = types.RequestMethodBye
	RequestMethodCancel    = types.RequestMethodCancel
	RequestMethodInfo      = types.RequestMethodInfo
	RequestMethodInvite    = types.RequestMethodInvite
	RequestMethodKeepAlive = types.RequestMethodKeepAlive
	RequestMethodMessage   = types.RequestMethodMessage
	RequestMethodNotify    = types.RequestMethodNotify
	RequestMethodOptions   = types.RequestMethodOptions
	RequestMethodPrack     = types.RequestMethodPrack
	RequestMethodPublish   = types.RequestMethodPublish
	RequestMethodRefer     = types.RequestMethodRefer
	RequestMethodRegister  = types.RequestMethodRegister
	RequestMethodSubscribe = types.RequestMethodSubscribe
	RequestMethodUpdate    = types.RequestMethodUpdate

	// RequestMethodIllegal is the method of a request built from a malformed request line.
	RequestMethodIllegal = types.RequestMethodIllegal
)

// Request represents a SIP request message.
type Request struct {
	Method  RequestMethod
	URI     URI
	Proto   ProtoInfo
	Headers Headers
	Body    []byte
	// ContentType is the type of Body, taken from the Content-Type header when the body was attached.
	ContentType *header.ContentType
}

// MessageHeaders returns the request headers.
func (req *Request) MessageHeaders() Headers {
	if req == nil {
		return nil
	}
	return req.Headers
}

// MessageBody returns the request body.
func (req *Request) MessageBody() []byte {
	if req == nil {
		return nil
	}
	return req.Body
}

// MessageContentType returns the type of the request body.
func (req *Request) MessageContentType() *header.ContentType {
	if req == nil {
		return nil
	}
	return req.ContentType
}

func (req *Request) setHeaders(hs Headers) { req.Headers = hs }

func (req *Request) setBody(body []byte, ct *header.ContentType) {
	req.Body = body
	req.ContentType = ct
}

// RenderTo renders the SIP request to the given writer.
func (req *Request) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if req == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(req.renderStartLine(w, opts))
	})
	cw.Fprint("\r\n")
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(renderHdrs(w, req.Headers, opts))
	})
	cw.Fprint("\r\n")
	cw.Write(req.Body)
	return errtrace.Wrap2(cw.Result())
}

func (req *Request) renderStartLine(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(req.Method, " ")
	if req.URI != nil {
		cw.Call(func(w io.Writer) (int, error) {
			return errtrace.Wrap2(req.URI.RenderTo(w, opts))
		})
	}
	cw.Fprint(" ", req.Proto)
	return errtrace.Wrap2(cw.Result())
}

// Render renders the SIP request to a string.
func (req *Request) Render(opts *RenderOptions) string {
	if req == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	req.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the request line.
func (req *Request) String() string {
	if req == nil {
		return "<nil>"
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	req.renderStartLine(sb, nil) //nolint:errcheck
	return sb.String()
}

// Format implements [fmt.Formatter] for custom formatting.
func (req *Request) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			req.RenderTo(f, nil) //nolint:errcheck
			return
		}
		f.Write([]byte(req.String()))
		return
	case 'q':
		if f.Flag('+') {
			fmt.Fprint(f, strconv.Quote(req.Render(nil)))
			return
		}
		f.Write([]byte(strconv.Quote(req.String())))
		return
	default:
		type hideMethods Request
		type Request hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Request)(req))
		return
	}
}

// LogValue implements [slog.LogValuer] for structured logging.
func (req *Request) LogValue() slog.Value {
	if req == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs, slog.String("method", string(req.Method)), slog.Any("uri", req.URI))
	return slog.GroupValue(logMsgAttrs(attrs, req.Headers)...)
}

// Clone returns a deep copy of the request.
func (req *Request) Clone() Message {
	if req == nil {
		return nil
	}

	req2 := *req
	req2.URI = types.Clone[URI](req.URI)
	req2.Headers = req.Headers.Clone()
	req2.Body = slices.Clone(req.Body)
	if req.ContentType != nil {
		req2.ContentType = req.ContentType.Clone().(*header.ContentType) //nolint:forcetypeassert
	}
	return &req2
}

// Equal returns whether the request is equal to another value.
func (req *Request) Equal(val any) bool {
	var other *Request
	switch v := val.(type) {
	case Request:
		other = &v
	case *Request:
		other = v
	default:
		return false
	}

	if req == other {
		return true
	} else if req == nil || other == nil {
		return false
	}

	return req.Method.Equal(other.Method) &&
		req.Proto.Equal(other.Proto) &&
		types.IsEqual(req.URI, other.URI) &&
		compareHdrs(req.Headers, other.Headers) &&
		slices.Equal(req.Body, other.Body)
}

// IsValid returns whether the request is valid.
func (req *Request) IsValid() bool {
	return req.Validate() == nil
}

var reqMandatoryHdrs = []HeaderName{
	"Via",
	"From",
	"To",
	"Call-ID",
	"CSeq",
	"Max-Forwards",
}

// Validate validates the request and returns an error if invalid.
func (req *Request) Validate() error {
	if req == nil {
		return errtrace.Wrap(NewInvalidArgumentError("invalid request"))
	}

	errs := make([]error, 0, 10)

	if !req.Method.IsValid() || req.Method == RequestMethodIllegal {
		errs = append(errs, errorutil.Errorf("invalid method %q", req.Method))
	}
	if !types.IsValid(req.URI) {
		errs = append(errs, errorutil.Errorf("invalid URI %q", req.URI))
	}
	if !req.Proto.IsValid() {
		errs = append(errs, errorutil.Errorf("invalid protocol %q", req.Proto))
	}
	if err := validateHdrs(req.Headers); err != nil {
		errs = append(errs, err)
	}
	for _, n := range reqMandatoryHdrs {
		if !req.Headers.Has(n) {
			errs = append(errs, errorutil.Errorf("missing %q header", n))
		}
	}
	if cseq, ok := req.Headers.CSeq(); ok && !cseq.Method.Equal(req.Method) {
		errs = append(errs, errorutil.Errorf("CSeq method %q does not match request method %q", cseq.Method, req.Method))
	}

	if len(errs) > 0 {
		return errtrace.Wrap(NewInvalidMessageError(errors.Join(errs...)))
	}
	return nil
}

// ResponseOptions are optional parts of a response built by [Request.NewResponse].
type ResponseOptions struct {
	// Reason overrides the default reason phrase of the status.
	Reason ResponseReason
	// Headers are added to the response, headers copied from the request are not overridden.
	Headers Headers
	Body    []byte
	// LocalTag is the To tag added to non-100 responses, a random one is used if empty.
	LocalTag string
}

func (o *ResponseOptions) reason() ResponseReason {
	if o == nil {
		return ""
	}
	return o.Reason
}

func (o *ResponseOptions) headers() Headers {
	if o == nil {
		return nil
	}
	return o.Headers
}

func (o *ResponseOptions) body() []byte {
	if o == nil {
		return nil
	}
	return o.Body
}

func (o *ResponseOptions) locTag() string {
	if o == nil {
		return ""
	}
	return o.LocalTag
}

var (
	reqCopyHdrsMap = map[HeaderName]bool{
		"Via":       true,
		"From":      true,
		"To":        true,
		"Call-ID":   true,
		"CSeq":      true,
		"Timestamp": true,
	}
	reqCopyHdrsSlice = slices.Sorted(maps.Keys(reqCopyHdrsMap))
)

// GenerateTag returns a random tag of the given length, 16 if n is not positive.
func GenerateTag(n int) string {
	if n <= 0 {
		n = 16
	}
	return util.RandString(n)
}

// NewResponse builds a response to the request as described in RFC 3261 Section 8.2.6.
// Via, From, To, Call-ID, CSeq and Timestamp headers are copied from the request,
// the To header gets a local tag unless the status is 100.
func (req *Request) NewResponse(sts ResponseStatus, opts *ResponseOptions) (*Response, error) {
	if req == nil {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid request"))
	}
	if req.Method.Equal(RequestMethodAck) {
		return nil, errtrace.Wrap(NewInvalidArgumentError("cannot respond to ACK"))
	}

	res := &Response{
		Status:  sts,
		Reason:  opts.reason(),
		Proto:   req.Proto,
		Headers: make(Headers, 6).CopyFrom(req.Headers, reqCopyHdrsSlice[0], reqCopyHdrsSlice[1:]...),
		Body:    opts.body(),
	}
	if res.Reason == "" {
		res.Reason = sts.Reason()
	}
	if !res.Proto.IsValid() {
		res.Proto = Proto20
	}

	if to, ok := res.Headers.To(); sts != types.ResponseStatusTrying && ok && to != nil {
		if _, ok := to.Tag(); !ok {
			locTag := opts.locTag()
			if locTag == "" {
				locTag = GenerateTag(0)
			}
			if to.Params == nil {
				to.Params = make(header.Values)
			}
			to.Params.Set("tag", locTag)
		}
	}

	for n, hs := range opts.headers() {
		if reqCopyHdrsMap[n] {
			continue
		}
		res.Headers.Append(hs...)
	}
	if len(res.Body) > 0 || res.Headers.Has("Content-Length") {
		res.Headers.Set(header.ContentLength(len(res.Body)))
	}
	if ct, ok := res.Headers.ContentType(); ok && len(res.Body) > 0 {
		res.ContentType = ct
	}
	return res, nil
}
