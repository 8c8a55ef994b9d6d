package sip

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/log"
	"github.com/ghettovoice/sipwire/internal/textbuf"
	"github.com/ghettovoice/sipwire/uri"
)

// ParserOptions configures [PacketParser] and [StreamParser].
// A nil *ParserOptions is valid and means defaults.
type ParserOptions struct {
	// AcceptNonUTF8 makes parsers take bytes of malformed UTF-8 sequences as Latin-1 characters.
	// Otherwise a line with such bytes latches a 400 error.
	AcceptNonUTF8 bool
	// SendBadRequestForMalformedStartLine makes parsers return a request with the ILLEGAL method
	// and a latched 400 error when the request line is malformed.
	// Messages with a malformed start line are dropped otherwise.
	SendBadRequestForMalformedStartLine bool
	// MaxContentLength is the max size of a kept message body.
	// Bytes above it are discarded and a 413 error is latched.
	// Zero means 65535.
	MaxContentLength int
	// DetectPreEscapedParams keeps URI parameter values that already hold escaped octets as is.
	DetectPreEscapedParams bool
	// KeepEscapedValues disables decoding of escaped octets in URI components.
	KeepEscapedValues bool
	// Log reports tolerated failures at debug level.
	// Defaults to a no-op logger.
	Log *slog.Logger
}

func (o *ParserOptions) acceptNonUTF8() bool {
	return o != nil && o.AcceptNonUTF8
}

func (o *ParserOptions) sendBadRequest() bool {
	return o != nil && o.SendBadRequestForMalformedStartLine
}

func (o *ParserOptions) maxContentLength() int {
	if o == nil || o.MaxContentLength <= 0 {
		return maxMsgSize
	}
	return o.MaxContentLength
}

func (o *ParserOptions) uriParser() *uri.Parser {
	if o == nil {
		return uri.DefaultParser
	}
	return &uri.Parser{
		Unescape:         !o.KeepEscapedValues,
		DetectPreEscaped: o.DetectPreEscapedParams,
	}
}

func (o *ParserOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

// ParseState is a position of a parser inside a message.
type ParseState uint8

const (
	// ParseStateStart is before the start line.
	ParseStateStart ParseState = iota
	// ParseStateHeaders is inside the header section.
	ParseStateHeaders
	// ParseStateBody is inside the body.
	ParseStateBody
)

func (s ParseState) String() string {
	switch s {
	case ParseStateStart:
		return "start"
	case ParseStateHeaders:
		return "headers"
	case ParseStateBody:
		return "body"
	default:
		return fmt.Sprintf("ParseState(%d)", uint8(s))
	}
}

// ParseError describes why a parsed message is broken.
// Parsers latch the first error of a message and keep it until ClearError is called,
// the message itself is still returned when possible.
// Code and Reason are suitable for a response to a broken request.
type ParseError struct {
	Code   ResponseStatus
	Reason ResponseReason
	State  ParseState
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Grammar marks the error as caused by malformed input.
func (*ParseError) Grammar() bool { return true }

// LogValue implements [slog.LogValuer].
func (e *ParseError) LogValue() slog.Value {
	if e == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Int("code", int(e.Code)),
		slog.String("reason", string(e.Reason)),
		slog.String("state", e.State.String()),
		slog.Any("error", e.Err),
	)
}

// lineReader reads lines from buf.
// A line ends with CRLF, a lone LF or a lone CR.
// If final is not set, more bytes may follow buf, so a CR at the end of buf
// and a header line that may be continued are not complete yet.
type lineReader struct {
	buf   []byte
	pos   int
	final bool
}

// scanEOL looks for the end of the line that contains the offset i.
// It returns the offset of the terminator and its size.
// ok is false if more bytes are needed to find the end.
func (r *lineReader) scanEOL(i int) (end, size int, ok bool) {
	for ; i < len(r.buf); i++ {
		switch r.buf[i] {
		case '\n':
			return i, 1, true
		case '\r':
			if i+1 < len(r.buf) {
				if r.buf[i+1] == '\n' {
					return i, 2, true
				}
				return i, 1, true
			}
			if r.final {
				return i, 1, true
			}
			return 0, 0, false
		}
	}
	if r.final {
		return len(r.buf), 0, true
	}
	return 0, 0, false
}

// line reads one physical line without the terminator.
func (r *lineReader) line() ([]byte, bool) {
	if r.pos >= len(r.buf) {
		return nil, false
	}
	end, n, ok := r.scanEOL(r.pos)
	if !ok {
		return nil, false
	}
	line := r.buf[r.pos:end]
	r.pos = end + n
	return line, true
}

// headerLine reads one logical header line.
// Following physical lines that start with SP or HT continue it and are included
// together with the line folds. An empty line ends the header section.
func (r *lineReader) headerLine() ([]byte, bool) {
	i := r.pos
	for {
		end, n, ok := r.scanEOL(i)
		if !ok {
			return nil, false
		}
		if end == r.pos {
			r.pos = end + n
			return r.buf[end:end], true
		}

		next := end + n
		if next >= len(r.buf) {
			if !r.final {
				return nil, false
			}
		} else if c := r.buf[next]; c == ' ' || c == '\t' {
			i = next
			continue
		}

		line := r.buf[r.pos:end]
		r.pos = next
		return line, true
	}
}

// rest returns unread bytes.
func (r *lineReader) rest() []byte { return r.buf[r.pos:] }

var statusLinePrefix = []byte("SIP/")

// msgParser builds one message at a time from lines and body bytes.
// It is shared by the packet and stream parsers, which only differ in how they feed it.
type msgParser struct {
	opts   *ParserOptions
	uriPrs *uri.Parser
	log    *slog.Logger
	stream bool

	msg  msgBuilder
	hdrs Headers
	drop bool
	err  *ParseError

	bodyLeft int
	bodyKeep int
	body     []byte
}

func newMsgParser(opts *ParserOptions, stream bool) msgParser {
	return msgParser{
		opts:   opts,
		uriPrs: opts.uriParser(),
		log:    opts.log(),
		stream: stream,
	}
}

// reset drops the partial message. The latched error is kept.
func (p *msgParser) reset() {
	p.msg = nil
	p.hdrs = nil
	p.drop = false
	p.bodyLeft = 0
	p.bodyKeep = 0
	p.body = nil
}

// latch stores the error unless another one is already latched.
func (p *msgParser) latch(code ResponseStatus, state ParseState, err error) {
	if p.err != nil {
		return
	}

	reason := code.Reason()
	if code == ResponseStatusRequestEntityTooLarge {
		reason = ResponseReason(ErrEntityTooLarge)
	}
	p.err = &ParseError{Code: code, Reason: reason, State: state, Err: err}
	p.log.LogAttrs(context.Background(), slog.LevelDebug, "parse error latched", slog.Any("error", p.err))
}

func (p *msgParser) debug(msg string, attrs ...slog.Attr) {
	p.log.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// startLine begins a new message.
// A malformed request line gives an ILLEGAL request if the options ask for it,
// otherwise the message is marked to be dropped.
func (p *msgParser) startLine(line []byte) {
	p.hdrs = make(Headers, 10)

	msg, err := p.parseStartLine(line)
	if err == nil {
		p.msg = msg
		return
	}

	if p.opts.sendBadRequest() && !bytes.HasPrefix(line, statusLinePrefix) {
		p.msg = &Request{Method: RequestMethodIllegal, Proto: Proto20}
		p.latch(ResponseStatusBadRequest, ParseStateStart, errorutil.NewWrapperError(ErrMalformedStartLine, err))
		return
	}

	p.drop = true
	p.debug("drop message with malformed start line",
		slog.Any("line", log.StringValue(line)),
		slog.Any("error", err),
	)
}

func (p *msgParser) parseStartLine(line []byte) (msgBuilder, error) {
	var msg msgBuilder
	err := textbuf.Use(line, !p.opts.acceptNonUTF8(), func(b *textbuf.Buffer) error {
		var err error
		l := lex.New(b.Runes())
		if bytes.HasPrefix(line, statusLinePrefix) {
			msg, err = p.parseStatusLine(l)
		} else {
			msg, err = p.parseRequestLine(l, line)
		}
		return errtrace.Wrap(err)
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return msg, nil
}

func (p *msgParser) parseStatusLine(l *lex.Lexer) (*Response, error) {
	proto, err := parseProto(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := l.Match(' '); err != nil {
		return nil, errtrace.Wrap(err)
	}
	l.SkipWSP()

	mark := l.Mark()
	sts, err := l.Number()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if l.Pos()-mark != 3 || !ResponseStatus(sts).IsValid() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(mark, "invalid status code %d", sts))
	}
	if c := l.LA(1); c != lex.EOF && !grammar.IsWSP(c) {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after status code", c))
	}
	l.SkipWSP()

	return &Response{
		Status: ResponseStatus(sts),
		Reason: ResponseReason(string(trimWSP(l.Rest()))),
		Proto:  proto,
	}, nil
}

// parseRequestLine parses "Method SP Request-URI SP SIP-Version".
// raw is the undecoded line, the method is looked up on its bytes.
func (p *msgParser) parseRequestLine(l *lex.Lexer, raw []byte) (*Request, error) {
	tok := l.Token()
	if tok == "" {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(0, "missing request method"))
	}
	// Token characters are ASCII, so the method occupies the same bytes in raw.
	method := LookupMethod(raw[:len(tok)])
	if err := l.Match(' '); err != nil {
		return nil, errtrace.Wrap(err)
	}
	l.SkipWSP()

	u, err := p.uriPrs.ParseURI(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := l.Match(' '); err != nil {
		return nil, errtrace.Wrap(err)
	}
	l.SkipWSP()

	proto, err := parseProto(l)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	l.SkipWSP()
	if !l.Done() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after request line", string(l.Rest())))
	}

	return &Request{Method: method, URI: u, Proto: proto}, nil
}

func parseProto(l *lex.Lexer) (ProtoInfo, error) {
	if err := l.MatchStringFold("SIP/"); err != nil {
		return ProtoInfo{}, errtrace.Wrap(err)
	}
	mark := l.Mark()
	ver := l.Scan(func(c rune) bool { return grammar.IsDigit(c) || c == '.' })
	if ver == "" {
		return ProtoInfo{}, errtrace.Wrap(errorutil.NewGrammarError(mark, "missing protocol version"))
	}
	if ver == Proto20.Version {
		return Proto20, nil
	}
	return ProtoInfo{Name: Proto20.Name, Version: ver}, nil
}

func trimWSP(r []rune) []rune {
	i, j := 0, len(r)
	for i < j && grammar.IsWSP(r[i]) {
		i++
	}
	for j > i && grammar.IsWSP(r[j-1]) {
		j--
	}
	return r[i:j]
}

// header parses one logical header line and adds the result to the partial message.
// Headers of a dropped message are skipped except Content-Length, which keeps a stream in sync.
func (p *msgParser) header(line []byte) {
	err := textbuf.Use(line, !p.opts.acceptNonUTF8(), func(b *textbuf.Buffer) error {
		if p.drop {
			p.skipHeader(b.Runes())
		} else {
			p.parseHeader(b.Runes())
		}
		return nil
	})
	if err != nil && !p.drop {
		p.latch(ResponseStatusBadRequest, ParseStateHeaders, errorutil.NewWrapperError(ErrInvalidHeader, err))
	}
}

func (p *msgParser) skipHeader(line []rune) {
	i := slices.Index(line, ':')
	if i < 0 {
		return
	}
	if kind, _ := header.LookupRunes(trimWSP(line[:i])); kind != header.KindContentLength {
		return
	}
	if hdr, err := header.KindContentLength.Parse(line[i+1:], p.uriPrs); err == nil {
		p.hdrs.Append(hdr)
	}
}

// parseHeader parses a decoded header line.
// The line runes are released after the call, so nothing may keep them.
func (p *msgParser) parseHeader(line []rune) {
	i := slices.Index(line, ':')
	if i < 0 {
		p.debug("skip header line without colon", slog.String("line", string(line)))
		return
	}

	name := trimWSP(line[:i])
	value := line[i+1:]

	kind, ok := header.LookupRunes(name)
	if !ok {
		if !grammar.IsToken(name) {
			p.debug("skip header with invalid name", slog.String("line", string(line)))
			return
		}
		p.hdrs.Append(&header.Any{Name: lex.Intern(name), Value: header.Unfold(value)})
		return
	}

	hdr, err := kind.Parse(value, p.uriPrs)
	if err == nil {
		p.hdrs.Append(hdr)
		return
	}

	if kind.IsNested() {
		if elems := header.Split(value); len(elems) > 1 {
			for _, elem := range elems {
				p.parseHeaderValue(kind, elem)
			}
			return
		}
	}
	p.keepRawHeader(kind, value, err)
}

// parseHeaderValue parses one element of a list header line.
func (p *msgParser) parseHeaderValue(kind header.Kind, value []rune) {
	hdr, err := kind.Parse(value, p.uriPrs)
	if err != nil {
		p.keepRawHeader(kind, value, err)
		return
	}
	p.hdrs.Append(hdr)
}

// keepRawHeader keeps an unparsable value as [header.Any].
// A failure of a critical header latches a 400 error.
func (p *msgParser) keepRawHeader(kind header.Kind, value []rune, err error) {
	p.hdrs.Append(&header.Any{Name: string(kind.Name()), Value: header.Unfold(value)})
	if kind.IsCritical() {
		p.latch(ResponseStatusBadRequest, ParseStateHeaders,
			errorutil.NewWrapperError(ErrInvalidHeader, fmt.Errorf("%s: %w", kind.Name(), err)))
		return
	}
	p.debug("keep unparsable header as is",
		slog.String("header", string(kind.Name())),
		slog.Any("error", err),
	)
}

// endHeaders finishes the header section and sets up the body reading.
// avail is the number of bytes left in a datagram, stream parsers ignore it.
func (p *msgParser) endHeaders(avail int) {
	n := avail
	if cl, ok := p.hdrs.ContentLength(); ok {
		n = int(cl)
	} else if p.stream {
		n = 0
		if !p.drop {
			p.latch(ResponseStatusBadRequest, ParseStateBody, ErrMissingContentLength)
		}
	}

	maxLen := p.opts.maxContentLength()
	p.bodyLeft = n
	p.bodyKeep = min(n, maxLen)
	if n > maxLen && !p.drop {
		p.latch(ResponseStatusRequestEntityTooLarge, ParseStateBody,
			errorutil.NewWrapperError(ErrEntityTooLarge, "%d bytes, max %d", n, maxLen))
	}
}

// feedBody consumes body bytes from b and returns how many were consumed.
// Bytes past the kept length are discarded.
func (p *msgParser) feedBody(b []byte) int {
	n := min(len(b), p.bodyLeft)
	if keep := p.bodyKeep - len(p.body); keep > 0 && !p.drop {
		p.body = append(p.body, b[:min(n, keep)]...)
	}
	p.bodyLeft -= n
	return n
}

func (p *msgParser) bodyDone() bool { return p.bodyLeft == 0 }

// finish returns the completed message and resets the partial state.
// It returns nil for a dropped message.
func (p *msgParser) finish() Message {
	defer p.reset()

	if p.drop || p.msg == nil {
		return nil
	}

	msg := p.msg
	msg.setHeaders(p.hdrs)
	if len(p.body) > 0 {
		if ct, ok := p.hdrs.ContentType(); ok {
			msg.setBody(p.body, ct)
		} else {
			p.debug("drop body without Content-Type", slog.Int("size", len(p.body)))
		}
	}
	return msg
}
