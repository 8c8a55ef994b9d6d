package sip

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"
)

// KeepAliveWriter receives keepalive pongs of a [StreamParser].
// It is usually the connection the parsed bytes come from.
type KeepAliveWriter interface {
	Write(b []byte) (int, error)
}

const (
	streamEvtStartLine   = "start_line"
	streamEvtHeadersDone = "headers_done"
	streamEvtBodyDone    = "body_done"
)

var keepAlivePong = []byte("\r\n")

// StreamParser parses messages from a byte stream, such as a TCP connection.
// Bytes are fed in chunks of any size, the parser keeps the unconsumed tail between calls.
// Every message must have a Content-Length header, a missing one latches a 400 error
// and the body is taken as empty.
//
// Two empty lines before a start line are a keepalive ping (RFC 5626 Section 4.4.1),
// the parser answers it with a single CRLF written to the [KeepAliveWriter].
//
// StreamParser is not safe for concurrent use, use one parser per connection.
type StreamParser struct {
	core    msgParser
	fsm     *stateless.StateMachine
	w       KeepAliveWriter
	buf     []byte
	off     int
	crlfs   int
	hasMore bool
}

// NewStreamParser returns a new stream parser.
// Keepalive pongs are written to w, pings are consumed silently if w is nil.
func NewStreamParser(w KeepAliveWriter, opts *ParserOptions) *StreamParser {
	p := &StreamParser{
		core: newMsgParser(opts, true),
		w:    w,
	}
	p.initFSM()
	return p
}

func (p *StreamParser) initFSM() {
	p.fsm = stateless.NewStateMachine(ParseStateStart)

	p.fsm.Configure(ParseStateStart).
		OnEntry(p.actReset).
		Permit(streamEvtStartLine, ParseStateHeaders)

	p.fsm.Configure(ParseStateHeaders).
		Permit(streamEvtHeadersDone, ParseStateBody)

	p.fsm.Configure(ParseStateBody).
		Permit(streamEvtBodyDone, ParseStateStart)
}

func (p *StreamParser) actReset(context.Context, ...any) error {
	p.core.reset()
	p.crlfs = 0
	return nil
}

// State returns the current parser state.
func (p *StreamParser) State() ParseState {
	return p.fsm.MustState().(ParseState) //nolint:forcetypeassert
}

// Parse appends b to the unconsumed tail and parses as far as possible.
// It returns the first completed message, or nil if more bytes are needed.
// If the returned message leaves bytes behind, [StreamParser.HasMore] reports true
// and the next message may be taken with Parse(nil).
//
// A non-nil error is returned only if the keepalive pong could not be written.
func (p *StreamParser) Parse(b []byte) (Message, error) {
	if p.off > 0 {
		n := copy(p.buf, p.buf[p.off:])
		p.buf = p.buf[:n]
		p.off = 0
	}
	p.buf = append(p.buf, b...)
	p.hasMore = false

	for {
		r := lineReader{buf: p.buf, pos: p.off}

		switch p.State() {
		case ParseStateStart:
			line, ok := r.line()
			if !ok {
				return nil, nil
			}
			p.off = r.pos

			if len(line) == 0 {
				if err := p.onCRLF(); err != nil {
					return nil, errtrace.Wrap(err)
				}
				continue
			}

			p.crlfs = 0
			p.core.startLine(line)
			p.fire(streamEvtStartLine)
		case ParseStateHeaders:
			line, ok := r.headerLine()
			if !ok {
				return nil, nil
			}
			p.off = r.pos

			if len(line) == 0 {
				p.core.endHeaders(0)
				p.fire(streamEvtHeadersDone)
				continue
			}
			p.core.header(line)
		case ParseStateBody:
			p.off += p.core.feedBody(p.buf[p.off:])
			if !p.core.bodyDone() {
				return nil, nil
			}

			msg := p.core.finish()
			p.fire(streamEvtBodyDone)
			if msg == nil {
				continue
			}
			p.hasMore = p.off < len(p.buf)
			return msg, nil
		}
	}
}

func (p *StreamParser) onCRLF() error {
	p.crlfs++
	if p.crlfs < 2 {
		return nil
	}

	p.crlfs = 0
	if p.w == nil {
		return nil
	}
	p.core.debug("answer keepalive ping")
	if _, err := p.w.Write(keepAlivePong); err != nil {
		return errtrace.Wrap(err)
	}
	return nil
}

func (p *StreamParser) fire(evt string) {
	if err := p.fsm.Fire(evt); err != nil {
		p.core.log.LogAttrs(context.Background(), slog.LevelError, "parser state machine failure",
			slog.String("event", evt),
			slog.Any("error", err),
		)
		panic(err)
	}
}

// HasMore reports whether the last call of [StreamParser.Parse] returned a message
// and left unconsumed bytes.
func (p *StreamParser) HasMore() bool { return p.hasMore }

// Err returns the latched error of the last parsed message, if any.
func (p *StreamParser) Err() *ParseError { return p.core.err }

// ClearError clears the latched error.
func (p *StreamParser) ClearError() { p.core.err = nil }
