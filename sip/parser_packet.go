package sip

import (
	"context"

	"github.com/ghettovoice/sipwire/internal/types"
)

// PacketParser parses messages from datagrams, one message per datagram.
// A datagram is always complete, so the parser never waits for more bytes,
// and a missing Content-Length means the body takes the rest of the datagram.
//
// PacketParser is not safe for concurrent use, use one parser per worker.
type PacketParser struct {
	core msgParser
}

// NewPacketParser returns a new datagram parser.
func NewPacketParser(opts *ParserOptions) *PacketParser {
	return &PacketParser{core: newMsgParser(opts, false)}
}

// Parse parses one message from the datagram b.
// It returns nil if b holds only empty lines or the message was dropped.
// A returned message with broken parts comes along with a latched error, see [PacketParser.Err].
// The message does not reference b.
func (p *PacketParser) Parse(b []byte) Message {
	p.core.reset()

	r := lineReader{buf: b, final: true}
	var start []byte
	for {
		line, ok := r.line()
		if !ok {
			return nil
		}
		if len(line) > 0 {
			start = line
			break
		}
	}

	p.core.startLine(start)
	if p.core.drop {
		p.core.reset()
		return nil
	}

	for {
		line, ok := r.headerLine()
		if !ok || len(line) == 0 {
			break
		}
		p.core.header(line)
	}

	rest := r.rest()
	p.core.endHeaders(len(rest))
	p.core.feedBody(rest)
	if !p.core.bodyDone() {
		p.core.latch(ResponseStatusBadRequest, ParseStateBody, ErrIncompleteBody)
	}
	return p.core.finish()
}

// HasMore always returns false, a datagram holds one message.
func (*PacketParser) HasMore() bool { return false }

// Err returns the latched error of the last parsed message, if any.
func (p *PacketParser) Err() *ParseError { return p.core.err }

// ClearError clears the latched error.
func (p *PacketParser) ClearError() { p.core.err = nil }

const packetParserCtxKey types.ContextKey = "packet_parser"

// ContextWithPacketParser returns a copy of ctx that carries p.
func ContextWithPacketParser(ctx context.Context, p *PacketParser) context.Context {
	return context.WithValue(ctx, packetParserCtxKey, p)
}

// PacketParserFromContext returns the parser carried by ctx.
func PacketParserFromContext(ctx context.Context) (*PacketParser, bool) {
	p, ok := ctx.Value(packetParserCtxKey).(*PacketParser)
	return p, ok && p != nil
}
