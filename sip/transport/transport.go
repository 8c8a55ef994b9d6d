// Package transport drives SIP message parsers with network connections.
//
// [ServeStream] reads a connection-oriented transport such as TCP or TLS with a
// [sip.StreamParser] per connection. [ServePacket] reads a datagram transport such as UDP
// with a single [sip.PacketParser] per loop. Both loops pass every parsed message to a [Handler]
// together with the parse error latched for it, if any.
package transport

//go:generate go tool errtrace -w .

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/log"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/sip"
)

// ErrReadTimeout is returned by the serve loops when nothing was read during [Options.ReadTimeout].
const ErrReadTimeout errorutil.Error = "read timeout"

// Handler handles inbound messages.
// A message may come with a parse error latched for it, see [ParseErrorFromContext].
type Handler interface {
	HandleMessage(ctx context.Context, msg sip.Message)
}

// HandlerFunc is a function adapter for [Handler].
type HandlerFunc func(ctx context.Context, msg sip.Message)

// HandleMessage calls fn(ctx, msg).
func (fn HandlerFunc) HandleMessage(ctx context.Context, msg sip.Message) { fn(ctx, msg) }

// Options configure serve loops.
// The zero value, as well as nil, is a valid configuration.
type Options struct {
	// Parser are options of message parsers.
	// If nil, default parser options are used.
	Parser *sip.ParserOptions
	// ReadBufferSize is a size of the read buffer.
	// Datagrams larger than the buffer are truncated.
	// Default is 65535.
	ReadBufferSize int
	// ReadTimeout is the maximum duration the loop waits for inbound bytes.
	// Zero means no timeout.
	ReadTimeout time.Duration
	// Log is a logger of the serve loop.
	// If nil, [log.Def] is used.
	Log *slog.Logger
	// Stats records counters of inbound messages.
	// If nil, nothing is recorded.
	Stats *StatsRecorder
}

const defReadBufSize = 65535

func (o *Options) parser() *sip.ParserOptions {
	if o == nil {
		return nil
	}
	return o.Parser
}

func (o *Options) readBufSize() int {
	if o == nil || o.ReadBufferSize <= 0 {
		return defReadBufSize
	}
	return o.ReadBufferSize
}

func (o *Options) readTimeout() time.Duration {
	if o == nil || o.ReadTimeout < 0 {
		return 0
	}
	return o.ReadTimeout
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Def
	}
	return o.Log
}

func (o *Options) stats() *StatsRecorder {
	if o == nil {
		return nil
	}
	return o.Stats
}

const (
	rmtAddrCtxKey  types.ContextKey = "remote_addr"
	parseErrCtxKey types.ContextKey = "parse_error"
	loggerCtxKey   types.ContextKey = "logger"
)

// RemoteAddrFromContext returns the address the message came from.
func RemoteAddrFromContext(ctx context.Context) (net.Addr, bool) {
	addr, ok := ctx.Value(rmtAddrCtxKey).(net.Addr)
	return addr, ok
}

// ParseErrorFromContext returns the parse error latched for the message.
// A handler may answer a request having such error with the error status,
// see [sip.ParseError.Code] and [sip.ParseError.Reason].
func ParseErrorFromContext(ctx context.Context) (*sip.ParseError, bool) {
	perr, ok := ctx.Value(parseErrCtxKey).(*sip.ParseError)
	return perr, ok && perr != nil
}

// LoggerFromContext returns the logger of the serve loop with the message attributes.
// It returns [log.Noop] if the context has no logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return log.Noop
}
