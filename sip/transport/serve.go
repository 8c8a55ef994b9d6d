package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/log"
	"github.com/ghettovoice/sipwire/sip"
)

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// ServeStream reads messages from the connection until the connection is closed,
// the context is done or a read fails.
// Keepalive pongs are written back to the connection.
// The connection is closed when ServeStream returns.
//
// It returns nil if the remote side closed the connection, the context error if the context is done,
// otherwise the read error.
func ServeStream(ctx context.Context, conn net.Conn, h Handler, opts *Options) error {
	if conn == nil {
		return errtrace.Wrap(sip.NewInvalidArgumentError("invalid connection"))
	}
	if h == nil {
		return errtrace.Wrap(sip.NewInvalidArgumentError("invalid handler"))
	}

	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := opts.log().With(slog.Any("connection", conn))
	logger.LogAttrs(ctx, slog.LevelDebug, "begin serving the connection")
	defer logger.LogAttrs(ctx, slog.LevelDebug, "serving the connection finished")

	var stats *connStats
	if rcdr := opts.stats(); rcdr != nil {
		stats = rcdr.connStats(conn.LocalAddr())
	}

	ctx = context.WithValue(ctx, rmtAddrCtxKey, conn.RemoteAddr())
	prs := sip.NewStreamParser(conn, opts.parser())
	buf := make([]byte, opts.readBufSize())
	for {
		if err := setReadDeadline(conn, opts.readTimeout()); err != nil {
			return errtrace.Wrap(loopErr(ctx, err))
		}

		num, err := conn.Read(buf)
		if num > 0 {
			stats.bytesRead(num)
			// Parse may fail only on the keep-alive pong write.
			msg, perr := prs.Parse(buf[:num])
			for perr == nil && msg != nil {
				dispatch(ctx, h, msg, prs.Err(), logger, stats)
				prs.ClearError()
				if !prs.HasMore() {
					break
				}
				msg, perr = prs.Parse(nil)
			}
			if perr != nil {
				return errtrace.Wrap(loopErr(ctx, perr))
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if prs.State() != sip.ParseStateStart {
					logger.LogAttrs(ctx, slog.LevelDebug, "connection closed in the middle of a message",
						slog.Any("state", prs.State()),
					)
				}
				return errtrace.Wrap(loopErr(ctx, nil))
			}
			return errtrace.Wrap(loopErr(ctx, err))
		}
	}
}

// ServePacket reads datagrams from the connection until the context is done or a read fails.
// Every datagram is parsed as a single message, malformed datagrams are dropped.
// Temporary read errors do not break the loop.
// The packet parser of the loop is available to the handler through [sip.PacketParserFromContext].
// The connection is closed when ServePacket returns.
//
// It returns the context error if the context is done, otherwise the read error.
func ServePacket(ctx context.Context, conn net.PacketConn, h Handler, opts *Options) error {
	if conn == nil {
		return errtrace.Wrap(sip.NewInvalidArgumentError("invalid connection"))
	}
	if h == nil {
		return errtrace.Wrap(sip.NewInvalidArgumentError("invalid handler"))
	}

	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := opts.log().With(slog.Any("connection", conn))
	logger.LogAttrs(ctx, slog.LevelDebug, "begin serving the connection")
	defer logger.LogAttrs(ctx, slog.LevelDebug, "serving the connection finished")

	var stats *connStats
	if rcdr := opts.stats(); rcdr != nil {
		stats = rcdr.connStats(conn.LocalAddr())
	}

	prs := sip.NewPacketParser(opts.parser())
	ctx = sip.ContextWithPacketParser(ctx, prs)
	buf := make([]byte, opts.readBufSize())
	for {
		if err := setReadDeadline(conn, opts.readTimeout()); err != nil {
			return errtrace.Wrap(loopErr(ctx, err))
		}

		num, raddr, err := conn.ReadFrom(buf)
		if num > 0 {
			stats.bytesRead(num)
			if msg := prs.Parse(buf[:num]); msg != nil {
				dispatch(context.WithValue(ctx, rmtAddrCtxKey, raddr), h, msg, prs.Err(),
					logger.With(slog.Any("remote_addr", raddr)), stats)
			} else {
				stats.drop()
				logger.LogAttrs(ctx, slog.LevelDebug, "discard inbound datagram",
					slog.Any("remote_addr", raddr),
					slog.Any("data", log.StringValue(buf[:num])),
					slog.Any("error", prs.Err()),
				)
			}
			prs.ClearError()
		}
		if err != nil {
			if ctx.Err() == nil && !errorutil.IsTimeoutErr(err) && errorutil.IsTemporaryErr(err) {
				logger.LogAttrs(ctx, slog.LevelDebug, "temporary read error", slog.Any("error", err))
				continue
			}
			return errtrace.Wrap(loopErr(ctx, err))
		}
	}
}

func dispatch(
	ctx context.Context,
	h Handler,
	msg sip.Message,
	perr *sip.ParseError,
	logger *slog.Logger,
	stats *connStats,
) {
	stats.msgRead(msg, perr)
	if perr != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "inbound message parsing error",
			slog.Any("message", msg),
			slog.Any("error", perr),
		)
		ctx = context.WithValue(ctx, parseErrCtxKey, perr)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "message received", slog.Any("message", msg))

	h.HandleMessage(context.WithValue(ctx, loggerCtxKey, logger), msg)
}

func setReadDeadline(c deadliner, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return errtrace.Wrap(c.SetReadDeadline(time.Now().Add(ttl)))
}

// loopErr translates an error that broke a serve loop.
func loopErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr //errtrace:skip
	}
	if errorutil.IsTimeoutErr(err) {
		return errtrace.Wrap(errors.Join(ErrReadTimeout, err))
	}
	return err //errtrace:skip
}
