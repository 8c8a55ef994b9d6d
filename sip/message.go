package sip

import (
	"fmt"
	"log/slog"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Message is a SIP message, either [*Request] or [*Response].
type Message interface {
	types.Renderer
	fmt.Stringer
	slog.LogValuer
	// MessageHeaders returns the message headers.
	MessageHeaders() Headers
	// MessageBody returns the message body.
	MessageBody() []byte
	// MessageContentType returns the type of the body, nil if the message has no body.
	MessageContentType() *header.ContentType
	Clone() Message
	Equal(val any) bool
	types.ValidFlag
	types.Validatable
}

// msgBuilder is implemented by messages the parser fills incrementally.
type msgBuilder interface {
	Message
	setHeaders(hs Headers)
	setBody(body []byte, ct *header.ContentType)
}

func logMsgAttrs(attrs []slog.Attr, hs Headers) []slog.Attr {
	if hop, ok := util.IterFirst(hs.Via()); ok {
		attrs = append(attrs, slog.Any("Via", hop))
	}
	if from, ok := hs.From(); ok {
		attrs = append(attrs, slog.Any("From", from))
	}
	if to, ok := hs.To(); ok {
		attrs = append(attrs, slog.Any("To", to))
	}
	if callID, ok := hs.CallID(); ok {
		attrs = append(attrs, slog.Any("Call-ID", callID))
	}
	if cseq, ok := hs.CSeq(); ok {
		attrs = append(attrs, slog.Any("CSeq", cseq))
	}
	return attrs
}
