package sip

//go:generate go tool errtrace -w .

import (
	"math"

	"github.com/ghettovoice/sipwire/internal/types"
)

const (
	// maxMsgSize is the default limit of a message body, the max size of the IP packet.
	maxMsgSize = math.MaxUint16
)

// ProtoInfo is a protocol name and version, such as SIP/2.0.
// See [types.ProtoInfo].
type ProtoInfo = types.ProtoInfo

// Proto20 is the SIP/2.0 protocol.
var Proto20 = ProtoInfo{Name: "SIP", Version: "2.0"}

// Values is a multi-map of parameters.
// See [types.Values].
type Values = types.Values

// RenderOptions controls message rendering.
// See [types.RenderOptions].
type RenderOptions = types.RenderOptions

// ResponseStatus is a response status code.
// See [types.ResponseStatus].
type ResponseStatus = types.ResponseStatus

// ResponseReason is a response reason phrase.
// See [types.ResponseReason].
type ResponseReason = types.ResponseReason

// Response status codes used by the parser.
const (
	ResponseStatusBadRequest            = types.ResponseStatusBadRequest
	ResponseStatusRequestEntityTooLarge = types.ResponseStatusRequestEntityTooLarge
)
