package types

import (
	"fmt"

	"github.com/ghettovoice/sipwire/internal/util"
)

// Statuses the decoder produces or answers with.
const (
	ResponseStatusTrying                ResponseStatus = 100
	ResponseStatusRinging               ResponseStatus = 180
	ResponseStatusOK                    ResponseStatus = 200
	ResponseStatusBadRequest            ResponseStatus = 400
	ResponseStatusRequestEntityTooLarge ResponseStatus = 413
	ResponseStatusUnsupportedURIScheme  ResponseStatus = 416
	ResponseStatusServerInternalError   ResponseStatus = 500
	ResponseStatusVersionNotSupported   ResponseStatus = 505
)

// ResponseStatus is a three-digit status code of a response.
type ResponseStatus uint

// IsValid reports whether the status is in the 100-699 range.
func (s ResponseStatus) IsValid() bool { return s >= 100 && s <= 699 }

func (s ResponseStatus) Equal(val any) bool {
	switch v := val.(type) {
	case ResponseStatus:
		return s == v
	case *ResponseStatus:
		return v != nil && s == *v
	default:
		return false
	}
}

// Class returns the first digit of the status, 0 for an invalid status.
func (s ResponseStatus) Class() uint {
	if !s.IsValid() {
		return 0
	}
	return uint(s) / 100
}

func (s ResponseStatus) IsProvisional() bool { return s.Class() == 1 }

func (s ResponseStatus) IsFinal() bool { return s.Class() > 1 }

// Reason returns the default reason phrase of the status.
// Unknown statuses of a known class get the reason of the class, RFC 3261 Section 8.1.3.2.
func (s ResponseStatus) Reason() ResponseReason {
	if r, ok := reasons[s]; ok {
		return r
	}
	return reasons[ResponseStatus(s.Class()*100)]
}

func (s ResponseStatus) String() string { return fmt.Sprintf("%d %s", uint(s), s.Reason()) }

// ResponseReason is a reason phrase of a response.
type ResponseReason string

func (ResponseReason) IsValid() bool { return true }

// Equal compares reasons case-insensitively.
func (r ResponseReason) Equal(val any) bool {
	switch v := val.(type) {
	case ResponseReason:
		return util.EqFold(r, v)
	case *ResponseReason:
		return v != nil && util.EqFold(r, *v)
	default:
		return false
	}
}

// RFC 3261 Section 21.
var reasons = map[ResponseStatus]ResponseReason{
	100: "Trying",
	180: "Ringing",
	181: "Call Is Being Forwarded",
	182: "Queued",
	183: "Session Progress",

	200: "OK",

	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Moved Temporarily",
	305: "Use Proxy",
	380: "Alternative Service",

	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	410: "Gone",
	413: "Request Entity Too Large",
	414: "Request-URI Too Long",
	415: "Unsupported Media Type",
	416: "Unsupported URI Scheme",
	420: "Bad Extension",
	421: "Extension Required",
	423: "Interval Too Brief",
	480: "Temporarily Unavailable",
	481: "Call/Transaction Does Not Exist",
	482: "Loop Detected",
	483: "Too Many Hops",
	484: "Address Incomplete",
	485: "Ambiguous",
	486: "Busy Here",
	487: "Request Terminated",
	488: "Not Acceptable Here",
	491: "Request Pending",
	493: "Undecipherable",

	500: "Server Internal Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Server Time-out",
	505: "Version Not Supported",
	513: "Message Too Large",

	600: "Busy Everywhere",
	603: "Decline",
	604: "Does Not Exist Anywhere",
	606: "Not Acceptable",
}
