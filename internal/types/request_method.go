package types

import (
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/util"
)

const (
	RequestMethodAck       RequestMethod = "ACK"
	RequestMethodBye       RequestMethod = "BYE"
	RequestMethodCancel    RequestMethod = "CANCEL"
	RequestMethodInfo      RequestMethod = "INFO"
	RequestMethodInvite    RequestMethod = "INVITE"
	RequestMethodKeepAlive RequestMethod = "KEEPALIVE"
	RequestMethodMessage   RequestMethod = "MESSAGE"
	RequestMethodNotify    RequestMethod = "NOTIFY"
	RequestMethodOptions   RequestMethod = "OPTIONS"
	RequestMethodPrack     RequestMethod = "PRACK"
	RequestMethodPublish   RequestMethod = "PUBLISH"
	RequestMethodRefer     RequestMethod = "REFER"
	RequestMethodRegister  RequestMethod = "REGISTER"
	RequestMethodSubscribe RequestMethod = "SUBSCRIBE"
	RequestMethodUpdate    RequestMethod = "UPDATE"

	// RequestMethodIllegal marks a request synthesised from a malformed request line.
	RequestMethodIllegal RequestMethod = "ILLEGAL"
)

type RequestMethod string

// LookupRequestMethod resolves b to one of the standard method constants.
// It guesses the candidate by the first and third characters and then compares the whole word,
// so the returned value for equal inputs is always the same constant.
// Method names are case-sensitive.
func LookupRequestMethod(b []byte) (RequestMethod, bool) {
	if len(b) < 3 {
		return "", false
	}

	var m RequestMethod
	switch b[0] {
	case 'A':
		m = RequestMethodAck
	case 'B':
		m = RequestMethodBye
	case 'C':
		m = RequestMethodCancel
	case 'I':
		switch b[2] {
		case 'V':
			m = RequestMethodInvite
		case 'F':
			m = RequestMethodInfo
		}
	case 'K':
		m = RequestMethodKeepAlive
	case 'M':
		m = RequestMethodMessage
	case 'N':
		m = RequestMethodNotify
	case 'O':
		m = RequestMethodOptions
	case 'P':
		switch b[2] {
		case 'A':
			m = RequestMethodPrack
		case 'B':
			m = RequestMethodPublish
		}
	case 'R':
		switch b[2] {
		case 'F':
			m = RequestMethodRefer
		case 'G':
			m = RequestMethodRegister
		}
	case 'S':
		m = RequestMethodSubscribe
	case 'U':
		m = RequestMethodUpdate
	}
	if m == "" || len(b) != len(m) || string(b) != string(m) {
		return "", false
	}
	return m, true
}

func (m RequestMethod) ToUpper() RequestMethod { return util.UCase(m) }

func (m RequestMethod) ToLower() RequestMethod { return util.LCase(m) }

func (m RequestMethod) IsValid() bool { return grammar.IsToken(string(m)) }

func (m RequestMethod) Equal(val any) bool {
	var other RequestMethod
	switch v := val.(type) {
	case RequestMethod:
		other = v
	case *RequestMethod:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return m == other
}
