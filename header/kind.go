package header

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/uri"
)

// Kind identifies a header known to the package.
// Extension headers have kind [KindUnknown] and are represented by [*Any].
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAccept
	KindAcceptEncoding
	KindAcceptLanguage
	KindAlertInfo
	KindAllow
	KindAllowEvents
	KindAuthenticationInfo
	KindAuthorization
	KindCallID
	KindCallInfo
	KindContact
	KindContentDisposition
	KindContentEncoding
	KindContentLanguage
	KindContentLength
	KindContentType
	KindCSeq
	KindDate
	KindErrorInfo
	KindEvent
	KindExpires
	KindFrom
	KindInReplyTo
	KindMaxForwards
	KindMIMEVersion
	KindMinExpires
	KindOrganization
	KindPriority
	KindProxyAuthenticate
	KindProxyAuthorization
	KindProxyRequire
	KindRAck
	KindRecordRoute
	KindReferTo
	KindReplyTo
	KindRequire
	KindRetryAfter
	KindRoute
	KindRSeq
	KindServer
	KindSubject
	KindSupported
	KindTimestamp
	KindTo
	KindUnsupported
	KindUserAgent
	KindVia
	KindWarning
	KindWWWAuthenticate

	numKinds
)

type parseFunc func(l *lex.Lexer, p *uri.Parser) (Header, error)

type kindInfo struct {
	name, compact Name
	// nested headers may carry several comma-separated values on one line.
	nested bool
	// a value of a critical header that fails to parse makes the whole message bad.
	critical bool
	parse    parseFunc
	zero     func() Header
}

var kinds = [numKinds]kindInfo{
	KindAccept:             {name: "Accept", nested: true, parse: parseAccept, zero: func() Header { return Accept{} }},
	KindAcceptEncoding:     {name: "Accept-Encoding", nested: true, parse: parseAcceptEncoding, zero: func() Header { return AcceptEncoding{} }},
	KindAcceptLanguage:     {name: "Accept-Language", nested: true, parse: parseAcceptLanguage, zero: func() Header { return AcceptLanguage{} }},
	KindAlertInfo:          {name: "Alert-Info", nested: true, parse: parseAlertInfo, zero: func() Header { return AlertInfo{} }},
	KindAllow:              {name: "Allow", nested: true, parse: parseAllow, zero: func() Header { return Allow{} }},
	KindAllowEvents:        {name: "Allow-Events", compact: "u", nested: true, parse: parseAllowEvents, zero: func() Header { return AllowEvents{} }},
	KindAuthenticationInfo: {name: "Authentication-Info", critical: true, parse: parseAuthenticationInfo, zero: func() Header { return &AuthenticationInfo{} }},
	KindAuthorization:      {name: "Authorization", critical: true, parse: parseAuthorization, zero: func() Header { return &Authorization{} }},
	KindCallID:             {name: "Call-ID", compact: "i", critical: true, parse: parseCallID, zero: func() Header { return CallID("") }},
	KindCallInfo:           {name: "Call-Info", nested: true, parse: parseCallInfo, zero: func() Header { return CallInfo{} }},
	KindContact:            {name: "Contact", compact: "m", nested: true, critical: true, parse: parseContact, zero: func() Header { return Contact(nil) }},
	KindContentDisposition: {name: "Content-Disposition", parse: parseContentDisposition, zero: func() Header { return &ContentDisposition{} }},
	KindContentEncoding:    {name: "Content-Encoding", compact: "e", nested: true, parse: parseContentEncoding, zero: func() Header { return ContentEncoding{} }},
	KindContentLanguage:    {name: "Content-Language", nested: true, parse: parseContentLanguage, zero: func() Header { return ContentLanguage{} }},
	KindContentLength:      {name: "Content-Length", compact: "l", critical: true, parse: parseContentLength, zero: func() Header { return ContentLength(0) }},
	KindContentType:        {name: "Content-Type", compact: "c", critical: true, parse: parseContentType, zero: func() Header { return &ContentType{} }},
	KindCSeq:               {name: "CSeq", critical: true, parse: parseCSeq, zero: func() Header { return &CSeq{} }},
	KindDate:               {name: "Date", parse: parseDate, zero: func() Header { return &Date{} }},
	KindErrorInfo:          {name: "Error-Info", nested: true, parse: parseErrorInfo, zero: func() Header { return ErrorInfo{} }},
	KindEvent:              {name: "Event", compact: "o", parse: parseEvent, zero: func() Header { return &Event{} }},
	KindExpires:            {name: "Expires", parse: parseExpires, zero: func() Header { return &Expires{} }},
	KindFrom:               {name: "From", compact: "f", critical: true, parse: parseFrom, zero: func() Header { return &From{} }},
	KindInReplyTo:          {name: "In-Reply-To", nested: true, parse: parseInReplyTo, zero: func() Header { return InReplyTo{} }},
	KindMaxForwards:        {name: "Max-Forwards", critical: true, parse: parseMaxForwards, zero: func() Header { return MaxForwards(0) }},
	KindMIMEVersion:        {name: "MIME-Version", parse: parseMIMEVersion, zero: func() Header { return MIMEVersion("") }},
	KindMinExpires:         {name: "Min-Expires", parse: parseMinExpires, zero: func() Header { return &MinExpires{} }},
	KindOrganization:       {name: "Organization", parse: parseOrganization, zero: func() Header { return Organization("") }},
	KindPriority:           {name: "Priority", parse: parsePriority, zero: func() Header { return Priority("") }},
	KindProxyAuthenticate:  {name: "Proxy-Authenticate", critical: true, parse: parseProxyAuthenticate, zero: func() Header { return &ProxyAuthenticate{} }},
	KindProxyAuthorization: {name: "Proxy-Authorization", critical: true, parse: parseProxyAuthorization, zero: func() Header { return &ProxyAuthorization{} }},
	KindProxyRequire:       {name: "Proxy-Require", nested: true, parse: parseProxyRequire, zero: func() Header { return ProxyRequire{} }},
	KindRAck:               {name: "RAck", critical: true, parse: parseRAck, zero: func() Header { return &RAck{} }},
	KindRecordRoute:        {name: "Record-Route", nested: true, critical: true, parse: parseRecordRoute, zero: func() Header { return RecordRoute{} }},
	KindReferTo:            {name: "Refer-To", compact: "r", critical: true, parse: parseReferTo, zero: func() Header { return &ReferTo{} }},
	KindReplyTo:            {name: "Reply-To", critical: true, parse: parseReplyTo, zero: func() Header { return &ReplyTo{} }},
	KindRequire:            {name: "Require", nested: true, critical: true, parse: parseRequire, zero: func() Header { return Require{} }},
	KindRetryAfter:         {name: "Retry-After", parse: parseRetryAfter, zero: func() Header { return &RetryAfter{} }},
	KindRoute:              {name: "Route", nested: true, critical: true, parse: parseRoute, zero: func() Header { return Route{} }},
	KindRSeq:               {name: "RSeq", critical: true, parse: parseRSeq, zero: func() Header { return RSeq(0) }},
	KindServer:             {name: "Server", parse: parseServer, zero: func() Header { return Server("") }},
	KindSubject:            {name: "Subject", compact: "s", parse: parseSubject, zero: func() Header { return Subject("") }},
	KindSupported:          {name: "Supported", compact: "k", nested: true, critical: true, parse: parseSupported, zero: func() Header { return Supported{} }},
	KindTimestamp:          {name: "Timestamp", critical: true, parse: parseTimestamp, zero: func() Header { return &Timestamp{} }},
	KindTo:                 {name: "To", compact: "t", critical: true, parse: parseTo, zero: func() Header { return &To{} }},
	KindUnsupported:        {name: "Unsupported", nested: true, parse: parseUnsupported, zero: func() Header { return Unsupported{} }},
	KindUserAgent:          {name: "User-Agent", parse: parseUserAgent, zero: func() Header { return UserAgent("") }},
	KindVia:                {name: "Via", compact: "v", nested: true, critical: true, parse: parseVia, zero: func() Header { return Via{} }},
	KindWarning:            {name: "Warning", nested: true, parse: parseWarning, zero: func() Header { return Warning{} }},
	KindWWWAuthenticate:    {name: "WWW-Authenticate", critical: true, parse: parseWWWAuthenticate, zero: func() Header { return &WWWAuthenticate{} }},
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool { return k > KindUnknown && k < numKinds }

// Name returns the canonical header name of the kind.
func (k Kind) Name() Name {
	if !k.IsValid() {
		return ""
	}
	return kinds[k].name
}

// CompactName returns the compact form of the header name, or the canonical name if the kind has no compact form.
func (k Kind) CompactName() Name {
	if !k.IsValid() {
		return ""
	}
	if kinds[k].compact != "" {
		return kinds[k].compact
	}
	return kinds[k].name
}

// IsNested reports whether one header line of the kind may hold several comma-separated values.
func (k Kind) IsNested() bool { return k.IsValid() && kinds[k].nested }

// IsCritical reports whether a malformed value of the kind makes the message bad (RFC 3261 Section 21.4.1).
func (k Kind) IsCritical() bool { return k.IsValid() && kinds[k].critical }

func (k Kind) String() string {
	if !k.IsValid() {
		return "unknown"
	}
	return string(kinds[k].name)
}

// New returns an empty header of the kind.
func (k Kind) New() Header {
	if !k.IsValid() {
		return nil
	}
	return kinds[k].zero()
}

// Parse parses a complete header value of the kind.
// Leading and trailing linear whitespace is ignored, anything else left after the value is an error.
// For nested kinds the value may be a comma-separated list, all its elements end up in the returned header.
func (k Kind) Parse(value []rune, p *uri.Parser) (Header, error) {
	if !k.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown header kind %d", k))
	}

	l := lex.New(value)
	l.LWS()
	hdr, err := kinds[k].parse(l, p)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	l.LWS()
	if !l.Done() {
		return nil, errtrace.Wrap(errorutil.NewGrammarError(l.Pos(), "unexpected %q after %s value", string(l.Rest()), k))
	}
	return hdr, nil
}

// trieNode is a node of the header name trie.
// Edges are case-insensitive ASCII letters and '-'.
type trieNode struct {
	next [27]*trieNode
	kind Kind
}

var (
	nameTrie     trieNode
	compactKinds [26]Kind
	minNameLen   int
	maxNameLen   int
)

func init() {
	minNameLen = len(kinds[KindAccept].name)
	for k := KindUnknown + 1; k < numKinds; k++ {
		info := &kinds[k]
		n := &nameTrie
		for i := 0; i < len(info.name); i++ {
			j := trieIndex(rune(info.name[i]))
			if n.next[j] == nil {
				n.next[j] = new(trieNode)
			}
			n = n.next[j]
		}
		n.kind = k

		minNameLen = min(minNameLen, len(info.name))
		maxNameLen = max(maxNameLen, len(info.name))
		if len(info.compact) == 1 {
			compactKinds[trieIndex(rune(info.compact[0]))] = k
		}
	}
}

func trieIndex(c rune) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c == '-':
		return 26
	default:
		return -1
	}
}

func lookup(n int, at func(i int) rune) Kind {
	if n == 1 {
		if j := trieIndex(at(0)); j >= 0 && j < len(compactKinds) {
			return compactKinds[j]
		}
		return KindUnknown
	}
	if n < minNameLen || n > maxNameLen {
		return KindUnknown
	}

	node := &nameTrie
	for i := range n {
		j := trieIndex(at(i))
		if j < 0 {
			return KindUnknown
		}
		if node = node.next[j]; node == nil {
			return KindUnknown
		}
	}
	return node.kind
}

// Lookup returns the kind of the header name, long or compact, compared case-insensitively.
func Lookup(name string) (Kind, bool) {
	k := lookup(len(name), func(i int) rune { return rune(name[i]) })
	return k, k != KindUnknown
}

// LookupRunes is like [Lookup] but takes the name as runes.
func LookupRunes(name []rune) (Kind, bool) {
	k := lookup(len(name), func(i int) rune { return name[i] })
	return k, k != KindUnknown
}

// New returns an empty header for the name.
// Unknown names produce [*Any] keeping the name as is.
func New(name string) Header {
	if k, ok := Lookup(name); ok {
		return k.New()
	}
	return &Any{Name: name}
}

// NewRunes is like [New] but takes the name as runes.
func NewRunes(name []rune) Header {
	if k, ok := LookupRunes(name); ok {
		return k.New()
	}
	return &Any{Name: lex.Intern(name)}
}

// KindOf returns the kind of the header.
func KindOf(hdr Header) Kind {
	if hdr == nil {
		return KindUnknown
	}
	if _, ok := hdr.(*Any); ok {
		return KindUnknown
	}
	k, _ := Lookup(string(hdr.CanonicName()))
	return k
}
