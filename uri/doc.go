// Package uri parses and renders the URIs found in SIP messages (RFC 3261, RFC 3966).
//
// Three URI types implement the [URI] interface:
//
//   - [SIP] for sip: and sips: URIs with user info, host, port, parameters and headers;
//   - [Tel] for tel: telephone numbers, global ("+" prefixed) or local;
//   - [Any] for every other scheme, its scheme data is kept opaque.
//
// [Parser] works at a lexer cursor and is used by the header and message parsers.
// Its options control decoding of escaped octets. [Parse] is a shortcut for a complete string:
//
//	u, err := uri.Parse("sip:alice@atlanta.com;transport=tcp")
//
// [Parser.ParseNameAddr] parses the name-addr / addr-spec forms of From, To, Contact and
// similar headers, and [Parser.ParseParams] parses ";"-delimited parameter lists.
//
// URI values are not safe for concurrent modification, use Clone to share them.
package uri
