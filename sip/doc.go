// Package sip decodes SIP messages (RFC 3261) received from datagram and stream transports.
//
// # Messages
//
// A parsed message is a [*Request] or a [*Response], both implement [Message].
// Headers are kept in [Headers] by canonical name, see the [header] package for the typed values.
// Messages render back to wire text with RenderTo and Render.
//
// # Parsing
//
// [PacketParser] takes one message from one datagram:
//
//	p := sip.NewPacketParser(nil)
//	msg := p.Parse(datagram)
//	if perr := p.Err(); perr != nil {
//		// msg is broken, perr.Code and perr.Reason may be used for a response
//		p.ClearError()
//	}
//
// [StreamParser] keeps state between calls and takes messages from chunks of a byte stream,
// it also answers keepalive pings:
//
//	p := sip.NewStreamParser(conn, nil)
//	for {
//		n, err := conn.Read(buf)
//		// ...
//		msg, err := p.Parse(buf[:n])
//		for msg != nil {
//			// handle msg
//			if !p.HasMore() {
//				break
//			}
//			msg, err = p.Parse(nil)
//		}
//	}
//
// Malformed network input never makes parsers fail. Broken parts of a message
// are either tolerated or reported through a latched [ParseError].
// The latched error stays until ClearError is called.
package sip
