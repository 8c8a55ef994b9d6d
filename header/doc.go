// Package header provides typed SIP header fields defined by RFC 3261 and related extensions
// (RFC 3262, RFC 3515, RFC 6665), together with a fast parser for their values.
//
// # Overview
//
// Every header type implements the [Header] interface, which combines [types.Renderer],
// [types.Cloneable[Header]], [types.ValidFlag], and [types.Equalable].
// Headers that are not known to the package are represented by [Any], which keeps the name
// and the unfolded value as received.
//
// # Kinds and names
//
// Each known header has a [Kind]. [Lookup] resolves a header name to its kind with a
// case-insensitive trie, compact forms included:
//
//	k, _ := header.Lookup("content-length") // KindContentLength
//	k, _ = header.Lookup("l")               // KindContentLength
//
// A kind tells whether the header may hold several comma-separated values on one line
// ([Kind.IsNested]) and whether a malformed value invalidates the whole message
// ([Kind.IsCritical]). [CanonicName] normalizes any header name, compact forms resolve to
// the full name of their kind.
//
// # Parsing
//
// Use [Parse] to parse a single "Name: value" line:
//
//	hdr, err := header.Parse("From: <sip:alice@example.com>;tag=1234")
//
// [Kind.Parse] parses a raw value, possibly folded over several lines, for a known kind.
// [Split] splits a list value into its top-level elements, commas inside quoted strings
// and angle brackets do not split. [Unfold] replaces line folds with single spaces.
//
// # Parameters
//
// Header parameters are kept in a [Values] multi-map with lowercased names.
// Quoted values keep their quotes, so they render back unchanged.
//
// Parameter rendering is deterministic: parameters are sorted alphabetically and
// the "q" parameter always goes first.
//
// Parameter comparison follows RFC 3261:
//
//   - parameters present in both headers must have matching values
//   - other parameters present in only one header are ignored
//   - special parameters (defined per header type) must be present in both or neither
//   - unquoted values are compared case-insensitively
//
// # Rendering
//
// Headers can be rendered to strings or written to [io.Writer]:
//
//	str := hdr.Render(nil)      // "Name: Value"
//	val := hdr.RenderValue()    // "Value"
//	hdr.RenderTo(w, opts)       // writes "Name: Value" to w
//
// With [RenderOptions.Compact] set, headers that have a compact form are rendered with it.
package header
