package sip

import (
	"errors"
	"io"
	"iter"
	"maps"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
)

// Headers holds message headers grouped by canonical name.
// Headers of the same name keep the order they were added in.
type Headers map[HeaderName][]Header

// Get returns all headers with the name.
// The name is canonicalized, so compact forms are accepted.
func (hs Headers) Get(name HeaderName) []Header {
	if hs == nil {
		return nil
	}
	return hs[CanonicHeaderName(name)]
}

// Has reports whether at least one header with the name exists.
func (hs Headers) Has(name HeaderName) bool { return len(hs.Get(name)) > 0 }

// Append adds headers after the existing ones of the same name.
func (hs Headers) Append(hdrs ...Header) Headers {
	for _, hdr := range hdrs {
		if hdr == nil {
			continue
		}
		n := hdr.CanonicName()
		hs[n] = append(hs[n], hdr)
	}
	return hs
}

// Prepend adds the header before the existing ones of the same name.
func (hs Headers) Prepend(hdr Header) Headers {
	if hdr == nil {
		return hs
	}
	n := hdr.CanonicName()
	hs[n] = slices.Insert(hs[n], 0, hdr)
	return hs
}

// Set replaces all headers of the header name with hdr.
func (hs Headers) Set(hdr Header) Headers {
	if hdr == nil {
		return hs
	}
	hs[hdr.CanonicName()] = []Header{hdr}
	return hs
}

// Del removes all headers with the name.
func (hs Headers) Del(name HeaderName) Headers {
	delete(hs, CanonicHeaderName(name))
	return hs
}

// CopyFrom copies headers with the given names from other.
func (hs Headers) CopyFrom(other Headers, name HeaderName, names ...HeaderName) Headers {
	for _, n := range append([]HeaderName{name}, names...) {
		for _, hdr := range other.Get(n) {
			hs.Append(hdr.Clone())
		}
	}
	return hs
}

// Len returns the number of headers.
func (hs Headers) Len() int {
	var n int
	for _, hdrs := range hs {
		n += len(hdrs)
	}
	return n
}

// All iterates over headers in rendering order.
func (hs Headers) All() iter.Seq[Header] {
	return func(yield func(Header) bool) {
		for _, n := range hdrNames(hs) {
			for _, hdr := range hs[n] {
				if !yield(hdr) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy of the headers.
func (hs Headers) Clone() Headers {
	if hs == nil {
		return nil
	}
	hs2 := make(Headers, len(hs))
	for n, hdrs := range hs {
		hs2[n] = make([]Header, len(hdrs))
		for i := range hdrs {
			hs2[n][i] = hdrs[i].Clone()
		}
	}
	return hs2
}

// first returns the first header of the name that has the type T.
// Headers kept unparsed as [header.Any] are skipped.
func first[T Header](hs Headers, name HeaderName) (T, bool) {
	for _, hdr := range hs.Get(name) {
		if h, ok := hdr.(T); ok {
			return h, true
		}
	}
	var zero T
	return zero, false
}

// Via iterates over hops of all Via headers, the topmost hop goes first.
func (hs Headers) Via() iter.Seq[header.ViaHop] {
	return func(yield func(header.ViaHop) bool) {
		for _, hdr := range hs.Get("Via") {
			via, ok := hdr.(header.Via)
			if !ok {
				continue
			}
			for _, hop := range via {
				if !yield(hop) {
					return
				}
			}
		}
	}
}

// Contact iterates over addresses of all Contact headers.
func (hs Headers) Contact() iter.Seq[header.ContactAddr] {
	return func(yield func(header.ContactAddr) bool) {
		for _, hdr := range hs.Get("Contact") {
			cnt, ok := hdr.(header.Contact)
			if !ok {
				continue
			}
			for _, addr := range cnt {
				if !yield(addr) {
					return
				}
			}
		}
	}
}

// From returns the From header.
func (hs Headers) From() (*header.From, bool) { return first[*header.From](hs, "From") }

// To returns the To header.
func (hs Headers) To() (*header.To, bool) { return first[*header.To](hs, "To") }

// CallID returns the Call-ID header.
func (hs Headers) CallID() (header.CallID, bool) { return first[header.CallID](hs, "Call-ID") }

// CSeq returns the CSeq header.
func (hs Headers) CSeq() (*header.CSeq, bool) { return first[*header.CSeq](hs, "CSeq") }

// MaxForwards returns the Max-Forwards header.
func (hs Headers) MaxForwards() (header.MaxForwards, bool) {
	return first[header.MaxForwards](hs, "Max-Forwards")
}

// ContentLength returns the Content-Length header.
func (hs Headers) ContentLength() (header.ContentLength, bool) {
	return first[header.ContentLength](hs, "Content-Length")
}

// ContentType returns the Content-Type header.
func (hs Headers) ContentType() (*header.ContentType, bool) {
	return first[*header.ContentType](hs, "Content-Type")
}

// hdrOrder is the rendering order of well-known headers.
// Other headers follow them sorted by name, Content-Type and Content-Length always go last.
var hdrOrder = []HeaderName{
	"Via",
	"Route",
	"Record-Route",
	"Max-Forwards",
	"From",
	"To",
	"Call-ID",
	"CSeq",
	"Contact",
}

var hdrOrderIdx = func() map[HeaderName]int {
	m := make(map[HeaderName]int, len(hdrOrder)+2)
	for i, n := range hdrOrder {
		m[n] = i - len(hdrOrder)
	}
	m["Content-Type"] = 1
	m["Content-Length"] = 2
	return m
}()

func hdrNames(hs Headers) []HeaderName {
	names := slices.Collect(maps.Keys(hs))
	slices.SortFunc(names, func(a, b HeaderName) int {
		if ia, ib := hdrOrderIdx[a], hdrOrderIdx[b]; ia != ib {
			return ia - ib
		}
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})
	return names
}

func renderHdrs(w io.Writer, hs Headers, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for hdr := range hs.All() {
		cw.Call(func(w io.Writer) (int, error) {
			return errtrace.Wrap2(hdr.RenderTo(w, opts))
		})
		cw.Fprint("\r\n")
	}
	return errtrace.Wrap2(cw.Result())
}

func compareHdrs(hs1, hs2 Headers) bool {
	if len(hs1) != len(hs2) {
		return false
	}
	for n, hdrs1 := range hs1 {
		hdrs2, ok := hs2[n]
		if !ok || !slices.EqualFunc(hdrs1, hdrs2, func(h1, h2 Header) bool { return h1.Equal(h2) }) {
			return false
		}
	}
	return true
}

func validateHdrs(hs Headers) error {
	var errs []error
	for hdr := range hs.All() {
		if !types.IsValid(hdr) {
			errs = append(errs, errorutil.Errorf("invalid header %q", hdr.Render(nil)))
		}
	}
	return errors.Join(errs...) //errtrace:skip
}
