// Package ioutil contains small I/O helpers used by the renderers.
package ioutil

import (
	"fmt"
	"io"
	"sync"

	"braces.dev/errtrace"
)

// CountingWriter wraps an io.Writer, sums written bytes and remembers the first error.
// After the first error all further writes are no-ops.
type CountingWriter struct {
	w   io.Writer
	num int
	err error
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, errtrace.Wrap(cw.err)
	}
	n, err := cw.w.Write(p)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
	return n, errtrace.Wrap(cw.err)
}

func (cw *CountingWriter) WriteString(s string) (int, error) {
	if cw.err != nil {
		return 0, errtrace.Wrap(cw.err)
	}
	n, err := io.WriteString(cw.w, s)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
	return n, errtrace.Wrap(cw.err)
}

func (cw *CountingWriter) Fprint(args ...any) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprint(cw.w, args...)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
}

// Fprintf writes formatted output.
func (cw *CountingWriter) Fprintf(format string, args ...any) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprintf(cw.w, format, args...)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
}

// Call executes a RenderTo-style function and counts its output.
func (cw *CountingWriter) Call(fn func(io.Writer) (int, error)) {
	if cw.err != nil {
		return
	}
	n, err := fn(cw.w)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
}

// Result returns the total number of bytes written and the first error encountered.
func (cw *CountingWriter) Result() (int, error) {
	return cw.num, errtrace.Wrap(cw.err)
}

var cntWrtPool = &sync.Pool{
	New: func() any { return &CountingWriter{} },
}

func GetCountingWriter(w io.Writer) *CountingWriter {
	cw := cntWrtPool.Get().(*CountingWriter) //nolint:forcetypeassert
	cw.w = w
	return cw
}

func FreeCountingWriter(cw *CountingWriter) {
	cw.w = nil
	cw.num = 0
	cw.err = nil
	cntWrtPool.Put(cw)
}
