package mdw

import (
	"fmt"
	"io"
)

// writeOutput writes s to w in full.
func writeOutput(w io.Writer, s string) error {
	n, err := io.WriteString(w, s)
	if err != nil {
		return &Error{Category: CategorySink, Err: ErrSink, Cause: err}
	}
	if n != len(s) {
		return &Error{
			Category: CategorySink,
			Err:      ErrSink,
			Cause:    fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(s)),
		}
	}
	return nil
}
