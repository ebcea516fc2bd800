package kfmt

import "io"

// PrefixWriter is an io.Writer that forwards writes to Sink and injects
// Prefix in front of every line. The hal uses it to tag driver messages
// with the name of the driver that emitted them.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	midLine bool
}

// Reset replaces the prefix and makes the next write start a new line.
func (w *PrefixWriter) Reset(prefix []byte) {
	w.Prefix = prefix
	w.midLine = false
}

// Write writes p to the sink, emitting the prefix before the first byte of
// every line. The injected prefix is not included in the returned count.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, lineStart int

	for lineStart < len(p) {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		lineEnd := lineStart
		for lineEnd < len(p) && p[lineEnd] != '\n' {
			lineEnd++
		}

		if lineEnd < len(p) {
			// include the line feed; the next byte starts a new line
			lineEnd++
			w.midLine = false
		}

		n, err := w.Sink.Write(p[lineStart:lineEnd])
		written += n
		if err != nil {
			return written, err
		}

		lineStart = lineEnd
	}

	return written, nil
}
