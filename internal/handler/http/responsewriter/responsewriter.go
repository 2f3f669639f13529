// Package responsewriter wraps http.ResponseWriter so middleware can
// observe the status code and body size after the handler runs.
package responsewriter

import "net/http"

// ResponseWriter records the status code and byte count of a response.
// The zero status is 200, matching net/http's implicit WriteHeader.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	started bool
}

// Wrap returns a recording wrapper around w.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code written. Duplicate calls
// are dropped so only the code the client actually received is kept.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.started {
		return
	}
	w.started = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// StatusCode returns the status sent to the client.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten returns the number of body bytes written so far.
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Flush forwards to the underlying writer when it supports streaming.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
