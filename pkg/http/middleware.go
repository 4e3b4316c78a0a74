package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/futuretea/k8stools-mcp-server/pkg/logging"
	"github.com/futuretea/k8stools-mcp-server/pkg/metrics"
)

// RequestMiddleware logs every request and counts it by path and status code.
// Health checks are logged at debug level only.
func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(lrw.statusCode)).Inc()
		if r.URL.Path == healthEndpoint {
			logging.Debug("%s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
			return
		}
		logging.Info("%s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if lrw.headerWritten {
		return
	}
	lrw.statusCode = code
	lrw.headerWritten = true
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.headerWritten = true
	return lrw.ResponseWriter.Write(b)
}

// Flush keeps streaming responses (SSE) working through the wrapper.
func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
