package httpapi

import (
	"net/http"
	"time"
)

// responseWriterWrapper intercepts WriteHeader so the request log carries
// the status code.
type responseWriterWrapper struct {
	http.ResponseWriter
	writtenResponseCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.writtenResponseCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(b []byte) (int, error) {
	if w.writtenResponseCode == 0 {
		w.writtenResponseCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// logRequest is middleware that logs incoming HTTP requests.
func (s *HTTPServer) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()

		writer := responseWriterWrapper{ResponseWriter: w}
		next.ServeHTTP(&writer, r)

		elapsed := time.Since(start)

		args := []any{
			"method", r.Method,
			"url", r.URL.String(),
			"duration_ms", float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
			"status_code", writer.writtenResponseCode,
			"ip", r.RemoteAddr,
		}

		if writer.writtenResponseCode >= 500 {
			s.logger.Error(r.Context(), "Request", args...)
		} else {
			s.logger.Info(r.Context(), "Request", args...)
		}
	})
}

// Handler builds the route table. Every route requires a bearer token.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/objects/{author}", s.requireToken(s.handleUpload))
	mux.HandleFunc("GET /api/objects/{kind}/{author}", s.requireToken(s.handleList))
	mux.HandleFunc("GET /api/objects/{kind}/{id}/{author}", s.requireToken(s.handleDownload))
	mux.HandleFunc("DELETE /api/objects/{author}", s.requireToken(s.handleDelete))

	mux.HandleFunc("GET /api/storage/max", s.requireToken(s.handleMaxStorage))
	mux.HandleFunc("GET /api/storage/{author}", s.requireToken(s.handleStorageUsed))

	mux.HandleFunc("POST /api/accounts/{author}/dirs", s.requireToken(s.handleProvision))

	return s.logRequest(mux)
}
