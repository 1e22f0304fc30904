package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logger writes one line per request. Server errors are logged as warnings
// so the GELF writer raises their level.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		prefix := ""
		if sw.status >= http.StatusInternalServerError {
			prefix = "Warning: "
		}
		log.Printf("%s%s %s %d %s reqid=%s ip=%s", prefix, r.Method, r.URL.Path, sw.status,
			time.Since(start).Round(time.Millisecond), chimw.GetReqID(r.Context()), r.RemoteAddr)
	})
}
