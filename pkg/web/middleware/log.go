package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// statusWriter records the response status so the request log can carry it.
// Handlers that never call WriteHeader implicitly return 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func clientIP(req *http.Request) net.IP {
	if forwarded := req.Header.Get("X-Forwarded-For"); len(forwarded) > 1 {
		return net.ParseIP(forwarded)
	}
	if realIP := req.Header.Get("X-Real-IP"); len(realIP) > 1 {
		return net.ParseIP(realIP)
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(req.RemoteAddr)
}

// Log writes one line per request. Security operations keep their own audit
// trail; this is the transport-level record of who called what.
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Str("remote_addr", clientIP(r).String()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
