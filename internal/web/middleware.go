package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog/log"
)

// requestLogger logs one line per request once it completes.
func requestLogger(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        defer func() {
            log.Info().
                Str("request_id", middleware.GetReqID(r.Context())).
                Str("method", r.Method).
                Str("path", r.URL.Path).
                Int("status", ww.Status()).
                Int("bytes", ww.BytesWritten()).
                Dur("elapsed", time.Since(start)).
                Msg("request")
        }()
        next.ServeHTTP(ww, r)
    })
}
