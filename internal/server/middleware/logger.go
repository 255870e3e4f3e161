package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// NewRequestLogger logs each upgrade request and, once the handler returns,
// how long the socket lived and which session it carried.
func NewRequestLogger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqMeta, ok := ReqMetadataFrom(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("upgrade requested",
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.String("ip", reqMeta.IP),
				slog.String("channel", string(reqMeta.Channel)),
			)
			next.ServeHTTP(w, r)
			logger.Debug("upgrade finished",
				slog.String("ip", reqMeta.IP),
				slog.String("channel", string(reqMeta.Channel)),
				slog.Int64("session", reqMeta.UserID),
				slog.Duration("lifetime", time.Since(reqMeta.StartedAt)),
			)
		})
	}
}
