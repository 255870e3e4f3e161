package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

type contextKey string

const reqMetaKey = contextKey("r-metadata")

// RequestMetadata is filled in by the upgrade chain and read by the handler.
type RequestMetadata struct {
	IP      string
	Channel state.Channel
	// UserID is the verified session subject, zero for anonymous upgrades.
	UserID    int64
	StartedAt time.Time
}

func ReqMetadataFrom(ctx context.Context) (*RequestMetadata, bool) {
	reqMeta, ok := ctx.Value(reqMetaKey).(*RequestMetadata)
	return reqMeta, ok
}

// RequestMetadataMiddleware must run first: every later middleware reads the
// metadata it injects. Channel is empty outside /ws/{channel}.
func RequestMetadataMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			reqMeta := &RequestMetadata{
				IP:        ip,
				Channel:   state.Channel(chi.URLParam(r, "channel")),
				StartedAt: time.Now(),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), reqMetaKey, reqMeta)))
		})
	}
}
