package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/config"
)

// AppClaims is the session token issued by the account service.
type AppClaims struct {
	jwt.RegisteredClaims
}

// NewAuthMiddleware verifies the session cookie when one is sent and records
// its subject. Without a configured secret it is a pass-through; without
// Required, requests carrying no cookie continue anonymously.
func NewAuthMiddleware(logger *slog.Logger, cfg config.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg.JWTSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqMeta, ok := ReqMetadataFrom(r.Context())
			if !ok {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				if cfg.Required {
					logger.Warn("session cookie missing", slog.String("ip", reqMeta.IP))
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseSession(cookie.Value, cfg.JWTSecret)
			if err != nil {
				logger.Warn("invalid session token", slog.String("ip", reqMeta.IP), slog.Any("error", err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			reqMeta.UserID = userID
			next.ServeHTTP(w, r)
		})
	}
}

func parseSession(tokenString, secret string) (int64, error) {
	claims := &AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenSignatureInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, jwt.ErrTokenInvalidSubject
	}
	return userID, nil
}
