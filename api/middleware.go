package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Session is the caller identity carried by a voter session token. The
// membership flags come from the external identity collaborator; this service
// only transports them.
type Session struct {
	DiscordID    string
	Username     string
	AvatarURL    string
	IsMember     bool
	IsClubMember bool
}

// SessionFromContext returns the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxSession).(*Session)
	return s, ok
}

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func parseToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	var tokenString string
	if _, err := fmt.Sscanf(authHeader, "Bearer %s", &tokenString); err != nil {
		logger.Error("failed to parse Authorization header", slog.Any("err", err))
		return ""
	}
	return tokenString
}

// SessionAuthMiddlewareWithSecret requires a valid voter session token and
// places the decoded Session into the request context.
func SessionAuthMiddlewareWithSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				writeError(w, "You must be logged in to vote", http.StatusUnauthorized)
				return
			}

			claims, err := parseToken(tokenString, secret)
			if err != nil {
				writeError(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			s := &Session{}
			if v, ok := claims["discord_id"].(string); ok {
				s.DiscordID = v
			}
			if v, ok := claims["username"].(string); ok {
				s.Username = v
			}
			if v, ok := claims["avatar_url"].(string); ok {
				s.AvatarURL = v
			}
			if v, ok := claims["is_member"].(bool); ok {
				s.IsMember = v
			}
			if v, ok := claims["is_club_member"].(bool); ok {
				s.IsClubMember = v
			}
			if s.DiscordID == "" {
				writeError(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxSession, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuthMiddlewareWithSecret requires a short-lived admin token, either in
// the admin_token cookie set by verify-pin or as a bearer token.
func AdminAuthMiddlewareWithSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if c, err := r.Cookie(adminCookieName); err == nil {
					tokenString = c.Value
				}
			}
			if tokenString == "" {
				writeError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := parseToken(tokenString, secret)
			if err != nil {
				writeError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				writeError(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
