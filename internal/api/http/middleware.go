package http

import (
	"context"
	"net/http"
	"strings"

	"campusrent-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user-id"

// AuthMiddleware validates the Bearer token and injects the caller's user id
// into the request context. Authentication only; each service performs its
// own owner/renter authorization.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, security.ErrWrongTokenType)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[0:7], "BEARER ") {
		return header[7:]
	}
	return header
}

// userID returns the authenticated caller's id placed by AuthMiddleware.
func userID(r *http.Request) int32 {
	id, _ := r.Context().Value(userIDKey).(int32)
	return id
}
