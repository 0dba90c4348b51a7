package middleware

import (
	"context"
	"net/http"

	"fueltracker/backend/libs/auth"
)

// AdminOnly rejects requests without an administrator bearer token before they reach
// pumps-service. The token is still forwarded and checked again upstream.
func AdminOnly(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return auth.Middleware(tokens, true)
}

// UserIDFromContext retrieves the authenticated user id placed by AdminOnly.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}
