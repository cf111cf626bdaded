package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

// contextKey is the type of the keys this package stores in contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	// userIDKey is the key used to store the authenticated user's ID.
	userIDKey = contextKey("userID")
)

// WithUserID returns a copy of ctx carrying the caller's user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the user ID from a standard context.
func UserIDFromCtx(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok && userID != 0
}

// parseUserID converts a token subject into a user id.
func parseUserID(subject string) (int64, error) {
	return strconv.ParseInt(subject, 10, 64)
}
