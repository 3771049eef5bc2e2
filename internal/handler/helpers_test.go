package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// setupUserContext stores an authenticated user ID on the request, the way
// the auth middleware does after token validation
func setupUserContext(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}
