package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tappress/checkbox/internal/model"
)

// UserContextKey is where the auth middleware stores the resolved user.
const UserContextKey = "user"

// currentUser returns the authenticated user set by the auth middleware.
// Secured routes never reach a handler without it.
func currentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}
