package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tappress/checkbox/internal/errors"
)

// respondError maps a failure to the uniform {detail, code} envelope. Domain
// errors keep their message; anything else is logged and collapsed to a
// generic 500.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
