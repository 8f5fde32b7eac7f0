package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/handler"
	"github.com/tappress/checkbox/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	receiptHandler *handler.ReceiptHandler,
	userService service.UserService,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := e.Group("/users")
	users.POST("/sign-up", userHandler.SignUp)
	users.POST("/sign-in", userHandler.SignIn)
	users.POST("/refresh-tokens", userHandler.RefreshTokens)

	// Plaintext renderings are public: a printed receipt is shareable by id.
	e.GET("/receipts/:id/plaintext", receiptHandler.GetPlaintext)
	e.GET("/receipts/:id/plaintext/download", receiptHandler.DownloadPlaintext)

	receipts := e.Group("/receipts", authMiddleware(userService))
	receipts.POST("", receiptHandler.Create)
	receipts.GET("", receiptHandler.List)
	receipts.GET("/:id", receiptHandler.GetByID)
}

// authMiddleware resolves the bearer token to a user row and stores it in the
// request context. A token whose subject no longer exists is rejected the
// same way as an invalid one.
func authMiddleware(userService service.UserService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.UserContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			userID, err := userService.ResolveAccessToken(token)
			if err != nil {
				return nil, err
			}
			user, err := userService.GetByID(c.Request().Context(), userID)
			if err != nil {
				return nil, errors.NewUnauthorized("Could not validate credentials")
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			detail := "Credentials were not provided"
			var domainErr *errors.Error
			if stderrors.As(err, &domainErr) {
				detail = domainErr.Message
			}
			return c.JSON(http.StatusUnauthorized, errors.ErrorResponse{
				Detail: detail,
				Code:   string(errors.KindUnauthorized),
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
