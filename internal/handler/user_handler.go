package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tappress/checkbox/internal/service"
)

// UserHandler handles sign-up, sign-in and token refresh endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SignUpRequest represents a registration request.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInRequest represents a login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokensRequest represents a token refresh request.
type RefreshTokensRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokensResponse carries an access/refresh token pair.
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignUp godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 200 {object} TokensResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/sign-up [post]
func (h *UserHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, err := h.userService.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TokensResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} TokensResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/sign-in [post]
func (h *UserHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, err := h.userService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TokensResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshTokens godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshTokensRequest true "Refresh token"
// @Success 200 {object} TokensResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/refresh-tokens [post]
func (h *UserHandler) RefreshTokens(c echo.Context) error {
	var req RefreshTokensRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, err := h.userService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TokensResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
