package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/handler"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
	"github.com/tappress/checkbox/internal/service"
)

// stubUserService resolves exactly one token to one user id; user is the row
// that id maps to, if any.
type stubUserService struct {
	validToken string
	userID     string
	user       *model.User
}

func (s *stubUserService) SignUp(ctx context.Context, email, password string) (string, string, error) {
	return "", "", nil
}

func (s *stubUserService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	return "", "", nil
}

func (s *stubUserService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	return "", "", nil
}

func (s *stubUserService) ResolveAccessToken(token string) (string, error) {
	if token != s.validToken {
		return "", errors.NewUnauthorized("Could not validate credentials")
	}
	return s.userID, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return nil
}

// stubReceiptService serves an empty account with no receipts.
type stubReceiptService struct{}

func (s *stubReceiptService) Create(ctx context.Context, userID string, input service.CreateReceiptInput) (*model.Receipt, error) {
	return nil, errors.NewNotFound("Receipt (id=%s) not found", "")
}

func (s *stubReceiptService) GetUserReceipt(ctx context.Context, receiptID, userID string) (*model.Receipt, error) {
	return nil, errors.NewNotFound("Receipt (id=%s) not found", receiptID)
}

func (s *stubReceiptService) List(ctx context.Context, userID string, filter repository.ReceiptFilter, offset, limit int) ([]model.Receipt, int64, error) {
	return []model.Receipt{}, 0, nil
}

func (s *stubReceiptService) GetPlaintext(ctx context.Context, receiptID string, lineLength int) (string, error) {
	return "receipt text\n", nil
}

func newTestServer(userService service.UserService) *echo.Echo {
	e := echo.New()
	receiptService := &stubReceiptService{}
	Register(e, handler.NewUserHandler(userService), handler.NewReceiptHandler(receiptService), userService)
	return e
}

func TestAuthMiddleware(t *testing.T) {
	userService := &stubUserService{
		validToken: "valid-token",
		userID:     "u1",
		user:       &model.User{ID: "u1", Email: "cashier@example.com"},
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "no credentials",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Credentials were not provided",
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Credentials were not provided",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer garbage",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Could not validate credentials",
		},
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			wantStatus: http.StatusOK,
		},
	}

	e := newTestServer(userService)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/receipts", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantDetail != "" {
				var resp errors.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantDetail, resp.Detail)
				assert.Equal(t, "UNAUTHORIZED", resp.Code)
			}
		})
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	// The token is well-formed but its subject no longer has an account.
	userService := &stubUserService{validToken: "valid-token", userID: "gone", user: nil}

	e := newTestServer(userService)
	req := httptest.NewRequest(http.MethodGet, "/receipts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer valid-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Could not validate credentials", resp.Detail)
}

func TestPublicRoutes(t *testing.T) {
	e := newTestServer(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Plaintext renderings need no account.
	req = httptest.NewRequest(http.MethodGet, "/receipts/r1/plaintext", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "receipt text\n", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/receipts/r1/plaintext/download", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
}
