package handler

import (
	"net/http"
	"testing"

	identityapp "github.com/bizgrow/backend/internal/application/identity"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(svc *MockAuthService, userID uuid.UUID) *gin.Engine {
	h := NewAuthHandler(svc)
	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)

	claims := &auth.Claims{UserID: userID.String(), Role: "merchant"}
	claims.ID = "jti-1"
	authed := router.Group("", func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, asUser(userID, "merchant"))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	authed.PUT("/auth/me", h.UpdateProfile)
	authed.PUT("/auth/password", h.ChangePassword)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAuthService)
	router := newAuthRouter(svc, uuid.New())

	req := identityapp.RegisterRequest{Email: "meera@example.in", Password: "s3cretpass", Name: "Meera", Role: "merchant"}
	svc.On("Register", mock.Anything, req).Return(&identityapp.AuthResponse{
		Token: &auth.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"},
		User:  identityapp.UserResponse{Email: req.Email, Role: "merchant"},
	}, nil)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/register", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var out identityapp.AuthResponse
	decodeData(t, resp, &out)
	assert.Equal(t, "a", out.Token.AccessToken)
	assert.Equal(t, "merchant", out.User.Role)
	svc.AssertExpectations(t)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	svc := new(MockAuthService)
	router := newAuthRouter(svc, uuid.New())

	w, resp := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": "not-an-email", "password": "short", "name": "M",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"wrong password", identityapp.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"locked", identityapp.ErrAccountLocked, http.StatusForbidden, dto.ErrCodeAccountLocked},
		{"inactive", identityapp.ErrAccountInactive, http.StatusForbidden, dto.ErrCodeAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			router := newAuthRouter(svc, uuid.New())
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			w, resp := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
				"email": "meera@example.in", "password": "whatever",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAuthHandler_LoginMergesLocalState(t *testing.T) {
	svc := new(MockAuthService)
	router := newAuthRouter(svc, uuid.New())
	storeID := uuid.New()

	svc.On("Login", mock.Anything, mock.MatchedBy(func(r identityapp.LoginRequest) bool {
		return r.Local != nil && r.Local.StoreID == storeID && len(r.Local.Cart) == 1
	})).Return(&identityapp.AuthResponse{Token: &auth.TokenPair{AccessToken: "a"}}, nil)

	w, _ := doJSON(t, router, http.MethodPost, "/auth/login", map[string]any{
		"email":    "meera@example.in",
		"password": "whatever",
		"local": map[string]any{
			"store_id": storeID,
			"cart":     []map[string]any{{"product_id": uuid.New(), "quantity": 2}},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := new(MockAuthService)
	router := newAuthRouter(svc, uuid.New())
	svc.On("Refresh", mock.Anything, identityapp.RefreshRequest{RefreshToken: "old"}).
		Return(nil, identityapp.ErrInvalidToken)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": "old"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	userID := uuid.New()

	t.Run("with refresh token", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc, userID)
		svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool { return c.ID == "jti-1" }),
			identityapp.LogoutRequest{RefreshToken: "r"}).Return(nil)

		w, _ := doJSON(t, router, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": "r"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty body", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc, userID)
		svc.On("Logout", mock.Anything, mock.Anything, identityapp.LogoutRequest{}).Return(nil)

		w, _ := doJSON(t, router, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	userID := uuid.New()
	svc := new(MockAuthService)
	router := newAuthRouter(svc, userID)

	svc.On("Me", mock.Anything, userID).Return(&identityapp.UserResponse{ID: userID, Name: "Meera"}, nil)
	svc.On("UpdateProfile", mock.Anything, userID, identityapp.UpdateProfileRequest{Name: "Meera K", Phone: "9876543210"}).
		Return(&identityapp.UserResponse{ID: userID, Name: "Meera K"}, nil)
	svc.On("ChangePassword", mock.Anything, userID, identityapp.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "n3wpassword"}).
		Return(nil)

	w, resp := doJSON(t, router, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me identityapp.UserResponse
	decodeData(t, resp, &me)
	assert.Equal(t, "Meera", me.Name)

	w, resp = doJSON(t, router, http.MethodPut, "/auth/me", map[string]string{"name": "Meera K", "phone": "9876543210"})
	assert.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &me)
	assert.Equal(t, "Meera K", me.Name)

	w, _ = doJSON(t, router, http.MethodPut, "/auth/password", map[string]string{"current_password": "old", "new_password": "n3wpassword"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.AssertExpectations(t)
}

func TestAuthHandler_MeWithoutUser(t *testing.T) {
	h := NewAuthHandler(new(MockAuthService))
	router := gin.New()
	router.GET("/auth/me", h.Me)

	w, _ := doJSON(t, router, http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
