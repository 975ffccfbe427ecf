package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise/library/internal/entities"
)

func setupMiddleware(t *testing.T) (*Middleware, *Service) {
	t.Helper()

	service := NewService(setupTestDB(t), testAuthConfig())
	return NewMiddleware(service, nil), service
}

func signUpApproved(t *testing.T, service *Service) *entities.User {
	t.Helper()
	ctx := context.Background()
	user, err := service.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	require.NoError(t, service.ApproveUser(ctx, user.ID))
	user.Status = entities.UserStatusApproved
	return user
}

func whoAmIRouter(middleware *Middleware, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Handler())
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"email":     GetEmail(c),
			"role":      GetUserRole(c),
			"auth_type": GetAuthType(c),
		})
	})
	router.GET("/api/test", handlers...)
	return router
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestMiddleware_AnonymousRequestPassesThrough(t *testing.T) {
	middleware, _ := setupMiddleware(t)
	router := whoAmIRouter(middleware)

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "", body["user_id"])
	assert.Equal(t, string(AuthTypeNone), body["auth_type"])
}

func TestMiddleware_BearerAuth_ValidToken(t *testing.T) {
	middleware, service := setupMiddleware(t)
	user := signUpApproved(t, service)

	token, err := service.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)

	router := whoAmIRouter(middleware)
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, user.ID, body["user_id"])
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, string(entities.UserRoleUser), body["role"])
	assert.Equal(t, string(AuthTypeBearer), body["auth_type"])
}

func TestMiddleware_BearerAuth_InvalidTokenIsAnonymous(t *testing.T) {
	middleware, _ := setupMiddleware(t)

	testCases := []struct {
		name   string
		header string
	}{
		{"unknown token", "Bearer invalidtoken123"},
		{"missing bearer prefix", "Token abc123"},
		{"basic auth", "Basic abc123"},
		{"no space", "Bearerabc123"},
		{"empty token", "Bearer "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := whoAmIRouter(middleware, middleware.RequireAuth())
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			req.Header.Set("Authorization", tc.header)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestMiddleware_RequireAuth(t *testing.T) {
	middleware, service := setupMiddleware(t)
	user := signUpApproved(t, service)
	token, err := service.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)

	router := whoAmIRouter(middleware, middleware.RequireAuth())

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/test", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, ErrAuthRequired.Error(), body["error"])
		assert.EqualValues(t, http.StatusUnauthorized, body["code"])
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestMiddleware_RequireRole(t *testing.T) {
	middleware, service := setupMiddleware(t)
	ctx := context.Background()

	user := signUpApproved(t, service)
	userToken, err := service.GenerateToken(ctx, user.ID)
	require.NoError(t, err)

	p := validSignUp()
	p.Email = "admin@example.edu"
	p.UniversityID = 1
	admin, err := service.CreateAdmin(ctx, p)
	require.NoError(t, err)
	adminToken, err := service.GenerateToken(ctx, admin.ID)
	require.NoError(t, err)

	router := whoAmIRouter(middleware, middleware.RequireRole(entities.UserRoleAdmin))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"regular user", userToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestMiddleware_TouchesActivityOncePerDay(t *testing.T) {
	middleware, service := setupMiddleware(t)
	ctx := context.Background()
	user := signUpApproved(t, service)
	token, err := service.GenerateToken(ctx, user.ID)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	router := whoAmIRouter(middleware)

	request := func() {
		req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	request()
	stored, err := service.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastActivityDate)
	first := *stored.LastActivityDate
	assert.True(t, sameDay(&first, now))

	now = now.Add(6 * time.Hour)
	request()
	stored, err = service.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastActivityDate.Equal(first), "second request on the same day must not rewrite the activity date")

	now = now.Add(24 * time.Hour)
	request()
	stored, err = service.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, sameDay(stored.LastActivityDate, now))
}

func TestSameDay(t *testing.T) {
	base := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	next := base.Add(time.Hour)
	otherZone := time.Date(2024, 5, 1, 20, 0, 0, 0, time.FixedZone("UTC-3", -3*3600))

	assert.False(t, sameDay(nil, base))
	assert.True(t, sameDay(&base, base.Add(-time.Hour)))
	assert.False(t, sameDay(&base, next))
	assert.True(t, sameDay(&otherZone, base), "comparison happens in UTC")
}

func TestGetters_EmptyContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "", GetUserID(c))
	assert.Equal(t, "", GetEmail(c))
	assert.Equal(t, entities.UserRole(""), GetUserRole(c))
	assert.Equal(t, AuthTypeNone, GetAuthType(c))
	assert.False(t, IsAuthenticated(c))
}
