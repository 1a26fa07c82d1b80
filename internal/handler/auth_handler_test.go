package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/middleware"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/internal/service"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	db := openTestDB(t)
	repo := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewAuthService(repo, validate, "test-secret", time.Hour, nopLogger)
	h := handler.NewAuthHandler(svc, nopLogger)

	app := fiber.New()
	group := app.Group("/api/auth")
	h.Register(group)
	h.RegisterProtected(group.Group("", middleware.JWTProtected("test-secret")))
	return app
}

func TestAuthHandler_RegisterLoginProtected(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(postJSON("/api/auth/register", `{"name":"Dana","email":"dana@example.edu","password":"correct-horse"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeResponse(t, resp)

	resp, err = app.Test(postJSON("/api/auth/login", `{"email":"dana@example.edu","password":"correct-horse"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	dataAs(t, decodeResponse(t, resp), &auth)
	require.NotEmpty(t, auth.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/protected", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandler_LoginRejectsBadPassword(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(postJSON("/api/auth/register", `{"name":"Dana","email":"dana@example.edu","password":"correct-horse"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(postJSON("/api/auth/login", `{"email":"dana@example.edu","password":"wrong"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(postJSON("/api/auth/register", `{"name":"D","email":"not-an-email","password":"short"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_ProtectedRequiresToken(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/protected", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
