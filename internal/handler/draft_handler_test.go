package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/service"
)

func newDraftApp(t *testing.T, cache *redis.Client) *fiber.App {
	t.Helper()
	svc := service.NewDraftService(cache, time.Hour, nopLogger)
	h := handler.NewDraftHandler(svc, nopLogger)

	app := fiber.New()
	h.Register(app.Group("/api/drafts", asUser(1)))
	return app
}

func TestDraftHandler_SaveGetClear(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	app := newDraftApp(t, cache)

	resp, err := app.Test(putJSON("/api/drafts/wizard", `{"selectedType":"essay","title":"Climate Essay"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/drafts/wizard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var draft struct {
		SelectedType string `json:"selectedType"`
	}
	dataAs(t, decodeResponse(t, resp), &draft)
	require.Equal(t, "essay", draft.SelectedType)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/drafts/wizard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/drafts/wizard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftHandler_RejectsMalformedBody(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	app := newDraftApp(t, cache)

	resp, err := app.Test(putJSON("/api/drafts/wizard", `{"title":`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftHandler_UnavailableWithoutStore(t *testing.T) {
	app := newDraftApp(t, nil)

	resp, err := app.Test(putJSON("/api/drafts/wizard", `{}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
