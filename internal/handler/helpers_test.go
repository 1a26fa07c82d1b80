package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Assignment{},
		&models.Question{},
		&models.InstructionSection{},
		&models.RubricItem{},
		&models.ChecklistItem{},
		&models.ParticipationCriterion{},
		&models.AnswerKeyEntry{},
		&models.Class{},
		&models.Student{},
		&models.Teacher{},
	))
	return db
}

// asUser stands in for the JWT middleware in tests.
func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id)
		c.Locals("user_role", "teacher")
		return c.Next()
	}
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func dataAs(t *testing.T, payload utils.APIResponse, target interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postJSON(path, body string) *http.Request  { return jsonRequest(http.MethodPost, path, body) }
func putJSON(path, body string) *http.Request   { return jsonRequest(http.MethodPut, path, body) }
func patchJSON(path, body string) *http.Request { return jsonRequest(http.MethodPatch, path, body) }

var nopLogger = zerolog.Nop()
