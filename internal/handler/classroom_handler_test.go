package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/internal/service"
)

func newClassroomApp(t *testing.T) *fiber.App {
	t.Helper()
	db := openTestDB(t)
	repo := repository.NewClassroomRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewClassroomService(repo, validate, nopLogger)
	h := handler.NewClassroomHandler(svc, nopLogger)

	app := fiber.New()
	h.RegisterClasses(app.Group("/api/classes", asUser(1)))
	h.RegisterStudents(app.Group("/api/students", asUser(1)))
	h.RegisterTeachers(app.Group("/api/teachers", asUser(1)))
	return app
}

func TestClassroomHandler_Roster(t *testing.T) {
	app := newClassroomApp(t)

	resp, err := app.Test(postJSON("/api/classes", `{"name":"Period 3 Biology","subject":"Biology","grade":"9"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var class dto.ClassResponse
	dataAs(t, decodeResponse(t, resp), &class)
	require.NotZero(t, class.ID)

	body := fmt.Sprintf(`{"name":"Jordan Lee","email":"jordan.lee@example.edu","class_id":%d}`, class.ID)
	resp, err = app.Test(postJSON("/api/students", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var student dto.StudentResponse
	dataAs(t, decodeResponse(t, resp), &student)
	require.Len(t, student.Classes, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/classes/%d", class.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loaded dto.ClassResponse
	dataAs(t, decodeResponse(t, resp), &loaded)
	require.Equal(t, []uint{student.ID}, loaded.Students)
}

func TestClassroomHandler_StudentUnknownClass(t *testing.T) {
	app := newClassroomApp(t)

	resp, err := app.Test(postJSON("/api/students", `{"name":"Jordan Lee","email":"jordan.lee@example.edu","class_id":404}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClassroomHandler_TeacherCreate(t *testing.T) {
	app := newClassroomApp(t)

	resp, err := app.Test(postJSON("/api/teachers", `{"name":"Sam Rivera","email":"sam.rivera@example.edu"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/teachers", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var teachers []dto.TeacherResponse
	dataAs(t, decodeResponse(t, resp), &teachers)
	require.Len(t, teachers, 1)
	require.Equal(t, "teacher", teachers[0].Role)
}
