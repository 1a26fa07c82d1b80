package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

func newClassroomFixture(t *testing.T) ClassroomService {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewClassroomRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewClassroomService(repo, validate, testLogger())
}

func TestClassroomRosterLifecycle(t *testing.T) {
	svc := newClassroomFixture(t)
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, dto.ClassCreateRequest{
		Name:         "Period 3 Biology",
		Subject:      "Biology",
		Grade:        "9",
		AcademicYear: "2026-2027",
	})
	require.NoError(t, err)
	require.NotZero(t, class.ID)

	student, err := svc.CreateStudent(ctx, dto.StudentCreateRequest{
		Name:    "Jordan Lee",
		Email:   "jordan.lee@example.edu",
		ClassID: &class.ID,
	})
	require.NoError(t, err)
	require.Len(t, student.Classes, 1)
	require.Equal(t, class.ID, student.Classes[0].ClassID)

	teacher, err := svc.CreateTeacher(ctx, dto.TeacherCreateRequest{
		Name:    "Sam Rivera",
		Email:   "sam.rivera@example.edu",
		ClassID: &class.ID,
	})
	require.NoError(t, err)
	require.Len(t, teacher.Classes, 1)

	loaded, err := svc.GetClass(ctx, class.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{student.ID}, loaded.Students)
	require.Equal(t, []uint{teacher.ID}, loaded.Teachers)

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)

	classes, err := svc.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
}

func TestCreateStudentUnknownClass(t *testing.T) {
	svc := newClassroomFixture(t)

	missing := uint(404)
	_, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{
		Name:    "Jordan Lee",
		Email:   "jordan.lee@example.edu",
		ClassID: &missing,
	})
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestCreateStudentWithoutClass(t *testing.T) {
	svc := newClassroomFixture(t)

	student, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{
		Name:  "Casey Kim",
		Email: "casey.kim@example.edu",
	})
	require.NoError(t, err)
	require.Empty(t, student.Classes)
}
