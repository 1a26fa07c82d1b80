package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

func setupAssignmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Assignment{},
		&models.Question{},
		&models.InstructionSection{},
		&models.RubricItem{},
		&models.ChecklistItem{},
		&models.ParticipationCriterion{},
		&models.AnswerKeyEntry{},
	))
	return db
}

func TestAssignmentRepositoryListSearchesAndPaginates(t *testing.T) {
	db := setupAssignmentTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	for _, title := range []string{"Photosynthesis Quiz", "Cell Division Quiz", "Climate Essay"} {
		require.NoError(t, repo.Create(ctx, &models.Assignment{OwnerID: 1, Title: title, Type: "essay"}))
	}
	require.NoError(t, repo.Create(ctx, &models.Assignment{OwnerID: 2, Title: "Other Teacher Quiz", Type: "essay"}))

	items, total, err := repo.List(ctx, 1, AssignmentFilter{Search: "quiz"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	items, total, err = repo.List(ctx, 1, AssignmentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)
}

func TestAssignmentRepositoryGetByIDPreloadsSections(t *testing.T) {
	db := setupAssignmentTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	assignment := models.Assignment{
		OwnerID: 1,
		Title:   "Lab Report",
		Type:    "lab_report",
		Instructions: []models.InstructionSection{
			{Title: "Setup", Content: "Gather materials.", Position: 0},
			{Title: "Procedure", Content: "Record observations.", Position: 1},
		},
		Rubric: []models.RubricItem{
			{Criterion: "Accuracy", Description: "Results match expectations", Points: 10},
		},
		Checklist: []models.ChecklistItem{
			{Item: "Safety goggles on", Required: true},
		},
	}
	require.NoError(t, repo.Create(ctx, &assignment))

	loaded, err := repo.GetByID(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Instructions, 2)
	require.Equal(t, "Setup", loaded.Instructions[0].Title)
	require.Len(t, loaded.Rubric, 1)
	require.Len(t, loaded.Checklist, 1)
}

func TestAssignmentRepositoryDeleteSectionItemScopedToAssignment(t *testing.T) {
	db := setupAssignmentTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	first := models.Assignment{OwnerID: 1, Title: "Quiz A", Type: "multiple_choice_quiz",
		Questions: []models.Question{{Text: "Q1"}}}
	second := models.Assignment{OwnerID: 1, Title: "Quiz B", Type: "multiple_choice_quiz",
		Questions: []models.Question{{Text: "Q2"}}}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	// A stale id from another assignment must not delete anything.
	err := repo.DeleteSectionItem(ctx, first.ID, second.Questions[0].ID, "questions")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteSectionItem(ctx, first.ID, first.Questions[0].ID, "questions"))

	loaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Questions)
}

func TestAssignmentRepositoryDelete(t *testing.T) {
	db := setupAssignmentTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	assignment := models.Assignment{OwnerID: 1, Title: "Quiz", Type: "multiple_choice_quiz",
		Questions: []models.Question{{Text: "Q1"}}}
	require.NoError(t, repo.Create(ctx, &assignment))
	require.NoError(t, repo.Delete(ctx, assignment.ID))

	_, err := repo.GetByID(ctx, assignment.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
