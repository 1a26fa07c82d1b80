package service

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupTestDB(t *testing.T) *gorm.DB {
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
