package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, name, source, payload string) error {
	t.Helper()
	schema, err := compileSchema(name, source)
	require.NoError(t, err)

	var decoded interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	return schema.Validate(decoded)
}

func TestAssignmentSchemaAcceptsStructuredPayload(t *testing.T) {
	payload := `{
		"title": "Fractions Quiz",
		"grade": 5,
		"questions": [
			{"question": "What is 1/2 + 1/4?", "options": ["3/4", "2/6"], "answer": "3/4", "points": 2}
		],
		"answerKey": [{"questionId": "1", "key": "a", "value": "3/4"}]
	}`
	require.NoError(t, validate(t, "assignment.json", assignmentSchema, payload))
}

func TestAssignmentSchemaAcceptsLegacyStrings(t *testing.T) {
	payload := `{
		"title": "Debate Prep",
		"instructions": "Prepare three arguments.",
		"rubric": "Graded on clarity."
	}`
	require.NoError(t, validate(t, "assignment.json", assignmentSchema, payload))
}

func TestAssignmentSchemaRejectsMissingTitle(t *testing.T) {
	require.Error(t, validate(t, "assignment.json", assignmentSchema, `{"questions": []}`))
}

func TestAssignmentSchemaRejectsMalformedQuestion(t *testing.T) {
	payload := `{"title": "Quiz", "questions": [{"points": 2}]}`
	require.Error(t, validate(t, "assignment.json", assignmentSchema, payload))
}

func TestSyllabusSchemaAcceptsPayload(t *testing.T) {
	payload := `{
		"course_title": "Introduction to Marine Biology",
		"term": "Fall 2026",
		"grading_policy": {"exams": {"percentage": 40}},
		"weekly_schedule": [{"week": 1, "topic": "Ocean zones"}]
	}`
	require.NoError(t, validate(t, "syllabus.json", syllabusSchema, payload))
}

func TestSyllabusSchemaRejectsMissingTitle(t *testing.T) {
	require.Error(t, validate(t, "syllabus.json", syllabusSchema, `{"term": "Fall 2026"}`))
}
