package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStructuredSections(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Fractions Quiz",
		"subject": "Math",
		"grade": 5,
		"difficultyLevel": "easy",
		"questions": [
			{"question": "What is 1/2 + 1/4?", "options": ["3/4", "2/6", "1/8"], "answer": "3/4", "points": 2},
			{"questionText": "Simplify 4/8", "correctAnswer": "1/2", "marks": 3}
		],
		"rubric": [{"Criterion": "Work shown", "Description": "Steps visible", "Points": 10}],
		"answerKey": [{"questionId": "1", "key": "a", "value": "3/4"}, {"questionId": "2", "key": "N/A", "value": "1/2"}]
	}`)

	bundle, legacy, err := Normalize(raw)
	require.NoError(t, err)
	require.Nil(t, legacy)

	require.Equal(t, "Fractions Quiz", bundle.Title)
	// Numeric grades come through as text.
	require.Equal(t, "5", bundle.Grade)

	require.Len(t, bundle.Questions, 2)
	require.Equal(t, "3/4", bundle.Questions[0].Options["a"])
	require.Equal(t, 2, bundle.Questions[0].Points)
	require.Equal(t, "Simplify 4/8", bundle.Questions[1].Text)
	require.Equal(t, "1/2", bundle.Questions[1].Answer)
	require.Equal(t, 3, bundle.Questions[1].Points)

	require.Len(t, bundle.Rubric, 1)
	require.Equal(t, "Work shown", bundle.Rubric[0].Criterion)
	require.Equal(t, 10, bundle.Rubric[0].Points)

	require.Len(t, bundle.AnswerKey, 2)
	require.Equal(t, "a", bundle.AnswerKey[0].Key)
	// The "N/A" placeholder key collapses to empty.
	require.Empty(t, bundle.AnswerKey[1].Key)
}

func TestNormalizeLegacyStringSections(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Debate Prep",
		"instructions": "Prepare three arguments for your assigned position.",
		"rubric": "Graded on clarity and evidence."
	}`)

	bundle, legacy, err := Normalize(raw)
	require.NoError(t, err)

	require.Empty(t, bundle.Instructions)
	require.Empty(t, bundle.Rubric)
	require.Equal(t, "Prepare three arguments for your assigned position.", legacy[OutputInstructions])
	require.Equal(t, "Graded on clarity and evidence.", legacy[OutputRubric])
}

func TestNormalizeNestedInstructionSections(t *testing.T) {
	raw := json.RawMessage(`{
		"instructions": {"sections": [{"title": "Setup", "content": "Gather materials."}]}
	}`)

	bundle, legacy, err := Normalize(raw)
	require.NoError(t, err)
	require.Nil(t, legacy)
	require.Len(t, bundle.Instructions, 1)
	require.Equal(t, "Setup", bundle.Instructions[0].Title)
}

func TestNormalizeOptionsAsMap(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [{"question": "Pick one", "options": {"a": "Yes", "b": "No"}, "answer": "b"}]
	}`)

	bundle, _, err := Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, "No", bundle.Questions[0].Options["b"])
}

func TestNormalizeMalformedPayload(t *testing.T) {
	_, _, err := Normalize(json.RawMessage(`{"questions": [{"question": 42}]}`))
	require.Error(t, err)
}

func TestLetterOptions(t *testing.T) {
	options := LetterOptions([]string{" Red ", "Green", "Blue"})
	require.Equal(t, map[string]string{"a": "Red", "b": "Green", "c": "Blue"}, options)
	require.Nil(t, LetterOptions(nil))
}

func TestActiveOutputsOrder(t *testing.T) {
	bundle := Bundle{
		Questions:      []QuestionDraft{{Text: "Q"}},
		Checklist:      []ChecklistDraft{{Item: "Bring notes"}},
		AnswerKey:      []AnswerDraft{{Key: "a"}},
		PeerEvaluation: "Rate your partner's contribution.",
	}
	require.Equal(t, []string{
		OutputQuestions,
		OutputChecklist,
		OutputAnswerKey,
		OutputPeerEvaluation,
	}, bundle.ActiveOutputs())

	require.Empty(t, Bundle{}.ActiveOutputs())
}
