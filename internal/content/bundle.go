package content

import (
	"encoding/json"
	"strings"
)

// Bundle is the canonical shape of a generation response: one slice per
// output kind, empty when the assignment type does not produce it.
type Bundle struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Difficulty  string `json:"difficulty_level,omitempty"`

	Questions             []QuestionDraft  `json:"questions,omitempty"`
	Instructions          []SectionDraft   `json:"instructions,omitempty"`
	Rubric                []CriterionDraft `json:"rubric,omitempty"`
	Checklist             []ChecklistDraft `json:"checklist,omitempty"`
	ParticipationCriteria []CriterionDraft `json:"participation_criteria,omitempty"`
	AnswerKey             []AnswerDraft    `json:"answer_key,omitempty"`
	PeerEvaluation        string           `json:"peer_evaluation,omitempty"`
}

// ActiveOutputs returns the output kinds whose sections are non-empty, in
// display order. The review tabs are exactly this list.
func (b Bundle) ActiveOutputs() []string {
	outputs := make([]string, 0, 7)
	if len(b.Questions) > 0 {
		outputs = append(outputs, OutputQuestions)
	}
	if len(b.Instructions) > 0 {
		outputs = append(outputs, OutputInstructions)
	}
	if len(b.Rubric) > 0 {
		outputs = append(outputs, OutputRubric)
	}
	if len(b.Checklist) > 0 {
		outputs = append(outputs, OutputChecklist)
	}
	if len(b.ParticipationCriteria) > 0 {
		outputs = append(outputs, OutputParticipationCriteria)
	}
	if len(b.AnswerKey) > 0 {
		outputs = append(outputs, OutputAnswerKey)
	}
	if strings.TrimSpace(b.PeerEvaluation) != "" {
		outputs = append(outputs, OutputPeerEvaluation)
	}
	return outputs
}

// QuestionDraft is a question in transit: generated, or submitted by the
// edit screen with a client-assigned temporary id.
type QuestionDraft struct {
	ClientID string            `json:"_id,omitempty"`
	Text     string            `json:"question"`
	Type     string            `json:"type,omitempty"`
	Points   int               `json:"points"`
	Options  map[string]string `json:"options,omitempty"`
	Answer   string            `json:"answer,omitempty"`
}

// UnmarshalJSON accepts the divergent field spellings observed in the wild:
// "questionText" for the text, "correctAnswer" for the answer, "marks" for
// the points, and options either as a letter-keyed map or a bare array.
func (q *QuestionDraft) UnmarshalJSON(data []byte) error {
	var raw struct {
		ClientID      string          `json:"_id"`
		Text          string          `json:"question"`
		QuestionText  string          `json:"questionText"`
		Type          string          `json:"type"`
		Points        int             `json:"points"`
		Marks         int             `json:"marks"`
		Options       json.RawMessage `json:"options"`
		Answer        string          `json:"answer"`
		CorrectAnswer string          `json:"correctAnswer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.ClientID = raw.ClientID
	q.Text = firstNonEmpty(raw.Text, raw.QuestionText)
	q.Type = raw.Type
	q.Points = raw.Points
	if q.Points == 0 {
		q.Points = raw.Marks
	}
	q.Answer = firstNonEmpty(raw.Answer, raw.CorrectAnswer)
	q.Options = nil

	if len(raw.Options) == 0 || string(raw.Options) == "null" {
		return nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw.Options, &asMap); err == nil {
		q.Options = asMap
		return nil
	}

	var asList []string
	if err := json.Unmarshal(raw.Options, &asList); err != nil {
		return err
	}
	q.Options = LetterOptions(asList)
	return nil
}

// LetterOptions keys the supplied option texts by contiguous lowercase
// letters starting at "a", in array order. Reordering is not supported.
func LetterOptions(options []string) map[string]string {
	if len(options) == 0 {
		return nil
	}
	keyed := make(map[string]string, len(options))
	for i, option := range options {
		keyed[string(rune('a'+i))] = strings.TrimSpace(option)
	}
	return keyed
}

// SectionDraft is an instruction section in transit.
type SectionDraft struct {
	ClientID string `json:"_id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// CriterionDraft carries a rubric row or participation criterion.
type CriterionDraft struct {
	ClientID    string `json:"_id,omitempty"`
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// UnmarshalJSON accepts both the lowercase canonical keys and the
// capitalised Criterion/Points/Description variant.
func (c *CriterionDraft) UnmarshalJSON(data []byte) error {
	var raw struct {
		ClientID     string `json:"_id"`
		Criterion    string `json:"criterion"`
		CriterionCap string `json:"Criterion"`
		Description  string `json:"description"`
		DescCap      string `json:"Description"`
		Points       int    `json:"points"`
		PointsCap    int    `json:"Points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ClientID = raw.ClientID
	c.Criterion = firstNonEmpty(raw.Criterion, raw.CriterionCap)
	c.Description = firstNonEmpty(raw.Description, raw.DescCap)
	c.Points = raw.Points
	if c.Points == 0 {
		c.Points = raw.PointsCap
	}
	return nil
}

// ChecklistDraft is a checklist item in transit.
type ChecklistDraft struct {
	ClientID string `json:"_id,omitempty"`
	Item     string `json:"item"`
	Required bool   `json:"required"`
}

// AnswerDraft is one answer key entry in transit. A key of "N/A" collapses
// to empty, matching how the review screen treats it.
type AnswerDraft struct {
	QuestionID string `json:"questionId"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// UnmarshalJSON normalises the "N/A" placeholder key.
func (a *AnswerDraft) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID string `json:"questionId"`
		Key        string `json:"key"`
		Value      string `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.QuestionID = raw.QuestionID
	a.Key = raw.Key
	if strings.EqualFold(a.Key, "N/A") {
		a.Key = ""
	}
	a.Value = raw.Value
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
