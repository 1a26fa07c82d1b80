package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Legacy holds sections that arrived as pre-rendered plain strings rather
// than structured arrays. They pass through to display unchanged.
type Legacy map[string]string

// Normalize converts a raw generation payload into the canonical bundle.
// Structured sections land in the Bundle; plain-string sections (the legacy
// response shape) are collected separately and returned as Legacy text.
func Normalize(raw json.RawMessage) (Bundle, Legacy, error) {
	var envelope struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Subject     string          `json:"subject"`
		Topic       string          `json:"topic"`
		Grade       json.RawMessage `json:"grade"`
		Difficulty  string          `json:"difficultyLevel"`

		Questions             json.RawMessage `json:"questions"`
		Instructions          json.RawMessage `json:"instructions"`
		Rubric                json.RawMessage `json:"rubric"`
		Checklist             json.RawMessage `json:"checklist"`
		ParticipationCriteria json.RawMessage `json:"participationCriteria"`
		AnswerKey             json.RawMessage `json:"answerKey"`
		PeerEvaluation        string          `json:"peer_evaluation"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Bundle{}, nil, fmt.Errorf("parse generation payload: %w", err)
	}

	bundle := Bundle{
		Title:          envelope.Title,
		Description:    envelope.Description,
		Subject:        envelope.Subject,
		Topic:          envelope.Topic,
		Grade:          stringify(envelope.Grade),
		Difficulty:     envelope.Difficulty,
		PeerEvaluation: envelope.PeerEvaluation,
	}
	legacy := Legacy{}

	if err := section(envelope.Questions, OutputQuestions, &bundle.Questions, legacy); err != nil {
		return Bundle{}, nil, err
	}
	if err := instructionSection(envelope.Instructions, &bundle.Instructions, legacy); err != nil {
		return Bundle{}, nil, err
	}
	if err := section(envelope.Rubric, OutputRubric, &bundle.Rubric, legacy); err != nil {
		return Bundle{}, nil, err
	}
	if err := section(envelope.Checklist, OutputChecklist, &bundle.Checklist, legacy); err != nil {
		return Bundle{}, nil, err
	}
	if err := section(envelope.ParticipationCriteria, OutputParticipationCriteria, &bundle.ParticipationCriteria, legacy); err != nil {
		return Bundle{}, nil, err
	}
	if err := section(envelope.AnswerKey, OutputAnswerKey, &bundle.AnswerKey, legacy); err != nil {
		return Bundle{}, nil, err
	}

	if len(legacy) == 0 {
		legacy = nil
	}
	return bundle, legacy, nil
}

// section decodes a structured array into target, or records a plain string
// under the output kind.
func section[T any](raw json.RawMessage, kind string, target *[]T, legacy Legacy) error {
	if isEmptyJSON(raw) {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.TrimSpace(text) != "" {
			legacy[kind] = text
		}
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("parse %s section: %w", kind, err)
	}
	return nil
}

// instructionSection additionally accepts the nested {sections: [...]} shape
// some generation responses use.
func instructionSection(raw json.RawMessage, target *[]SectionDraft, legacy Legacy) error {
	if isEmptyJSON(raw) {
		return nil
	}

	var nested struct {
		Sections []SectionDraft `json:"sections"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested.Sections) > 0 {
		*target = nested.Sections
		return nil
	}

	return section(raw, OutputInstructions, target, legacy)
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// stringify renders a scalar JSON value (string or number) as text; the
// grade field arrives as either.
func stringify(raw json.RawMessage) string {
	if isEmptyJSON(raw) {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return strings.Trim(string(raw), `"`)
}
