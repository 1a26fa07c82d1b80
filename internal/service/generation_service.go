package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/gradegenie/gradegenie-api/internal/content"
	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/observability"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/pkg/ai"
	"github.com/gradegenie/gradegenie-api/pkg/lms"
)

// ErrUnknownAssignmentType indicates the wizard submitted a type identifier
// outside the supported set.
var ErrUnknownAssignmentType = errors.New("unknown assignment type")

const (
	defaultQuestionCount  = 5
	defaultQuestionPoints = 5
)

// GenerationService drives the wizard's generate step: call the model,
// normalise the payload, persist the assignment and render the review tabs.
type GenerationService interface {
	Generate(ctx context.Context, ownerID uint, payload dto.GenerateRequest) (dto.GenerateResponse, error)
}

type generationService struct {
	repo      repository.AssignmentRepository
	generator ai.Generator
	renderer  *content.Renderer
	publisher lms.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGenerationService builds the generation service.
func NewGenerationService(repo repository.AssignmentRepository, generator ai.Generator, renderer *content.Renderer, publisher lms.Publisher, validate *validator.Validate, logger zerolog.Logger) GenerationService {
	return &generationService{
		repo:      repo,
		generator: generator,
		renderer:  renderer,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "generation_service").Logger(),
		now:       time.Now,
	}
}

func (s *generationService) Generate(ctx context.Context, ownerID uint, payload dto.GenerateRequest) (dto.GenerateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GenerateResponse{}, err
	}

	info, ok := content.InfoFor(payload.Type)
	if !ok {
		return dto.GenerateResponse{}, fmt.Errorf("%w: %q", ErrUnknownAssignmentType, payload.Type)
	}

	tracer := otel.Tracer("github.com/gradegenie/gradegenie-api/internal/service/generation")
	ctx, span := tracer.Start(ctx, "assignment.generate")
	span.SetAttributes(
		attribute.String("assignment.type", payload.Type),
		attribute.Int("assignment.question_count", payload.NumberOfQuestions),
	)
	defer span.End()

	questionCount := payload.NumberOfQuestions
	if questionCount <= 0 && containsOutput(info.Outputs, content.OutputQuestions) {
		questionCount = defaultQuestionCount
	}

	raw, err := s.generator.GenerateAssignment(ctx, ai.AssignmentInput{
		Title:             payload.Title,
		Topic:             payload.Topic,
		Description:       payload.Description,
		Type:              payload.Type,
		TypeTitle:         info.Title,
		Outputs:           info.Outputs,
		NumberOfQuestions: questionCount,
		Difficulty:        payload.Difficulty,
		Grade:             payload.Grade,
		Subject:           payload.Subject,
	})
	if err != nil {
		observability.Generations().WithLabelValues("assignment", "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate_failed")
		return dto.GenerateResponse{}, err
	}

	bundle, legacy, err := content.Normalize(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize_failed")
		return dto.GenerateResponse{}, err
	}

	restrictToOutputs(&bundle, legacy, info.Outputs)
	fillBundleMetadata(&bundle, payload)
	normalizeQuestions(&bundle, payload.Type)

	assignment, err := s.persist(ctx, ownerID, payload, bundle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		return dto.GenerateResponse{}, err
	}

	rendered, err := s.render(bundle, legacy, assignment)
	if err != nil {
		return dto.GenerateResponse{}, err
	}

	if len(payload.PublishToLMS) > 0 {
		event := lms.PublishEvent{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			Type:         assignment.Type,
			Targets:      payload.PublishToLMS,
			PublishedAt:  s.now(),
		}
		if err := s.publisher.Publish(event); err != nil {
			s.logger.Warn().Err(err).Uint("assignment_id", assignment.ID).Msg("lms publish failed")
		}
	}

	observability.Generations().WithLabelValues("assignment", "success").Inc()
	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Str("type", assignment.Type).
		Int("questions", len(assignment.Questions)).
		Msg("assignment generated")

	return dto.GenerateResponse{
		Assignment: dto.NewAssignmentDetail(assignment),
		Rendered:   rendered,
	}, nil
}

// persist stores the assignment with its generated sections, then derives
// and stores the answer key so entries can reference durable question ids.
func (s *generationService) persist(ctx context.Context, ownerID uint, payload dto.GenerateRequest, bundle content.Bundle) (models.Assignment, error) {
	assignment := models.Assignment{
		OwnerID:        ownerID,
		CourseID:       payload.CourseID,
		Title:          firstFilled(bundle.Title, payload.Title),
		Description:    firstFilled(bundle.Description, payload.Description),
		Type:           payload.Type,
		Subject:        firstFilled(bundle.Subject, payload.Subject),
		Grade:          firstFilled(bundle.Grade, payload.Grade),
		Difficulty:     firstFilled(bundle.Difficulty, payload.Difficulty),
		Topic:          firstFilled(bundle.Topic, payload.Topic),
		PublishTargets: payload.PublishToLMS,
	}

	if payload.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
		if err != nil {
			return models.Assignment{}, fmt.Errorf("invalid due date: %w", err)
		}
		assignment.DueDate = &dueDate
	}

	for _, draft := range bundle.Questions {
		assignment.Questions = append(assignment.Questions, models.Question{
			Text:    draft.Text,
			Type:    firstFilled(draft.Type, payload.Type),
			Points:  draft.Points,
			Options: optionMap(draft.Options),
			Answer:  draft.Answer,
		})
	}
	for i, section := range bundle.Instructions {
		assignment.Instructions = append(assignment.Instructions, models.InstructionSection{
			Title:    section.Title,
			Content:  section.Content,
			Position: i,
		})
	}
	for _, row := range bundle.Rubric {
		assignment.Rubric = append(assignment.Rubric, models.RubricItem{
			Criterion:   row.Criterion,
			Description: row.Description,
			Points:      row.Points,
		})
	}
	for _, item := range bundle.Checklist {
		assignment.Checklist = append(assignment.Checklist, models.ChecklistItem{
			Item:     item.Item,
			Required: item.Required,
		})
	}
	for _, row := range bundle.ParticipationCriteria {
		assignment.ParticipationCriteria = append(assignment.ParticipationCriteria, models.ParticipationCriterion{
			Criterion:   row.Criterion,
			Description: row.Description,
			Points:      row.Points,
		})
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return models.Assignment{}, err
	}

	if containsOutput(content.OutputsFor(payload.Type), content.OutputAnswerKey) {
		for _, entry := range deriveAnswerKey(bundle, assignment.Questions) {
			entry.AssignmentID = assignment.ID
			if err := s.repo.AddAnswerKeyEntry(ctx, &entry); err != nil {
				return models.Assignment{}, err
			}
		}
	}

	return s.repo.GetByID(ctx, assignment.ID)
}

// render produces the HTML for every review tab. Legacy plain-string
// sections take precedence over structured rendering for their kind.
func (s *generationService) render(bundle content.Bundle, legacy content.Legacy, assignment models.Assignment) (map[string]string, error) {
	rendered := make(map[string]string)

	renderKind := func(kind, markdown string) error {
		html, err := s.renderer.HTML(markdown)
		if err != nil {
			return err
		}
		if html != "" {
			rendered[kind] = html
		}
		return nil
	}

	for kind, text := range legacy {
		if err := renderKind(kind, text); err != nil {
			return nil, err
		}
	}

	for _, kind := range bundle.ActiveOutputs() {
		if _, done := rendered[kind]; done {
			continue
		}

		var markdown string
		switch kind {
		case content.OutputQuestions:
			markdown = s.renderer.QuestionsMarkdown(bundle)
		case content.OutputInstructions:
			markdown = s.renderer.InstructionsMarkdown(bundle)
		case content.OutputRubric:
			markdown = s.renderer.RubricMarkdown(bundle, bundle.Rubric)
		case content.OutputParticipationCriteria:
			markdown = s.renderer.RubricMarkdown(bundle, bundle.ParticipationCriteria)
		case content.OutputChecklist:
			markdown = s.renderer.ChecklistMarkdown(bundle)
		case content.OutputPeerEvaluation:
			markdown = bundle.PeerEvaluation
		}

		if err := renderKind(kind, markdown); err != nil {
			return nil, err
		}
	}

	if _, done := rendered[content.OutputAnswerKey]; !done && len(assignment.AnswerKey) > 0 {
		drafts := make([]content.AnswerDraft, 0, len(assignment.AnswerKey))
		for i, entry := range assignment.AnswerKey {
			drafts = append(drafts, content.AnswerDraft{
				QuestionID: fmt.Sprintf("%d", i+1),
				Key:        entry.Key,
				Value:      entry.Value,
			})
		}
		if err := renderKind(content.OutputAnswerKey, content.AnswerKeyText(drafts)); err != nil {
			return nil, err
		}
	}

	return rendered, nil
}

// restrictToOutputs drops any generated section the assignment type does
// not declare, so the review tabs always match the type's output set.
func restrictToOutputs(bundle *content.Bundle, legacy content.Legacy, outputs []string) {
	if !containsOutput(outputs, content.OutputQuestions) {
		bundle.Questions = nil
		delete(legacy, content.OutputQuestions)
	}
	if !containsOutput(outputs, content.OutputInstructions) {
		bundle.Instructions = nil
		delete(legacy, content.OutputInstructions)
	}
	if !containsOutput(outputs, content.OutputRubric) {
		bundle.Rubric = nil
		delete(legacy, content.OutputRubric)
	}
	if !containsOutput(outputs, content.OutputChecklist) {
		bundle.Checklist = nil
		delete(legacy, content.OutputChecklist)
	}
	if !containsOutput(outputs, content.OutputParticipationCriteria) {
		bundle.ParticipationCriteria = nil
		delete(legacy, content.OutputParticipationCriteria)
	}
	if !containsOutput(outputs, content.OutputAnswerKey) {
		bundle.AnswerKey = nil
		delete(legacy, content.OutputAnswerKey)
	}
	if !containsOutput(outputs, content.OutputPeerEvaluation) {
		bundle.PeerEvaluation = ""
		delete(legacy, content.OutputPeerEvaluation)
	}
}

// fillBundleMetadata backfills header fields the model omitted from the
// wizard payload so rendered sections always carry a complete header.
func fillBundleMetadata(bundle *content.Bundle, payload dto.GenerateRequest) {
	bundle.Title = firstFilled(bundle.Title, payload.Title)
	bundle.Description = firstFilled(bundle.Description, payload.Description)
	bundle.Subject = firstFilled(bundle.Subject, payload.Subject)
	bundle.Topic = firstFilled(bundle.Topic, payload.Topic)
	bundle.Grade = firstFilled(bundle.Grade, payload.Grade)
	bundle.Difficulty = firstFilled(bundle.Difficulty, payload.Difficulty)
}

// normalizeQuestions applies point defaults and, for multiple choice,
// re-keys options to contiguous lowercase letters and resolves the answer
// to its option text. An answer matching no option is blanked rather than
// persisted verbatim.
func normalizeQuestions(bundle *content.Bundle, assignmentType string) {
	for i := range bundle.Questions {
		q := &bundle.Questions[i]
		if q.Points <= 0 {
			q.Points = defaultQuestionPoints
		}
		if assignmentType != models.TypeMultipleChoiceQuiz || len(q.Options) == 0 {
			continue
		}
		answer := strings.TrimSpace(q.Answer)
		text := ""
		for key, value := range q.Options {
			if strings.EqualFold(strings.TrimSpace(key), answer) || strings.EqualFold(strings.TrimSpace(value), answer) {
				text = value
				break
			}
		}
		q.Options = relabelOptions(q.Options)
		q.Answer = text
	}
}

// relabelOptions re-keys map-shaped options to contiguous lowercase letters
// starting at "a", in sorted key order. Options the wizard already keyed
// from "a" come back unchanged.
func relabelOptions(options map[string]string) map[string]string {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, options[key])
	}
	return content.LetterOptions(values)
}

// deriveAnswerKey builds answer key rows from the generated payload. The
// model's own entries map positionally onto the persisted questions;
// otherwise entries are derived from question answers directly.
func deriveAnswerKey(bundle content.Bundle, questions []models.Question) []models.AnswerKeyEntry {
	if len(bundle.AnswerKey) > 0 {
		entries := make([]models.AnswerKeyEntry, 0, len(bundle.AnswerKey))
		for i, draft := range bundle.AnswerKey {
			entry := models.AnswerKeyEntry{Key: draft.Key, Value: draft.Value}
			if i < len(questions) {
				entry.QuestionID = questions[i].ID
			}
			entries = append(entries, entry)
		}
		return entries
	}

	entries := make([]models.AnswerKeyEntry, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Answer) == "" {
			continue
		}
		entries = append(entries, models.AnswerKeyEntry{
			QuestionID: q.ID,
			Key:        answerLetter(q),
			Value:      q.Answer,
		})
	}
	return entries
}

// answerLetter finds the option letter whose text matches the answer, or
// empty when the question has no options.
func answerLetter(q models.Question) string {
	for i, value := range q.OptionValues() {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(q.Answer)) {
			return string(rune('a' + i))
		}
	}
	return ""
}

func optionMap(options map[string]string) datatypes.JSONMap {
	if len(options) == 0 {
		return nil
	}
	result := make(datatypes.JSONMap, len(options))
	for key, value := range options {
		result[key] = value
	}
	return result
}

func containsOutput(outputs []string, kind string) bool {
	for _, output := range outputs {
		if output == kind {
			return true
		}
	}
	return false
}

func firstFilled(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
