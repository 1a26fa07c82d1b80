package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradegenie",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI generation requests",
	}, []string{"kind", "model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradegenie",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of AI generation failures",
	}, []string{"kind", "model"})
)

// OpenAIConfig defines configuration options for the OpenAI generator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGenerator implements Generator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client           *openai.Client
	cfg              OpenAIConfig
	tracer           trace.Tracer
	logger           zerolog.Logger
	assignmentSchema *jsonschema.Schema
	syllabusSchema   *jsonschema.Schema
}

// NewOpenAIGenerator builds a generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	assignment, err := compileSchema("assignment.json", assignmentSchema)
	if err != nil {
		return nil, err
	}

	syllabus, err := compileSchema("syllabus.json", syllabusSchema)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIGenerator{
		client:           openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:              cfg,
		tracer:           otel.Tracer("github.com/gradegenie/gradegenie-api/pkg/ai/openai"),
		logger:           logger,
		assignmentSchema: assignment,
		syllabusSchema:   syllabus,
	}, nil
}

// GenerateAssignment asks the model for a content bundle matching the
// assignment type's output kinds and validates the response shape.
func (g *OpenAIGenerator) GenerateAssignment(parent context.Context, input AssignmentInput) (json.RawMessage, error) {
	return g.complete(parent, "assignment", assignmentSystemPrompt(), buildAssignmentPrompt(input), g.assignmentSchema)
}

// GenerateSyllabus asks the model for a parsed syllabus object.
func (g *OpenAIGenerator) GenerateSyllabus(parent context.Context, input SyllabusInput) (json.RawMessage, error) {
	return g.complete(parent, "syllabus", syllabusSystemPrompt(), buildSyllabusPrompt(input), g.syllabusSchema)
}

func (g *OpenAIGenerator) complete(parent context.Context, kind, system, user string, schema *jsonschema.Schema) (json.RawMessage, error) {
	ctx, span := g.tracer.Start(parent, "openai."+kind, trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(kind, g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, g.fail(span, kind, fmt.Errorf("openai %s: %w", kind, err))
	}

	if len(resp.Choices) == 0 {
		return nil, g.fail(span, kind, fmt.Errorf("no choices returned from openai"))
	}

	payload := json.RawMessage(strings.TrimSpace(resp.Choices[0].Message.Content))

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, g.fail(span, kind, fmt.Errorf("parse %s response: %w", kind, err))
	}
	if err := schema.Validate(decoded); err != nil {
		return nil, g.fail(span, kind, fmt.Errorf("%s response rejected by schema: %w", kind, err))
	}

	return payload, nil
}

func (g *OpenAIGenerator) fail(span trace.Span, kind string, err error) error {
	aiFailures.WithLabelValues(kind, g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	g.logger.Error().Err(err).Str("kind", kind).Msg("generation failed")
	return err
}

func assignmentSystemPrompt() string {
	return "You are an assignment author for teachers. Respond with a single JSON object. Include only the keys named in the " +
		"requested outputs plus title, description, subject, topic, grade, and difficultyLevel. Questions are objects with " +
		"question, type, points, options (array of strings for choice types), and answer. For multiple choice the answer " +
		"must equal one of the options. Rubric, checklist, participationCriteria, and answerKey are arrays of objects."
}

func syllabusSystemPrompt() string {
	return "You are a curriculum designer. Respond with a single JSON object describing a course syllabus: course_title, " +
		"instructor {name, title}, term, course_description, learning_objectives (array of strings), required_materials " +
		"(array of {title, author, publisher, year, required}), grading_policy (map of component to {percentage, " +
		"description}, percentages summing to 100), weekly_schedule (array of {week, topic, readings, assignments}), and " +
		"policies (map of policy name to text)."
}

func buildAssignmentPrompt(input AssignmentInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Assignment Request\n")
	builder.WriteString("Title: ")
	builder.WriteString(input.Title)
	builder.WriteString("\nType: ")
	builder.WriteString(input.TypeTitle)
	builder.WriteString("\nSubject: ")
	builder.WriteString(input.Subject)
	builder.WriteString("\nTopic: ")
	builder.WriteString(input.Topic)
	builder.WriteString("\nGrade Level: ")
	builder.WriteString(input.Grade)
	builder.WriteString("\nDifficulty: ")
	builder.WriteString(input.Difficulty)
	builder.WriteString("\nDescription: ")
	builder.WriteString(input.Description)
	builder.WriteString("\nRequested outputs: ")
	builder.WriteString(strings.Join(input.Outputs, ", "))
	if input.NumberOfQuestions > 0 {
		fmt.Fprintf(&builder, "\nNumber of questions: %d", input.NumberOfQuestions)
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func buildSyllabusPrompt(input SyllabusInput) string {
	builder := strings.Builder{}
	builder.WriteString(input.Prompt)
	if input.AdditionalInfo != "" {
		builder.WriteString("\n\n## Additional Information\n")
		builder.WriteString(input.AdditionalInfo)
	}
	if input.ExtractedText != "" {
		builder.WriteString("\n\n## Uploaded Syllabus Text\n")
		builder.WriteString(input.ExtractedText)
	}
	fmt.Fprintf(&builder, "\n\nCourse: %s (%s, grade %s)\n%s", input.CourseName, input.Subject, input.Grade, input.Description)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
