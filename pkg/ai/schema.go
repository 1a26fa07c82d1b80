package ai

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// assignmentSchema bounds the shape of a generation response: every section
// the model may emit is either a structured array or a plain string, so a
// malformed payload is rejected before it reaches normalisation.
const assignmentSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "subject": {"type": "string"},
    "topic": {"type": "string"},
    "grade": {"type": ["string", "number"]},
    "difficultyLevel": {"type": "string"},
    "questions": {
      "anyOf": [
        {"type": "string"},
        {"type": "array", "items": {
          "type": "object",
          "required": ["question"],
          "properties": {
            "question": {"type": "string"},
            "type": {"type": "string"},
            "points": {"type": "number"},
            "options": {"anyOf": [
              {"type": "array", "items": {"type": "string"}},
              {"type": "object", "additionalProperties": {"type": "string"}}
            ]},
            "answer": {"type": "string"}
          }
        }}
      ]
    },
    "instructions": {
      "anyOf": [
        {"type": "string"},
        {"type": "array"},
        {"type": "object", "required": ["sections"]}
      ]
    },
    "rubric": {"anyOf": [{"type": "string"}, {"type": "array"}]},
    "checklist": {"anyOf": [{"type": "string"}, {"type": "array"}]},
    "participationCriteria": {"anyOf": [{"type": "string"}, {"type": "array"}]},
    "answerKey": {"anyOf": [{"type": "string"}, {"type": "array"}]},
    "peer_evaluation": {"type": "string"}
  }
}`

// syllabusSchema bounds the parsed-syllabus shape returned for courses.
const syllabusSchema = `{
  "type": "object",
  "required": ["course_title"],
  "properties": {
    "course_title": {"type": "string"},
    "instructor": {"type": "object"},
    "term": {"type": "string"},
    "course_description": {"type": "string"},
    "learning_objectives": {"type": "array", "items": {"type": "string"}},
    "required_materials": {"type": "array"},
    "grading_policy": {"type": "object"},
    "weekly_schedule": {"type": "array"},
    "policies": {"type": "object"}
  }
}`

func compileSchema(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader([]byte(source))); err != nil {
		return nil, fmt.Errorf("register %s schema: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return schema, nil
}
