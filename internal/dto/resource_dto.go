package dto

// Section type identifiers accepted by the add/delete resource endpoints.
const (
	SectionQuestions             = "questions"
	SectionInstructions          = "instructions"
	SectionRubric                = "rubric"
	SectionChecklist             = "checklist"
	SectionParticipationCriteria = "participation_criteria"
	SectionAnswerKey             = "answer_key"
)

// QuestionAddRequest adds one question. Options arrive in array order and
// are keyed by sequential lowercase letters server-side. The client may
// send its temporary id; it is echoed back for reconciliation.
type QuestionAddRequest struct {
	ClientID string   `json:"_id"`
	Question string   `json:"question" validate:"required"`
	Type     string   `json:"type"`
	Points   int      `json:"points" validate:"omitempty,min=0"`
	Options  []string `json:"options" validate:"omitempty,max=26,dive,required"`
	Answer   string   `json:"answer"`
}

// InstructionAddRequest adds one instruction section.
type InstructionAddRequest struct {
	ClientID string `json:"_id"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// CriterionAddRequest adds a rubric row or participation criterion.
// Capitalised aliases are populated by older clients.
type CriterionAddRequest struct {
	ClientID     string `json:"_id"`
	Criterion    string `json:"criterion"`
	Description  string `json:"description"`
	Points       int    `json:"points" validate:"omitempty,min=0"`
	CriterionCap string `json:"Criterion"`
	DescCap      string `json:"Description"`
	PointsCap    int    `json:"Points"`
}

// ChecklistAddRequest adds one checklist item.
type ChecklistAddRequest struct {
	ClientID string `json:"_id"`
	Item     string `json:"item" validate:"required"`
	Required bool   `json:"required"`
}

// ResourceAddResponse confirms an optimistic add: the echoed client id,
// the durable server id, and the refreshed parent assignment.
type ResourceAddResponse struct {
	ClientID   string           `json:"client_id,omitempty"`
	ResourceID uint             `json:"resource_id"`
	Section    string           `json:"section"`
	Assignment AssignmentDetail `json:"assignment"`
}
