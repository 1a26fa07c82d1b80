package dto

// GenerateRequest is the wizard payload submitted to the generation
// endpoint. Field names match the wizard form.
type GenerateRequest struct {
	Title             string   `json:"title" validate:"required,min=3"`
	Topic             string   `json:"topic"`
	Description       string   `json:"description"`
	Type              string   `json:"type" validate:"required"`
	NumberOfQuestions int      `json:"numberOfQuestions" validate:"omitempty,min=1,max=50"`
	PublishToLMS      []string `json:"publishToLMS"`
	Difficulty        string   `json:"difficultyLevel"`
	Grade             string   `json:"grade"`
	Subject           string   `json:"subject"`
	CourseID          *uint    `json:"course_id"`
	DueDate           string   `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// GenerateResponse returns the persisted assignment alongside rendered HTML
// per output kind; the review screen shows one tab per entry of
// Assignment.Outputs.
type GenerateResponse struct {
	Assignment AssignmentDetail  `json:"assignment"`
	Rendered   map[string]string `json:"rendered,omitempty"`
}

// WizardDraft mirrors the in-progress wizard form persisted between
// sessions so a reload does not lose progress.
type WizardDraft struct {
	SelectedType      string   `json:"selectedType"`
	Title             string   `json:"title"`
	Grade             string   `json:"grade"`
	Subject           string   `json:"subject"`
	Difficulty        string   `json:"difficulty"`
	SelectedCourse    string   `json:"selectedCourse"`
	Description       string   `json:"description"`
	NumberOfQuestions int      `json:"numberOfQuestions,omitempty"`
	PublishToLMS      []string `json:"publishToLMS,omitempty"`
}
