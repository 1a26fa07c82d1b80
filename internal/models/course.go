package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Instructor identifies who teaches a course.
type Instructor struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// RequiredMaterial is one entry of the syllabus reading list.
type RequiredMaterial struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Required  bool   `json:"required"`
}

// GradingComponent is one row of the grading policy map.
type GradingComponent struct {
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

// WeeklyScheduleEntry describes one week of the course plan.
type WeeklyScheduleEntry struct {
	Week        int    `json:"week"`
	Topic       string `json:"topic"`
	Readings    string `json:"readings"`
	Assignments string `json:"assignments"`
}

// ParsedSyllabus is the nested structured representation of a course
// syllabus edited by the accordion editor and rendered by the preview.
type ParsedSyllabus struct {
	CourseTitle        string                      `json:"course_title"`
	Instructor         Instructor                  `json:"instructor"`
	Term               string                      `json:"term"`
	CourseDescription  string                      `json:"course_description"`
	LearningObjectives []string                    `json:"learning_objectives"`
	RequiredMaterials  []RequiredMaterial          `json:"required_materials"`
	GradingPolicy      map[string]GradingComponent `json:"grading_policy"`
	WeeklySchedule     []WeeklyScheduleEntry       `json:"weekly_schedule"`
	Policies           map[string]string           `json:"policies"`
}

// GradingTotal sums the percentage fields of the grading policy.
func (p ParsedSyllabus) GradingTotal() int {
	total := 0
	for _, component := range p.GradingPolicy {
		total += component.Percentage
	}
	return total
}

// Course is a taught course together with its syllabus.
type Course struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OwnerID        uint   `gorm:"index" json:"owner_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Subject        string `gorm:"size:128" json:"subject"`
	Grade          string `gorm:"size:32" json:"grade"`
	Description    string `gorm:"type:text" json:"description"`
	SyllabusPDFURL string `gorm:"size:512" json:"syllabus_pdf_url"`

	SyllabusRaw datatypes.JSON `gorm:"column:parsed_syllabus;type:json" json:"-"`
	Syllabus    ParsedSyllabus `gorm:"-" json:"parsed_syllabus"`

	AIPrompt         string `gorm:"type:text" json:"-"`
	AIAdditionalInfo string `gorm:"type:text" json:"-"`

	Assignments []Assignment `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave serialises the parsed syllabus into its JSON column.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	payload, err := json.Marshal(c.Syllabus)
	if err != nil {
		return err
	}
	c.SyllabusRaw = datatypes.JSON(payload)
	return nil
}

// AfterFind hydrates the parsed syllabus from its JSON column.
func (c *Course) AfterFind(tx *gorm.DB) error {
	if len(c.SyllabusRaw) == 0 {
		return nil
	}
	return json.Unmarshal(c.SyllabusRaw, &c.Syllabus)
}
