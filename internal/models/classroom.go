package models

import "time"

// Class is a roster grouping of students and teachers.
type Class struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Subject      string     `gorm:"size:128" json:"subject"`
	Grade        string     `gorm:"size:32" json:"grade"`
	Section      string     `gorm:"size:32" json:"section"`
	AcademicYear string     `gorm:"size:32" json:"academic_year"`
	Students     []*Student `gorm:"many2many:class_students" json:"students,omitempty"`
	Teachers     []*Teacher `gorm:"many2many:class_teachers" json:"teachers,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Student is a roster record; membership lives on the join table.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Classes   []*Class  `gorm:"many2many:class_students" json:"classes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Teacher is a roster record for co-teacher listings, distinct from the
// authenticated User account.
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:64;default:teacher" json:"role"`
	Classes   []*Class  `gorm:"many2many:class_teachers" json:"classes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
