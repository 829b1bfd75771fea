package classroom

import (
	"time"

	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceStory     ResourceType = "story"
	ResourceWorksheet ResourceType = "worksheet"
	ResourcePECS      ResourceType = "pecs"
)

func (t ResourceType) Valid() bool {
	return t == ResourceStory || t == ResourceWorksheet || t == ResourcePECS
}

// Resource is a saved, teacher-edited resource envelope.
type Resource struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TeacherID string `gorm:"column:teacher_id;not null;index" json:"teacherId"`
	StudentID uint   `gorm:"column:student_id;not null;index" json:"studentId"`

	Title    string         `gorm:"column:title;not null" json:"title"`
	Type     ResourceType   `gorm:"column:type;not null;index" json:"type"`
	Language Language       `gorm:"column:language;not null" json:"language"`
	Content  datatypes.JSON `gorm:"column:content;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Resource) TableName() string { return "resource" }
