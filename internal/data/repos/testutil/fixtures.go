package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/aet-studio-backend/internal/domain"
)

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID, name string) *types.Student {
	tb.Helper()
	age := 7
	s := &types.Student{
		TeacherID:          teacherID,
		Name:               name,
		Age:                &age,
		AETLevel:           types.AETDeveloping,
		CommunicationLevel: types.CommunicationPECS,
		PrimaryInterest:    "dinosaurs",
		PreferredLanguage:  types.LanguageBilingual,
		LearningGoals:      datatypes.JSONSlice[string]{"requests help"},
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID string, studentID uint, title string) *types.Resource {
	tb.Helper()
	r := &types.Resource{
		TeacherID: teacherID,
		StudentID: studentID,
		Title:     title,
		Type:      types.ResourcePECS,
		Language:  types.LanguageEnglish,
		Content:   datatypes.JSON(`{"title":"` + title + `","cards":[]}`),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}
