package domain

import (
	"errors"

	"github.com/yungbote/aet-studio-backend/internal/domain/classroom"
)

type (
	Student           = classroom.Student
	Resource          = classroom.Resource
	AETLevel          = classroom.AETLevel
	CommunicationMode = classroom.CommunicationMode
	Language          = classroom.Language
	ResourceType      = classroom.ResourceType
)

const (
	AETNotYetDeveloped = classroom.AETNotYetDeveloped
	AETDeveloping      = classroom.AETDeveloping
	AETEstablished     = classroom.AETEstablished
	AETGeneralised     = classroom.AETGeneralised

	CommunicationVerbal    = classroom.CommunicationVerbal
	CommunicationNonVerbal = classroom.CommunicationNonVerbal
	CommunicationPECS      = classroom.CommunicationPECS
	CommunicationMakaton   = classroom.CommunicationMakaton

	LanguageEnglish   = classroom.LanguageEnglish
	LanguageArabic    = classroom.LanguageArabic
	LanguageBilingual = classroom.LanguageBilingual

	ResourceStory     = classroom.ResourceStory
	ResourceWorksheet = classroom.ResourceWorksheet
	ResourcePECS      = classroom.ResourcePECS
)

var ParseLanguage = classroom.ParseLanguage

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrResourceNotFound = errors.New("resource not found")
)

// Models lists every persisted model for auto-migration.
func Models() []any {
	return []any{&Student{}, &Resource{}}
}
