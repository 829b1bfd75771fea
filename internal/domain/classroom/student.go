package classroom

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// AETLevel is the Autism Education Trust progress indicator, ordered from least to most developed.
type AETLevel string

const (
	AETNotYetDeveloped AETLevel = "not_yet_developed"
	AETDeveloping      AETLevel = "developing"
	AETEstablished     AETLevel = "established"
	AETGeneralised     AETLevel = "generalised"
)

var aetOrder = map[AETLevel]int{
	AETNotYetDeveloped: 0,
	AETDeveloping:      1,
	AETEstablished:     2,
	AETGeneralised:     3,
}

func (l AETLevel) Valid() bool {
	_, ok := aetOrder[l]
	return ok
}

// Rank orders levels; unknown levels rank -1.
func (l AETLevel) Rank() int {
	if r, ok := aetOrder[l]; ok {
		return r
	}
	return -1
}

func (l AETLevel) Label() string {
	switch l {
	case AETNotYetDeveloped:
		return "Not yet developed"
	case AETDeveloping:
		return "Developing"
	case AETEstablished:
		return "Established"
	case AETGeneralised:
		return "Generalised"
	default:
		return string(l)
	}
}

type CommunicationMode string

const (
	CommunicationVerbal    CommunicationMode = "verbal"
	CommunicationNonVerbal CommunicationMode = "non_verbal"
	CommunicationPECS      CommunicationMode = "pecs"
	CommunicationMakaton   CommunicationMode = "makaton"
)

func (m CommunicationMode) Valid() bool {
	switch m {
	case CommunicationVerbal, CommunicationNonVerbal, CommunicationPECS, CommunicationMakaton:
		return true
	default:
		return false
	}
}

func (m CommunicationMode) Label() string {
	switch m {
	case CommunicationVerbal:
		return "Verbal"
	case CommunicationNonVerbal:
		return "Non-verbal"
	case CommunicationPECS:
		return "PECS user"
	case CommunicationMakaton:
		return "Makaton"
	default:
		return string(m)
	}
}

type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageArabic    Language = "ar"
	LanguageBilingual Language = "bilingual"
)

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic || l == LanguageBilingual
}

func (l Language) NeedsEnglish() bool { return l == LanguageEnglish || l == LanguageBilingual }
func (l Language) NeedsArabic() bool  { return l == LanguageArabic || l == LanguageBilingual }

// ParseLanguage normalizes loose input ("EN", "arabic", "both").
func ParseLanguage(raw string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "english":
		return LanguageEnglish, true
	case "ar", "arabic":
		return LanguageArabic, true
	case "bilingual", "both", "en+ar":
		return LanguageBilingual, true
	default:
		return "", false
	}
}

// Student is a learner profile owned by one teacher.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TeacherID string `gorm:"column:teacher_id;not null;index" json:"teacherId"`

	Name               string                      `gorm:"column:name;not null" json:"name"`
	Age                *int                        `gorm:"column:age" json:"age,omitempty"`
	AETLevel           AETLevel                    `gorm:"column:aet_level;not null;default:developing" json:"aetLevel"`
	CommunicationLevel CommunicationMode           `gorm:"column:communication_level;not null;default:verbal" json:"communicationLevel"`
	SensoryPreference  string                      `gorm:"column:sensory_preference" json:"sensoryPreference,omitempty"`
	LearningGoals      datatypes.JSONSlice[string] `gorm:"column:learning_goals" json:"learningGoals"`
	PrimaryInterest    string                      `gorm:"column:primary_interest" json:"primaryInterest,omitempty"`
	PreferredLanguage  Language                    `gorm:"column:preferred_language;not null;default:en" json:"preferredLanguage"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Student) TableName() string { return "student" }
