// Package content models generated resource trees as one typed variant per resource type.
package content

import (
	"github.com/yungbote/aet-studio-backend/internal/domain"
)

// Target node counts requested from the text model.
const (
	StorySteps         = 4
	PecsCards          = 6
	WorksheetQuestions = 3
	WorksheetChoices   = 3
)

// Content is a parsed resource tree. Variants are *Story, *Pecs and *Worksheet.
type Content interface {
	Kind() domain.ResourceType
	ContentTitle() string
	Clone() Content
}

type Step struct {
	TextEN      string `json:"text_en,omitempty"`
	TextAR      string `json:"text_ar,omitempty"`
	ImagePrompt string `json:"image_prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type Story struct {
	Title string `json:"title,omitempty"`
	Steps []Step `json:"steps"`
}

type Card struct {
	LabelEN     string `json:"label_en,omitempty"`
	LabelAR     string `json:"label_ar,omitempty"`
	ImagePrompt string `json:"image_prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type Pecs struct {
	Title string `json:"title,omitempty"`
	Cards []Card `json:"cards"`
}

type Choice struct {
	Label       string `json:"label"`
	ImagePrompt string `json:"image_prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type Question struct {
	TextEN             string   `json:"text_en,omitempty"`
	TextAR             string   `json:"text_ar,omitempty"`
	ImagePrompt        string   `json:"image_prompt,omitempty"`
	ImageURL           string   `json:"image_url,omitempty"`
	Choices            []Choice `json:"choices,omitempty"`
	CorrectAnswerIndex *int     `json:"correct_answer_index,omitempty"`
}

type Worksheet struct {
	Title        string     `json:"title,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Questions    []Question `json:"questions"`
}

func (*Story) Kind() domain.ResourceType     { return domain.ResourceStory }
func (*Pecs) Kind() domain.ResourceType      { return domain.ResourcePECS }
func (*Worksheet) Kind() domain.ResourceType { return domain.ResourceWorksheet }

func (s *Story) ContentTitle() string     { return s.Title }
func (p *Pecs) ContentTitle() string      { return p.Title }
func (w *Worksheet) ContentTitle() string { return w.Title }

func (s *Story) Clone() Content {
	out := *s
	out.Steps = append([]Step(nil), s.Steps...)
	return &out
}

func (p *Pecs) Clone() Content {
	out := *p
	out.Cards = append([]Card(nil), p.Cards...)
	return &out
}

func (w *Worksheet) Clone() Content {
	out := *w
	out.Questions = make([]Question, len(w.Questions))
	for i, q := range w.Questions {
		q.Choices = append([]Choice(nil), q.Choices...)
		if q.CorrectAnswerIndex != nil {
			v := *q.CorrectAnswerIndex
			q.CorrectAnswerIndex = &v
		}
		out.Questions[i] = q
	}
	return &out
}

// ExpectedCount is the number of top-level nodes requested for a type.
func ExpectedCount(t domain.ResourceType) int {
	switch t {
	case domain.ResourceStory:
		return StorySteps
	case domain.ResourcePECS:
		return PecsCards
	case domain.ResourceWorksheet:
		return WorksheetQuestions
	}
	return 0
}

// NodeCount is the number of top-level nodes (steps, cards or questions).
func NodeCount(c Content) int {
	switch v := c.(type) {
	case *Story:
		return len(v.Steps)
	case *Pecs:
		return len(v.Cards)
	case *Worksheet:
		return len(v.Questions)
	}
	return 0
}
