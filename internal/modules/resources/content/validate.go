package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

var ErrMissingText = errors.New("missing required language text")

// Validate enforces the language contract: every node carries the variants the
// language mode requires.
func Validate(c Content, lang domain.Language) error {
	if c == nil {
		return errors.New("content is nil")
	}
	needEN, needAR := lang.NeedsEnglish(), lang.NeedsArabic()
	var missing []string
	check := func(path, en, ar string) {
		if needEN && strings.TrimSpace(en) == "" {
			missing = append(missing, path+".en")
		}
		if needAR && strings.TrimSpace(ar) == "" {
			missing = append(missing, path+".ar")
		}
	}
	switch v := c.(type) {
	case *Story:
		for i, s := range v.Steps {
			check(fmt.Sprintf("steps[%d]", i), s.TextEN, s.TextAR)
		}
	case *Pecs:
		for i, card := range v.Cards {
			check(fmt.Sprintf("cards[%d]", i), card.LabelEN, card.LabelAR)
		}
	case *Worksheet:
		for i, q := range v.Questions {
			check(fmt.Sprintf("questions[%d]", i), q.TextEN, q.TextAR)
		}
	default:
		return fmt.Errorf("validate: unsupported content %T", c)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (%s): %s", ErrMissingText, lang, strings.Join(missing, ", "))
	}
	return nil
}

// Warnings reports shape drift that does not make the resource unusable.
func Warnings(c Content) []string {
	var out []string
	if want, got := ExpectedCount(c.Kind()), NodeCount(c); got != want {
		out = append(out, fmt.Sprintf("%s: expected %d nodes, got %d", c.Kind(), want, got))
	}
	if w, ok := c.(*Worksheet); ok {
		for i, q := range w.Questions {
			if len(q.Choices) > 0 && len(q.Choices) != WorksheetChoices {
				out = append(out, fmt.Sprintf("questions[%d]: expected %d choices, got %d", i, WorksheetChoices, len(q.Choices)))
			}
			if q.CorrectAnswerIndex != nil && (*q.CorrectAnswerIndex < 0 || *q.CorrectAnswerIndex >= len(q.Choices)) {
				out = append(out, fmt.Sprintf("questions[%d]: correct_answer_index %d out of range", i, *q.CorrectAnswerIndex))
			}
		}
	}
	if strings.TrimSpace(c.ContentTitle()) == "" {
		out = append(out, "missing title")
	}
	return out
}
