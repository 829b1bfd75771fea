package content

import (
	"fmt"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

// Every lens clones before writing; the input tree is never modified.

func WithTitle(c Content, title string) Content {
	switch v := c.Clone().(type) {
	case *Story:
		v.Title = title
		return v
	case *Pecs:
		v.Title = title
		return v
	case *Worksheet:
		v.Title = title
		return v
	}
	return c
}

func WithStepText(s *Story, i int, lang domain.Language, text string) (*Story, error) {
	if i < 0 || i >= len(s.Steps) {
		return nil, invalid(At(i), "story has %d steps", len(s.Steps))
	}
	out := s.Clone().(*Story)
	if lang == domain.LanguageArabic {
		out.Steps[i].TextAR = text
	} else {
		out.Steps[i].TextEN = text
	}
	return out, nil
}

func WithStepImage(s *Story, i int, url string) (*Story, error) {
	if i < 0 || i >= len(s.Steps) {
		return nil, invalid(At(i), "story has %d steps", len(s.Steps))
	}
	out := s.Clone().(*Story)
	out.Steps[i].ImageURL = url
	return out, nil
}

func WithCardLabel(p *Pecs, i int, lang domain.Language, label string) (*Pecs, error) {
	if i < 0 || i >= len(p.Cards) {
		return nil, invalid(At(i), "pecs has %d cards", len(p.Cards))
	}
	out := p.Clone().(*Pecs)
	if lang == domain.LanguageArabic {
		out.Cards[i].LabelAR = label
	} else {
		out.Cards[i].LabelEN = label
	}
	return out, nil
}

func WithCardImage(p *Pecs, i int, url string) (*Pecs, error) {
	if i < 0 || i >= len(p.Cards) {
		return nil, invalid(At(i), "pecs has %d cards", len(p.Cards))
	}
	out := p.Clone().(*Pecs)
	out.Cards[i].ImageURL = url
	return out, nil
}

func WithInstructions(w *Worksheet, text string) *Worksheet {
	out := w.Clone().(*Worksheet)
	out.Instructions = text
	return out
}

func WithQuestionText(w *Worksheet, i int, lang domain.Language, text string) (*Worksheet, error) {
	if _, err := question(w, At(i)); err != nil {
		return nil, err
	}
	out := w.Clone().(*Worksheet)
	if lang == domain.LanguageArabic {
		out.Questions[i].TextAR = text
	} else {
		out.Questions[i].TextEN = text
	}
	return out, nil
}

func WithQuestionImage(w *Worksheet, i int, url string) (*Worksheet, error) {
	if _, err := question(w, At(i)); err != nil {
		return nil, err
	}
	out := w.Clone().(*Worksheet)
	out.Questions[i].ImageURL = url
	return out, nil
}

func WithChoiceLabel(w *Worksheet, i, j int, label string) (*Worksheet, error) {
	if _, err := question(w, AtChoice(i, j)); err != nil {
		return nil, err
	}
	out := w.Clone().(*Worksheet)
	out.Questions[i].Choices[j].Label = label
	return out, nil
}

func WithChoiceImage(w *Worksheet, i, j int, url string) (*Worksheet, error) {
	if _, err := question(w, AtChoice(i, j)); err != nil {
		return nil, err
	}
	out := w.Clone().(*Worksheet)
	out.Questions[i].Choices[j].ImageURL = url
	return out, nil
}

// WithImage replaces the image reference at p, whatever the variant.
func WithImage(c Content, p Position, url string) (Content, error) {
	if p.Choice < NoChoice {
		return nil, invalid(p, "negative choice")
	}
	switch v := c.(type) {
	case *Story:
		if p.IsChoice() {
			return nil, invalid(p, "story steps have no choices")
		}
		return WithStepImage(v, p.Index, url)
	case *Pecs:
		if p.IsChoice() {
			return nil, invalid(p, "pecs cards have no choices")
		}
		return WithCardImage(v, p.Index, url)
	case *Worksheet:
		if p.IsChoice() {
			return WithChoiceImage(v, p.Index, p.Choice, url)
		}
		return WithQuestionImage(v, p.Index, url)
	}
	return nil, fmt.Errorf("with image: unsupported content %T", c)
}

// WithText replaces the text of the node at p in one language. Choice labels are language neutral.
func WithText(c Content, p Position, lang domain.Language, text string) (Content, error) {
	if p.Choice < NoChoice {
		return nil, invalid(p, "negative choice")
	}
	switch v := c.(type) {
	case *Story:
		if p.IsChoice() {
			return nil, invalid(p, "story steps have no choices")
		}
		return WithStepText(v, p.Index, lang, text)
	case *Pecs:
		if p.IsChoice() {
			return nil, invalid(p, "pecs cards have no choices")
		}
		return WithCardLabel(v, p.Index, lang, text)
	case *Worksheet:
		if p.IsChoice() {
			return WithChoiceLabel(v, p.Index, p.Choice, text)
		}
		return WithQuestionText(v, p.Index, lang, text)
	}
	return nil, fmt.Errorf("with text: unsupported content %T", c)
}

// TextAt reads the text used to regenerate the image at p. Arabic mode reads the Arabic
// variant; every other mode reads English. An empty variant falls back to the other one.
func TextAt(c Content, p Position, lang domain.Language) (string, error) {
	pick := func(en, ar string) string {
		if lang == domain.LanguageArabic {
			if ar != "" {
				return ar
			}
			return en
		}
		if en != "" {
			return en
		}
		return ar
	}
	switch v := c.(type) {
	case *Story:
		if p.IsChoice() || p.Index < 0 || p.Index >= len(v.Steps) {
			return "", invalid(p, "story has %d steps", len(v.Steps))
		}
		s := v.Steps[p.Index]
		return pick(s.TextEN, s.TextAR), nil
	case *Pecs:
		if p.IsChoice() || p.Index < 0 || p.Index >= len(v.Cards) {
			return "", invalid(p, "pecs has %d cards", len(v.Cards))
		}
		card := v.Cards[p.Index]
		return pick(card.LabelEN, card.LabelAR), nil
	case *Worksheet:
		q, err := question(v, p)
		if err != nil {
			return "", err
		}
		if p.IsChoice() {
			return q.Choices[p.Choice].Label, nil
		}
		return pick(q.TextEN, q.TextAR), nil
	}
	return "", fmt.Errorf("text at: unsupported content %T", c)
}
