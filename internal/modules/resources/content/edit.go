package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

type Field string

const (
	FieldTitle        Field = "title"
	FieldInstructions Field = "instructions"
	FieldText         Field = "text"
	FieldImage        Field = "image_url"
)

var ErrInvalidEdit = errors.New("invalid edit")

// Edit is one committed field change from the editing surface.
type Edit struct {
	Field    Field           `json:"field"`
	Position *Position       `json:"position,omitempty"`
	Language domain.Language `json:"language,omitempty"`
	Value    string          `json:"value"`
}

// Apply returns a new envelope with the edit applied. env is left untouched.
func Apply(env Envelope, e Edit) (Envelope, error) {
	if env.Content == nil {
		return Envelope{}, fmt.Errorf("%w: envelope has no content", ErrInvalidEdit)
	}
	out := env
	switch e.Field {
	case FieldTitle:
		out.Title = e.Value
		out.Content = WithTitle(env.Content, e.Value)
		return out, nil
	case FieldInstructions:
		w, ok := env.Content.(*Worksheet)
		if !ok {
			return Envelope{}, fmt.Errorf("%w: %s has no instructions", ErrInvalidEdit, env.Type)
		}
		out.Content = WithInstructions(w, e.Value)
		return out, nil
	case FieldText, FieldImage:
	default:
		return Envelope{}, fmt.Errorf("%w: unknown field %q", ErrInvalidEdit, e.Field)
	}

	if e.Position == nil {
		return Envelope{}, fmt.Errorf("%w: %s edit needs a position", ErrInvalidEdit, e.Field)
	}
	var (
		c   Content
		err error
	)
	if e.Field == FieldImage {
		url := strings.TrimSpace(e.Value)
		c, err = WithImage(env.Content, *e.Position, url)
	} else {
		lang := e.Language
		if lang == "" {
			lang = env.Language
		}
		// choice labels carry a single language-neutral string
		if lang == domain.LanguageBilingual && !e.Position.IsChoice() {
			return Envelope{}, fmt.Errorf("%w: text edit needs language en or ar", ErrInvalidEdit)
		}
		c, err = WithText(env.Content, *e.Position, lang, e.Value)
	}
	if err != nil {
		return Envelope{}, err
	}
	out.Content = c
	return out, nil
}
