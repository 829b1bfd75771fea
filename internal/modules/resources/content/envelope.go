package content

import (
	"encoding/json"
	"fmt"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

// Envelope is the resource handed to callers and persisted on save.
type Envelope struct {
	Title     string              `json:"title"`
	Type      domain.ResourceType `json:"type"`
	Content   Content             `json:"content"`
	Language  domain.Language     `json:"language"`
	StudentID uint                `json:"studentId"`
}

type envelopeWire struct {
	Title     string              `json:"title"`
	Type      domain.ResourceType `json:"type"`
	Content   json.RawMessage     `json:"content"`
	Language  domain.Language     `json:"language"`
	StudentID uint                `json:"studentId"`
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var w envelopeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
	}
	var c Content
	if len(w.Content) == 0 || string(w.Content) == "null" {
		c, _ = Parse(w.Type, []byte("{}"))
	} else {
		var err error
		if c, err = Parse(w.Type, w.Content); err != nil {
			return err
		}
	}
	*e = Envelope{Title: w.Title, Type: w.Type, Content: c, Language: w.Language, StudentID: w.StudentID}
	return nil
}

// Clone returns an envelope sharing nothing mutable with e.
func (e Envelope) Clone() Envelope {
	if e.Content != nil {
		e.Content = e.Content.Clone()
	}
	return e
}

// ContentJSON marshals only the content tree, as stored on the resource row.
func (e Envelope) ContentJSON() ([]byte, error) {
	if e.Content == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.Content)
}
