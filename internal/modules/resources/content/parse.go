package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

var ErrUnknownType = errors.New("unknown resource type")

// StripFences removes markdown code fences a model sometimes wraps around JSON,
// including stray fence markers left before or after the body.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// drop the info string ("json")
			if head := strings.TrimSpace(s[:nl]); !strings.ContainsAny(head, "{[") {
				s = s[nl+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse decodes raw model or client JSON into the variant for kind.
func Parse(kind domain.ResourceType, raw []byte) (Content, error) {
	body := []byte(StripFences(string(raw)))
	if len(body) == 0 {
		return nil, fmt.Errorf("parse %s content: empty body", kind)
	}
	var c Content
	switch kind {
	case domain.ResourceStory:
		c = &Story{}
	case domain.ResourcePECS:
		c = &Pecs{}
	case domain.ResourceWorksheet:
		c = &Worksheet{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if err := json.Unmarshal(body, c); err != nil {
		return nil, fmt.Errorf("parse %s content: %w", kind, err)
	}
	normalizeNil(c)
	return c, nil
}

func normalizeNil(c Content) {
	switch v := c.(type) {
	case *Story:
		if v.Steps == nil {
			v.Steps = []Step{}
		}
	case *Pecs:
		if v.Cards == nil {
			v.Cards = []Card{}
		}
	case *Worksheet:
		if v.Questions == nil {
			v.Questions = []Question{}
		}
	}
}
