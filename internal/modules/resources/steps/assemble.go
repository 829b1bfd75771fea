package steps

import (
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
)

const DefaultResourceTitle = "Generated Resource"

// Assemble wraps generated content in the envelope returned to callers. The title comes
// from the content, then the requested topic, then a placeholder.
func Assemble(c content.Content, t domain.ResourceType, lang domain.Language, studentID uint, topic string) content.Envelope {
	title := ""
	if c != nil {
		title = strings.TrimSpace(c.ContentTitle())
	}
	if title == "" {
		title = strings.TrimSpace(topic)
	}
	if title == "" {
		title = DefaultResourceTitle
	}
	return content.Envelope{
		Title:     title,
		Type:      t,
		Content:   c,
		Language:  lang,
		StudentID: studentID,
	}
}
