// Package prompts composes the text and image prompts for resource generation. It does no I/O.
package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/domain"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
)

// SymbolStyle is the visual template every generated image prompt must follow.
const SymbolStyle = "Widgit/PCS style symbol, thick bold black outlines, flat colors, white background, no shading, simple 2D vector, centered"

const systemImageStyle = "Widgit/PCS style symbol of [SUBJECT], high-contrast thick black outlines, flat primary colors, solid white background, zero shading, zero gradients, 2D vector, minimalist, centered."

const regenerationStyle = "Widgit/PCS style symbol, thick bold black outlines, flat colors, white background, no shading, 2D minimalist vector"

const notProvided = "not provided"

type VisualKind string

const (
	VisualSymbol VisualKind = "symbol"
	VisualPECS   VisualKind = "pecs"
)

// ParseVisualKind maps a resource type or kind name onto a visual kind. Anything that
// is not pecs renders as a concept symbol.
func ParseVisualKind(raw string) VisualKind {
	if strings.EqualFold(strings.TrimSpace(raw), string(VisualPECS)) {
		return VisualPECS
	}
	return VisualSymbol
}

// VisualKindFor picks the regeneration style for a resource type.
func VisualKindFor(t domain.ResourceType) VisualKind {
	if t == domain.ResourcePECS {
		return VisualPECS
	}
	return VisualSymbol
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func interest(s *domain.Student) string {
	if s == nil {
		return "their favourite things"
	}
	return orDefault(s.PrimaryInterest, "their favourite things")
}

// BuildSystemPrompt states persona, profile, design rules, curriculum target, language
// contract and image style. Missing fields render as placeholders.
func BuildSystemPrompt(s *domain.Student, lang domain.Language, cc *curriculum.Context) string {
	if s == nil {
		s = &domain.Student{}
	}
	target := cc.OrFallback()
	if lang == "" {
		lang = s.PreferredLanguage
	}
	age := notProvided
	if s.Age != nil {
		age = strconv.Itoa(*s.Age)
	}
	goals := notProvided
	if len(s.LearningGoals) > 0 {
		goals = strings.Join(s.LearningGoals, "; ")
	}
	motivator := interest(s)

	var b strings.Builder
	b.WriteString("You design classroom resources for autistic learners (ASC) in special education.\n")
	b.WriteString("Turn the Autism Education Trust (AET) target below into a concrete, ready to print resource.\n\n")

	b.WriteString("LEARNER:\n")
	b.WriteString("- Name: " + orDefault(s.Name, notProvided) + "\n")
	b.WriteString("- Age: " + age + "\n")
	b.WriteString("- AET progress: " + orDefault(s.AETLevel.Label(), notProvided) + "\n")
	b.WriteString("- Communication: " + orDefault(s.CommunicationLevel.Label(), notProvided) + "\n")
	b.WriteString("- Primary interest: " + motivator + "\n")
	b.WriteString("- Sensory guidance: " + orDefault(s.SensoryPreference, notProvided) + "\n")
	b.WriteString("- Learning goals: " + goals + "\n")
	b.WriteString("- Output language: " + string(lang) + "\n\n")

	b.WriteString("AET TARGET:\n")
	b.WriteString("- Area: " + target.Area + "\n")
	b.WriteString("- Sub-topic: " + target.SubTopic + "\n")
	b.WriteString("- Learning intention: " + target.Intention + "\n\n")

	b.WriteString("RULES:\n")
	b.WriteString("1. Low-arousal design. Literal language only. No metaphors, idioms or sarcasm. Structure actions as First/Then.\n")
	fmt.Fprintf(&b, "2. Use %q as the motivator that carries the learning intention.\n", motivator)
	fmt.Fprintf(&b, "3. Every part of the resource must work towards: %q.\n", target.Intention)
	b.WriteString("4. Language: " + languageRule(lang) + "\n\n")

	b.WriteString("IMAGE STYLE:\n")
	b.WriteString("Write every \"image_prompt\" value in exactly this style:\n")
	b.WriteString("\"" + systemImageStyle + "\"\n\n")
	b.WriteString("Respond with a single JSON object and nothing else.")
	return b.String()
}

func languageRule(lang domain.Language) string {
	switch lang {
	case domain.LanguageArabic:
		return "fill every \"_ar\" field with short, simple Emirati/Modern Standard Arabic suitable for Abu Dhabi schools. English fields may be left empty."
	case domain.LanguageBilingual:
		return "fill every \"_en\" field with plain English and every \"_ar\" field with short, simple Emirati/Modern Standard Arabic suitable for Abu Dhabi schools. Both are required on every item."
	default:
		return "fill every \"_en\" field with plain English. Arabic fields may be left empty."
	}
}

// BuildFormatPrompt returns the JSON shape the model must produce for t. Field names are
// fixed per type; content.Parse depends on them.
func BuildFormatPrompt(t domain.ResourceType, topic string, s *domain.Student) string {
	topic = orDefault(topic, "everyday routines")
	motivator := interest(s)
	switch t {
	case domain.ResourceStory:
		return fmt.Sprintf(`Task: write a social story about %q.
Return this JSON shape:
{
  "title": "Short literal title",
  "steps": [
    {
      "text_en": "I can [action] with my %s.",
      "text_ar": "Arabic version of text_en",
      "image_prompt": "%s, showing [action], context: %s"
    }
  ]
}
Exactly %d steps, in order.`, topic, motivator, SymbolStyle, motivator, content.StorySteps)
	case domain.ResourcePECS:
		return fmt.Sprintf(`Task: make PECS communication cards for %q.
Return this JSON shape:
{
  "title": "Category: %s",
  "cards": [
    {
      "label_en": "Object name",
      "label_ar": "Arabic object name",
      "image_prompt": "%s, single isolated object: [Object name]"
    }
  ]
}
Exactly %d cards.`, topic, topic, SymbolStyle, content.PecsCards)
	default:
		return fmt.Sprintf(`Task: make a choice selection worksheet for %q.
Return this JSON shape:
{
  "title": "Topic: %s",
  "instructions": "Tick the correct option.",
  "questions": [
    {
      "text_en": "Which one is [target]?",
      "text_ar": "Arabic version of text_en",
      "choices": [
        { "label": "Option 1", "image_prompt": "%s, vector icon of [Option 1]" },
        { "label": "Option 2", "image_prompt": "%s, vector icon of [Option 2]" },
        { "label": "Option 3", "image_prompt": "%s, vector icon of [Option 3]" }
      ],
      "correct_answer_index": 0
    }
  ]
}
Exactly %d questions, each with %d picture choices.`, topic, topic, SymbolStyle, SymbolStyle, SymbolStyle, content.WorksheetQuestions, content.WorksheetChoices)
	}
}

// BuildRegenerationPrompt turns an edited label or sentence into a standalone image prompt.
func BuildRegenerationPrompt(text string, kind VisualKind) string {
	text = strings.TrimSpace(text)
	if kind == VisualPECS {
		return fmt.Sprintf("%s, single isolated object of %q, centered, no background clutter", regenerationStyle, text)
	}
	return fmt.Sprintf("%s, representing the action or concept: %q", regenerationStyle, text)
}

// Combine joins the system and format prompts into the single text sent to the model.
func Combine(system, format string) string {
	return strings.TrimSpace(system) + "\n\n" + strings.TrimSpace(format)
}
