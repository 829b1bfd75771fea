package promptstyle

import "strings"

const marker = "AET_STUDIO_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to a system prompt. Applying it twice is a no-op.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou produce teaching materials for autistic learners.")
	b.WriteString("\nFollow the instructions precisely and use literal, concrete language.")
	b.WriteString("\nDo not add analysis or extra commentary.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object and nothing else.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
