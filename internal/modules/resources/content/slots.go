package content

// Slot is one image-bearing node in document order.
type Slot struct {
	Position Position
	Prompt   string
	URL      string
}

// ImageSlots flattens every node that carries an image prompt or an image URL.
// Worksheet questions precede their own choices.
func ImageSlots(c Content) []Slot {
	var out []Slot
	add := func(p Position, prompt, url string) {
		if prompt == "" && url == "" {
			return
		}
		out = append(out, Slot{Position: p, Prompt: prompt, URL: url})
	}
	switch v := c.(type) {
	case *Story:
		for i, s := range v.Steps {
			add(At(i), s.ImagePrompt, s.ImageURL)
		}
	case *Pecs:
		for i, card := range v.Cards {
			add(At(i), card.ImagePrompt, card.ImageURL)
		}
	case *Worksheet:
		for i, q := range v.Questions {
			add(At(i), q.ImagePrompt, q.ImageURL)
			for j, ch := range q.Choices {
				add(AtChoice(i, j), ch.ImagePrompt, ch.ImageURL)
			}
		}
	}
	return out
}

// PromptSlots is ImageSlots restricted to nodes that request an image.
func PromptSlots(c Content) []Slot {
	all := ImageSlots(c)
	out := all[:0:0]
	for _, s := range all {
		if s.Prompt != "" {
			out = append(out, s)
		}
	}
	return out
}

// ImageURLAt returns the image reference stored at p.
func ImageURLAt(c Content, p Position) (string, error) {
	switch v := c.(type) {
	case *Story:
		if p.IsChoice() || p.Index < 0 || p.Index >= len(v.Steps) {
			return "", invalid(p, "story has %d steps", len(v.Steps))
		}
		return v.Steps[p.Index].ImageURL, nil
	case *Pecs:
		if p.IsChoice() || p.Index < 0 || p.Index >= len(v.Cards) {
			return "", invalid(p, "pecs has %d cards", len(v.Cards))
		}
		return v.Cards[p.Index].ImageURL, nil
	case *Worksheet:
		q, err := question(v, p)
		if err != nil {
			return "", err
		}
		if p.IsChoice() {
			return q.Choices[p.Choice].ImageURL, nil
		}
		return q.ImageURL, nil
	}
	return "", invalid(p, "unsupported content %T", c)
}

func question(w *Worksheet, p Position) (*Question, error) {
	if p.Index < 0 || p.Index >= len(w.Questions) {
		return nil, invalid(p, "worksheet has %d questions", len(w.Questions))
	}
	q := &w.Questions[p.Index]
	if p.IsChoice() && p.Choice >= len(q.Choices) {
		return nil, invalid(p, "question has %d choices", len(q.Choices))
	}
	return q, nil
}
