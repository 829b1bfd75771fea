package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NoChoice marks a position addressing a node itself rather than one of its choices.
const NoChoice = -1

var ErrInvalidPosition = errors.New("invalid content position")

// Position addresses a step, card or question by Index, and a worksheet choice when Choice >= 0.
type Position struct {
	Index  int `json:"index"`
	Choice int `json:"choice"`
}

func At(index int) Position { return Position{Index: index, Choice: NoChoice} }

func AtChoice(index, choice int) Position { return Position{Index: index, Choice: choice} }

func (p Position) IsChoice() bool { return p.Choice >= 0 }

func (p Position) String() string {
	if p.IsChoice() {
		return fmt.Sprintf("%d.%d", p.Index, p.Choice)
	}
	return fmt.Sprintf("%d", p.Index)
}

func (p Position) MarshalJSON() ([]byte, error) {
	if !p.IsChoice() {
		return json.Marshal(struct {
			Index int `json:"index"`
		}{p.Index})
	}
	return json.Marshal(struct {
		Index  int `json:"index"`
		Choice int `json:"choice"`
	}{p.Index, p.Choice})
}

// UnmarshalJSON treats an absent choice as NoChoice.
func (p *Position) UnmarshalJSON(b []byte) error {
	var w struct {
		Index  int  `json:"index"`
		Choice *int `json:"choice"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	p.Index = w.Index
	p.Choice = NoChoice
	if w.Choice != nil {
		p.Choice = *w.Choice
	}
	return nil
}

func invalid(p Position, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidPosition, p, fmt.Sprintf(format, args...))
}
