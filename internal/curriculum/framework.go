// Package curriculum holds the Autism Education Trust progression framework used to target resources.
package curriculum

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/aet-studio-backend/internal/domain"
)

//go:embed aet_framework.yaml
var frameworkYAML []byte

const (
	FallbackArea      = "General Development"
	FallbackSubTopic  = "Functional Skills"
	FallbackIntention = "Holistic progress"
)

type SubTopic struct {
	Key        string   `yaml:"key" json:"key"`
	Label      string   `yaml:"label" json:"label"`
	Intentions []string `yaml:"intentions" json:"intentions"`
}

type Area struct {
	Key       string                `yaml:"key" json:"key"`
	Label     string                `yaml:"label" json:"label"`
	Formats   []domain.ResourceType `yaml:"formats" json:"formats"`
	SubTopics []SubTopic            `yaml:"sub_topics" json:"subTopics"`
}

type Framework struct {
	Areas []Area `yaml:"areas" json:"areas"`
}

// Context is the curriculum target for one generation.
type Context struct {
	Area      string `json:"area"`
	SubTopic  string `json:"subTopic"`
	Intention string `json:"intention"`
	// Known reports whether every supplied part matched the framework.
	Known bool `json:"-"`
}

// OrFallback fills empty parts with the general development defaults.
func (c *Context) OrFallback() Context {
	out := Context{Area: FallbackArea, SubTopic: FallbackSubTopic, Intention: FallbackIntention}
	if c == nil {
		return out
	}
	if v := strings.TrimSpace(c.Area); v != "" {
		out.Area = v
	}
	if v := strings.TrimSpace(c.SubTopic); v != "" {
		out.SubTopic = v
	}
	if v := strings.TrimSpace(c.Intention); v != "" {
		out.Intention = v
	}
	out.Known = c.Known
	return out
}

var (
	loadOnce sync.Once
	loaded   *Framework
	loadErr  error
)

// Load parses the embedded framework once.
func Load() (*Framework, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(frameworkYAML)
	})
	return loaded, loadErr
}

func Parse(raw []byte) (*Framework, error) {
	var fw Framework
	if err := yaml.Unmarshal(raw, &fw); err != nil {
		return nil, fmt.Errorf("parse aet framework: %w", err)
	}
	if len(fw.Areas) == 0 {
		return nil, fmt.Errorf("aet framework has no areas")
	}
	for _, a := range fw.Areas {
		if a.Key == "" || a.Label == "" {
			return nil, fmt.Errorf("aet framework area missing key or label")
		}
		for _, f := range a.Formats {
			if !f.Valid() {
				return nil, fmt.Errorf("aet area %s: unknown format %q", a.Key, f)
			}
		}
	}
	return &fw, nil
}

func (f *Framework) Area(keyOrLabel string) (Area, bool) {
	needle := normalize(keyOrLabel)
	if needle == "" {
		return Area{}, false
	}
	for _, a := range f.Areas {
		if normalize(a.Key) == needle || normalize(a.Label) == needle {
			return a, true
		}
	}
	return Area{}, false
}

func (a Area) SubTopic(keyOrLabel string) (SubTopic, bool) {
	needle := normalize(keyOrLabel)
	if needle == "" {
		return SubTopic{}, false
	}
	for _, st := range a.SubTopics {
		if normalize(st.Key) == needle || normalize(st.Label) == needle || normalize(DisplayLabel(st.Label)) == needle {
			return st, true
		}
	}
	return SubTopic{}, false
}

func (a Area) Supports(t domain.ResourceType) bool {
	for _, f := range a.Formats {
		if f == t {
			return true
		}
	}
	return false
}

func (st SubTopic) HasIntention(intention string) bool {
	needle := normalize(intention)
	for _, in := range st.Intentions {
		if normalize(in) == needle {
			return true
		}
	}
	return false
}

// Resolve maps keys or labels onto display labels. Unknown parts are passed through verbatim
// with Known=false so free-text targets still reach the prompt.
func (f *Framework) Resolve(area, subTopic, intention string) Context {
	out := Context{
		Area:      strings.TrimSpace(area),
		SubTopic:  strings.TrimSpace(subTopic),
		Intention: strings.TrimSpace(intention),
	}
	a, ok := f.Area(area)
	if !ok {
		return out
	}
	out.Area = a.Label
	if out.SubTopic == "" {
		out.Known = out.Intention == ""
		return out
	}
	st, ok := a.SubTopic(subTopic)
	if !ok {
		return out
	}
	out.SubTopic = DisplayLabel(st.Label)
	out.Known = out.Intention == "" || st.HasIntention(out.Intention)
	return out
}

// DisplayLabel turns "2_making_requests" into "Making requests".
func DisplayLabel(label string) string {
	s := strings.TrimSpace(label)
	if i := strings.Index(s, "_"); i > 0 && isDigits(s[:i]) {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(s)), " "))
}
