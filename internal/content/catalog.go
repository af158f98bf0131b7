// Package content holds the reflection and quiz catalogs and picks what to
// show next.
package content

import (
	"embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// ErrUnknownID is returned for ids that are not in a catalog.
var ErrUnknownID = errors.New("unknown catalog id")

// Reflection is one reflection prompt.
type Reflection struct {
	ID      string `yaml:"id" json:"id"`
	Prompt  string `yaml:"prompt" json:"prompt"`
	Meaning string `yaml:"meaning" json:"meaning"`
	Source  string `yaml:"source" json:"source"`
}

// Question is one quiz question.
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
	Correct  int      `yaml:"correct" json:"-"`
	Insight  string   `yaml:"insight" json:"-"`
}

// Catalog is the static, read-only content the tracker draws from.
type Catalog struct {
	Reflections []Reflection
	Questions   []Question
}

// LoadCatalog parses the embedded catalogs.
func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := readYAML("catalog/reflections.yaml", &c.Reflections); err != nil {
		return nil, err
	}
	if err := readYAML("catalog/quiz.yaml", &c.Questions); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseCatalog builds a catalog from YAML documents. It is how alternative
// catalogs are supplied.
func ParseCatalog(reflections, questions []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(reflections, &c.Reflections); err != nil {
		return nil, fmt.Errorf("parse reflections: %w", err)
	}
	if err := yaml.Unmarshal(questions, &c.Questions); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func readYAML(name string, out any) error {
	b, err := catalogFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	if len(c.Reflections) == 0 || len(c.Questions) == 0 {
		return errors.New("catalog: reflections and questions must not be empty")
	}
	seen := map[string]bool{}
	for _, r := range c.Reflections {
		if r.ID == "" || seen[r.ID] {
			return fmt.Errorf("catalog: missing or duplicate reflection id %q", r.ID)
		}
		seen[r.ID] = true
	}
	for _, q := range c.Questions {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("catalog: missing or duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("catalog: question %s has correct=%d with %d options", q.ID, q.Correct, len(q.Options))
		}
	}
	return nil
}

// ReflectionIDs lists reflection ids in catalog order.
func (c *Catalog) ReflectionIDs() []string {
	ids := make([]string, len(c.Reflections))
	for i, r := range c.Reflections {
		ids[i] = r.ID
	}
	return ids
}

// QuestionIDs lists question ids in catalog order.
func (c *Catalog) QuestionIDs() []string {
	ids := make([]string, len(c.Questions))
	for i, q := range c.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Reflection looks up a reflection by id.
func (c *Catalog) Reflection(id string) (Reflection, error) {
	for _, r := range c.Reflections {
		if r.ID == id {
			return r, nil
		}
	}
	return Reflection{}, fmt.Errorf("%w: %s", ErrUnknownID, id)
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, error) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: %s", ErrUnknownID, id)
}
