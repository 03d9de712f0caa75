package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
	ErrOptionCount     = errors.New("wrong number of options selected")
)

type QuestionKind string

const (
	KindSingle      QuestionKind = "single"
	KindMulti       QuestionKind = "multi"
	KindKoreanLevel QuestionKind = "korean_level"
)

type Option struct {
	ID          string              `yaml:"id" json:"id" validate:"required"`
	Labels      map[string]string   `yaml:"labels,omitempty" json:"labels,omitempty"`
	ScoreKey    string              `yaml:"score_key,omitempty" json:"scoreKey,omitempty"`
	ScoreValue  *float64            `yaml:"score_value,omitempty" json:"scoreValue,omitempty"`
	Scores      map[string]float64  `yaml:"scores,omitempty" json:"scores,omitempty"`
	KoreanLevel scoring.KoreanLevel `yaml:"korean_level,omitempty" json:"koreanLevel,omitempty"`
}

type Question struct {
	ID      string            `yaml:"id" json:"id" validate:"required"`
	Kind    QuestionKind      `yaml:"kind" json:"kind" validate:"oneof=single multi korean_level"`
	Text    map[string]string `yaml:"text" json:"text"`
	Options []Option          `yaml:"options" json:"options" validate:"min=1,dive"`
}

type Member struct {
	ID              string             `yaml:"id" json:"id" validate:"required"`
	Names           map[string]string  `yaml:"names" json:"names"`
	PhotoURL        string             `yaml:"photo_url,omitempty" json:"photoUrl,omitempty" validate:"omitempty,uri"`
	Tags            []string           `yaml:"tags" json:"tags"`
	ArtistCovers    map[string]float64 `yaml:"artist_covers,omitempty" json:"artistCovers,omitempty"`
	JapaneseSupport bool               `yaml:"japanese_support" json:"japaneseSupport"`
}

// Catalog is the read-only dataset sessions draw questions and members from.
type Catalog struct {
	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes" validate:"dive"`
	Questions  []Question  `yaml:"questions" json:"questions" validate:"dive"`
	Members    []Member    `yaml:"members" json:"members" validate:"dive"`

	attributes map[string]int
	questions  map[string]int
	members    map[string]int

	builtinAttributes bool
}

var validate = validator.New()

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML. A catalog without attributes gets
// DefaultAttributes.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Attributes) == 0 {
		c.Attributes = DefaultAttributes()
		c.builtinAttributes = true
	}
	c.normalizeText()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal encodes the catalog back to YAML. Built-in attributes are left out
// so a round trip does not change the file's shape.
func (c *Catalog) Marshal() ([]byte, error) {
	out := *c
	if out.builtinAttributes {
		out.Attributes = nil
	}
	return yaml.Marshal(&out)
}

// Validate checks field constraints, id uniqueness and that every score key
// and member tag refers to a known attribute or an artist key. It rebuilds
// the lookup indexes.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	c.attributes = make(map[string]int, len(c.Attributes))
	for i, a := range c.Attributes {
		if _, dup := c.attributes[a.Key]; dup {
			return fmt.Errorf("invalid catalog: duplicate attribute %q", a.Key)
		}
		c.attributes[a.Key] = i
	}

	c.questions = make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		if _, dup := c.questions[q.ID]; dup {
			return fmt.Errorf("invalid catalog: duplicate question %q", q.ID)
		}
		c.questions[q.ID] = i
		if err := c.validateQuestion(q); err != nil {
			return fmt.Errorf("invalid catalog: question %q: %w", q.ID, err)
		}
	}

	c.members = make(map[string]int, len(c.Members))
	for i, m := range c.Members {
		if _, dup := c.members[m.ID]; dup {
			return fmt.Errorf("invalid catalog: duplicate member %q", m.ID)
		}
		c.members[m.ID] = i
		for _, tag := range m.Tags {
			if _, ok := c.attributes[tag]; !ok {
				return fmt.Errorf("invalid catalog: member %q: unknown tag %q", m.ID, tag)
			}
		}
		for key := range m.ArtistCovers {
			if !strings.HasPrefix(key, scoring.ArtistPrefix) {
				return fmt.Errorf("invalid catalog: member %q: artist cover %q lacks %q prefix", m.ID, key, scoring.ArtistPrefix)
			}
		}
	}
	return nil
}

func (c *Catalog) validateQuestion(q Question) error {
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o.ID] {
			return fmt.Errorf("duplicate option %q", o.ID)
		}
		seen[o.ID] = true

		if q.Kind == KindKoreanLevel {
			if !o.KoreanLevel.Valid() {
				return fmt.Errorf("option %q: invalid korean level %q", o.ID, o.KoreanLevel)
			}
			continue
		}
		if o.ScoreKey == "" && len(o.Scores) == 0 {
			return fmt.Errorf("option %q: no score key or scores", o.ID)
		}
		if o.ScoreKey != "" && !c.knownKey(o.ScoreKey) {
			return fmt.Errorf("option %q: unknown score key %q", o.ID, o.ScoreKey)
		}
		for key := range o.Scores {
			if !c.knownKey(key) {
				return fmt.Errorf("option %q: unknown score key %q", o.ID, key)
			}
		}
	}
	return nil
}

func (c *Catalog) knownKey(key string) bool {
	if strings.HasPrefix(key, scoring.ArtistPrefix) {
		return true
	}
	_, ok := c.attributes[key]
	return ok
}

func (c *Catalog) normalizeText() {
	for i := range c.Attributes {
		c.Attributes[i].Key = cleanKey(c.Attributes[i].Key)
		normalizeLabels(c.Attributes[i].Labels)
	}
	for i := range c.Questions {
		q := &c.Questions[i]
		normalizeLabels(q.Text)
		for j := range q.Options {
			q.Options[j].ScoreKey = cleanKey(q.Options[j].ScoreKey)
			normalizeLabels(q.Options[j].Labels)
		}
	}
	for i := range c.Members {
		m := &c.Members[i]
		normalizeLabels(m.Names)
		for j, tag := range m.Tags {
			m.Tags[j] = cleanKey(tag)
		}
	}
}

func cleanKey(s string) string {
	return strings.TrimSpace(s)
}

func normalizeLabels(labels map[string]string) {
	for k, v := range labels {
		labels[k] = strings.TrimSpace(norm.NFKC.String(v))
	}
}

// Attribute looks up an attribute by key.
func (c *Catalog) Attribute(key string) (Attribute, bool) {
	i, ok := c.attributes[key]
	if !ok {
		return Attribute{}, false
	}
	return c.Attributes[i], true
}

func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.questions[id]
	if !ok {
		return Question{}, false
	}
	return c.Questions[i], true
}

func (c *Catalog) Member(id string) (Member, bool) {
	i, ok := c.members[id]
	if !ok {
		return Member{}, false
	}
	return c.Members[i], true
}

// Label returns the attribute's display label, or the key itself when the
// attribute is unknown.
func (c *Catalog) Label(key, locale string) string {
	a, ok := c.Attribute(key)
	if !ok {
		return key
	}
	return Localize(a.Labels, locale, key)
}

// AttributesByCategory groups attribute keys in catalog order.
func (c *Catalog) AttributesByCategory() map[Category][]string {
	out := make(map[Category][]string, len(Categories))
	for _, a := range c.Attributes {
		out[a.Category] = append(out[a.Category], a.Key)
	}
	return out
}

// Name returns the member's display name for locale.
func (m Member) Name(locale string) string {
	return Localize(m.Names, locale, m.ID)
}

// Candidate converts the member into a fresh pool entry.
func (m Member) Candidate() scoring.Candidate {
	return scoring.Candidate{
		ID:              m.ID,
		Names:           m.Names,
		PhotoURL:        m.PhotoURL,
		Tags:            m.Tags,
		ArtistCovers:    m.ArtistCovers,
		JapaneseSupport: m.JapaneseSupport,
	}.Clone()
}

// Candidates converts every member in catalog order.
func (c *Catalog) Candidates() []scoring.Candidate {
	out := make([]scoring.Candidate, len(c.Members))
	for i, m := range c.Members {
		out[i] = m.Candidate()
	}
	return out
}
