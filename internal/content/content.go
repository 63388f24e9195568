// Package content loads the site copy shown on the portfolio page.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var embedded []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("content: invalid")

// MaxHeroText bounds the text the particle scene rasterizes.
const MaxHeroText = 64

// Site is everything the page and the scenes render.
type Site struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	HeroText    string `yaml:"hero_text"`

	About      string `yaml:"about"`
	AboutImage string `yaml:"about_image"`

	SkillsBlurb string   `yaml:"skills_blurb"`
	SkillsImage string   `yaml:"skills_image"`
	Skills      []string `yaml:"skills"`

	ProjectsBlurb string    `yaml:"projects_blurb"`
	ProjectsImage string    `yaml:"projects_image"`
	Projects      []Project `yaml:"projects"`

	Contact Contact `yaml:"contact"`
	Footer  string  `yaml:"footer"`
}

// Project is one portfolio entry.
type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	URL          string   `yaml:"url" json:"url"`
	Image        string   `yaml:"image" json:"image,omitempty"`
	Technologies []string `yaml:"technologies" json:"technologies,omitempty"`
}

// TopTechnologies returns at most n technologies for the card footer.
func (p Project) TopTechnologies(n int) []string {
	if len(p.Technologies) <= n {
		return p.Technologies
	}
	return p.Technologies[:n]
}

// Contact is the call-to-action block.
type Contact struct {
	Blurb string `yaml:"blurb"`
	Image string `yaml:"image"`
	Email string `yaml:"email"`
	Links []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Load reads the site copy from path, or the embedded copy when path is empty.
func Load(path string) (*Site, error) {
	data := embedded
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.HeroText == "" {
		s.HeroText = strings.ToUpper(s.Name)
	}
	return &s, nil
}

// Validate checks the fields the page and scenes key on.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	hero := s.HeroText
	if hero == "" {
		hero = s.Name
	}
	if utf8.RuneCountInString(hero) > MaxHeroText {
		return fmt.Errorf("%w: hero text longer than %d characters", ErrInvalid, MaxHeroText)
	}
	if len(s.Skills) == 0 {
		return fmt.Errorf("%w: at least one skill is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(s.Skills))
	for i, skill := range s.Skills {
		if strings.TrimSpace(skill) == "" {
			return fmt.Errorf("%w: skill %d is empty", ErrInvalid, i)
		}
		if seen[skill] {
			return fmt.Errorf("%w: duplicate skill %q", ErrInvalid, skill)
		}
		seen[skill] = true
	}
	titles := make(map[string]bool, len(s.Projects))
	for i, p := range s.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("%w: project %d has no title", ErrInvalid, i)
		}
		if strings.TrimSpace(p.URL) == "" {
			return fmt.Errorf("%w: project %q has no url", ErrInvalid, p.Title)
		}
		if titles[p.Title] {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalid, p.Title)
		}
		titles[p.Title] = true
	}
	return nil
}
