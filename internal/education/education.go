package education

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

var ErrNotFound = errors.New("article not found")

var (
	Categories = []string{
		"Prevention", "Emergency", "Nutrition", "Mental Health",
		"Women's Health", "Child Care", "Chronic Conditions",
	}
	Languages    = []string{"en", "ar", "fr", "es"}
	Difficulties = []string{"beginner", "intermediate", "advanced"}
)

type Article struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Content     string   `yaml:"content" json:"content"`
	Category    string   `yaml:"category" json:"category"`
	Languages   []string `yaml:"languages" json:"languages"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	Duration    string   `yaml:"duration" json:"duration"`
	Type        string   `yaml:"type" json:"type"`
}

type Filter struct {
	Query      string
	Category   string
	Language   string
	Difficulty string
}

type Library struct {
	articles []Article
}

func Load() (*Library, error) {
	return Parse(contentYAML)
}

func Parse(data []byte) (*Library, error) {
	var doc struct {
		Articles []Article `yaml:"articles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse education content: %w", err)
	}
	seen := make(map[string]bool, len(doc.Articles))
	for _, a := range doc.Articles {
		switch {
		case a.ID == "":
			return nil, fmt.Errorf("article %q has no id", a.Title)
		case seen[a.ID]:
			return nil, fmt.Errorf("duplicate article id %q", a.ID)
		case !slices.Contains(Categories, a.Category):
			return nil, fmt.Errorf("article %q: unknown category %q", a.ID, a.Category)
		case !slices.Contains(Difficulties, a.Difficulty):
			return nil, fmt.Errorf("article %q: unknown difficulty %q", a.ID, a.Difficulty)
		}
		for _, l := range a.Languages {
			if !slices.Contains(Languages, l) {
				return nil, fmt.Errorf("article %q: unknown language %q", a.ID, l)
			}
		}
		seen[a.ID] = true
	}
	return &Library{articles: doc.Articles}, nil
}

func unset(v string) bool {
	return v == "" || strings.EqualFold(v, "all")
}

// Search matches the query against title and description; other filters
// are exact and "all" disables them.
func (l *Library) Search(f Filter) []Article {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Article, 0, len(l.articles))
	for _, a := range l.articles {
		if q != "" && !strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			continue
		}
		if !unset(f.Category) && a.Category != f.Category {
			continue
		}
		if !unset(f.Language) && !slices.Contains(a.Languages, f.Language) {
			continue
		}
		if !unset(f.Difficulty) && a.Difficulty != f.Difficulty {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (l *Library) Get(id string) (Article, error) {
	for _, a := range l.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}
