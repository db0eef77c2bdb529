package locator

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed services.yaml
var servicesYAML []byte

var ErrNotFound = errors.New("service not found")

// Types lists the recognised service kinds.
var Types = []string{"clinic", "pharmacy", "hospital", "mental-health", "dental", "emergency"}

// Areas lists the boroughs the directory covers.
var Areas = []string{"Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"}

type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

type Service struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Type        string      `yaml:"type" json:"type"`
	Area        string      `yaml:"area" json:"area"`
	Address     string      `yaml:"address" json:"address"`
	Coordinates Coordinates `yaml:"coordinates" json:"coordinates"`
	Phone       string      `yaml:"phone" json:"phone"`
	Hours       string      `yaml:"hours" json:"hours"`
	Languages   []string    `yaml:"languages" json:"languages"`
	Services    []string    `yaml:"services" json:"services"`
}

// Filter narrows the directory. Empty or "all" fields match everything.
type Filter struct {
	Query string
	Type  string
	Area  string
}

// Directory is an immutable, in-memory list of services.
type Directory struct {
	services []Service
	byID     map[string]int
}

// Load parses the embedded directory.
func Load() (*Directory, error) {
	return Parse(servicesYAML)
}

func Parse(data []byte) (*Directory, error) {
	var doc struct {
		Services []Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse services: %w", err)
	}
	d := &Directory{services: doc.Services, byID: make(map[string]int, len(doc.Services))}
	for i, s := range doc.Services {
		if s.ID == "" {
			return nil, fmt.Errorf("service %d has no id", i)
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		if !known(Types, s.Type) {
			return nil, fmt.Errorf("service %q: unknown type %q", s.ID, s.Type)
		}
		d.byID[s.ID] = i
	}
	return d, nil
}

func known(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func unset(v string) bool {
	return v == "" || strings.EqualFold(v, "all")
}

func (s Service) matchesQuery(q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	for _, offered := range s.Services {
		if strings.Contains(strings.ToLower(offered), q) {
			return true
		}
	}
	return false
}

// Search returns matching services in directory order.
func (d *Directory) Search(f Filter) []Service {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Service, 0, len(d.services))
	for _, s := range d.services {
		if q != "" && !s.matchesQuery(q) {
			continue
		}
		if !unset(f.Type) && s.Type != f.Type {
			continue
		}
		if !unset(f.Area) && s.Area != f.Area {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *Directory) Get(id string) (Service, error) {
	i, ok := d.byID[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return d.services[i], nil
}

// CountByType reports how many services exist per type.
func (d *Directory) CountByType() map[string]int {
	counts := make(map[string]int, len(Types))
	for _, t := range Types {
		counts[t] = 0
	}
	for _, s := range d.services {
		counts[s.Type]++
	}
	return counts
}
