package symptom

import (
	"encoding/json"
	"fmt"
)

// Category is the body system a symptom belongs to.
type Category int

const (
	CategoryGeneral Category = iota + 1
	CategoryRespiratory
	CategoryNeurological
	CategoryDigestive
	CategoryCardiovascular
	CategoryMusculoskeletal
	CategoryDermatological
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "General"
	case CategoryRespiratory:
		return "Respiratory"
	case CategoryNeurological:
		return "Neurological"
	case CategoryDigestive:
		return "Digestive"
	case CategoryCardiovascular:
		return "Cardiovascular"
	case CategoryMusculoskeletal:
		return "Musculoskeletal"
	case CategoryDermatological:
		return "Dermatological"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) Valid() bool {
	return c >= CategoryGeneral && c <= CategoryDermatological
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for cat := CategoryGeneral; cat <= CategoryDermatological; cat++ {
		if cat.String() == s {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", s)
}

// Symptom is one selectable entry in the checker.
type Symptom struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	SeverityWeight int      `json:"severity"`
}

// HighSeverity marks symptoms the UI flags with a warning.
func (s Symptom) HighSeverity() bool {
	return s.SeverityWeight >= 3
}

// catalog is authored by clinicians and never changes at runtime.
var catalog = []Symptom{
	{ID: "fever", Name: "Fever", Category: CategoryGeneral, SeverityWeight: 2},
	{ID: "cough", Name: "Cough", Category: CategoryRespiratory, SeverityWeight: 1},
	{ID: "headache", Name: "Headache", Category: CategoryNeurological, SeverityWeight: 1},
	{ID: "nausea", Name: "Nausea", Category: CategoryDigestive, SeverityWeight: 1},
	{ID: "fatigue", Name: "Fatigue", Category: CategoryGeneral, SeverityWeight: 1},
	{ID: "chest_pain", Name: "Chest Pain", Category: CategoryCardiovascular, SeverityWeight: 4},
	{ID: "difficulty_breathing", Name: "Difficulty Breathing", Category: CategoryRespiratory, SeverityWeight: 4},
	{ID: "severe_headache", Name: "Severe Headache", Category: CategoryNeurological, SeverityWeight: 3},
	{ID: "dizziness", Name: "Dizziness", Category: CategoryNeurological, SeverityWeight: 2},
	{ID: "vomiting", Name: "Vomiting", Category: CategoryDigestive, SeverityWeight: 2},
	{ID: "abdominal_pain", Name: "Abdominal Pain", Category: CategoryDigestive, SeverityWeight: 2},
	{ID: "back_pain", Name: "Back Pain", Category: CategoryMusculoskeletal, SeverityWeight: 1},
	{ID: "joint_pain", Name: "Joint Pain", Category: CategoryMusculoskeletal, SeverityWeight: 1},
	{ID: "skin_rash", Name: "Skin Rash", Category: CategoryDermatological, SeverityWeight: 1},
	{ID: "sore_throat", Name: "Sore Throat", Category: CategoryRespiratory, SeverityWeight: 1},
}

var byID = func() map[string]Symptom {
	m := make(map[string]Symptom, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// ListAll returns the catalog in display order. The slice is a copy.
func ListAll() []Symptom {
	out := make([]Symptom, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a symptom id.
func Lookup(id string) (Symptom, bool) {
	s, ok := byID[id]
	return s, ok
}

// CategoriesOf returns the distinct categories of symptoms in first-seen order.
func CategoriesOf(symptoms []Symptom) []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, s := range symptoms {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Group is the catalog slice rendered under one category heading.
type Group struct {
	Category Category  `json:"category"`
	Symptoms []Symptom `json:"symptoms"`
}

// Grouped splits symptoms by category, keeping category and symptom order.
func Grouped(symptoms []Symptom) []Group {
	cats := CategoriesOf(symptoms)
	groups := make([]Group, len(cats))
	idx := make(map[Category]int, len(cats))
	for i, c := range cats {
		groups[i].Category = c
		idx[c] = i
	}
	for _, s := range symptoms {
		i := idx[s.Category]
		groups[i].Symptoms = append(groups[i].Symptoms, s)
	}
	return groups
}
