package symptom

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListAll_StableAndCopied(t *testing.T) {
	a := ListAll()
	b := ListAll()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("ListAll not stable (-first +second):\n%s", diff)
	}
	a[0].SeverityWeight = 99
	if ListAll()[0].SeverityWeight == 99 {
		t.Fatal("ListAll returned the backing catalog")
	}
}

func TestCatalog_Invariants(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range ListAll() {
		if seen[s.ID] {
			t.Errorf("duplicate id %q", s.ID)
		}
		seen[s.ID] = true
		if s.SeverityWeight < 1 || s.SeverityWeight > 4 {
			t.Errorf("%s: weight %d out of range", s.ID, s.SeverityWeight)
		}
		if !s.Category.Valid() {
			t.Errorf("%s: invalid category %d", s.ID, s.Category)
		}
	}
	if len(seen) != 15 {
		t.Errorf("expected 15 symptoms, got %d", len(seen))
	}
}

func TestCategoriesOf_FirstSeenOrder(t *testing.T) {
	want := []Category{
		CategoryGeneral, CategoryRespiratory, CategoryNeurological, CategoryDigestive,
		CategoryCardiovascular, CategoryMusculoskeletal, CategoryDermatological,
	}
	if diff := cmp.Diff(want, CategoriesOf(ListAll())); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got := CategoriesOf(nil); len(got) != 0 {
		t.Errorf("expected no categories for empty input, got %v", got)
	}
}

func TestGrouped(t *testing.T) {
	groups := Grouped(ListAll())
	if len(groups) != 7 {
		t.Fatalf("expected 7 groups, got %d", len(groups))
	}
	var digestive []string
	for _, g := range groups {
		if g.Category == CategoryDigestive {
			for _, s := range g.Symptoms {
				digestive = append(digestive, s.ID)
			}
		}
	}
	want := []string{"nausea", "vomiting", "abdominal_pain"}
	if diff := cmp.Diff(want, digestive); diff != "" {
		t.Errorf("digestive group mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("severe_headache")
	if !ok || s.SeverityWeight != 3 || !s.HighSeverity() {
		t.Errorf("unexpected lookup result %+v ok=%v", s, ok)
	}
	if _, ok := Lookup("unknown"); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestCategory_JSON(t *testing.T) {
	b, err := json.Marshal(CategoryCardiovascular)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"Cardiovascular"` {
		t.Errorf("got %s", b)
	}
	var c Category
	if err := json.Unmarshal([]byte(`"Dermatological"`), &c); err != nil || c != CategoryDermatological {
		t.Errorf("unmarshal got %v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"Ocular"`), &c); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := json.Marshal(Category(0)); err == nil {
		t.Error("expected error marshalling zero category")
	}
}
