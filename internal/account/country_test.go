package account

import (
	"testing"
	"time"
)

func TestValidateGovernmentID(t *testing.T) {
	tests := []struct {
		country, id string
		want        bool
	}{
		{"IN", "123456789012", true},
		{"IN", "12345678901", false},
		{"lb", "abc-12d34567", true},
		{"LB", "AB-12D34567", false},
		{"JO", "XYZ-98A76543", true},
		{"TR", "99123456789", true},
		{"TR", "98123456789", false},
		{"DE", "C01X00T47", true},
		{"DE", "C01X00T4", false},
		{"US", "A12345678", true},
		{"US", "A123456789", true},
		{"US", "B12345678", false},
		{"XX", "anything", false},
	}
	for _, tt := range tests {
		if got := ValidateGovernmentID(tt.country, tt.id); got != tt.want {
			t.Errorf("ValidateGovernmentID(%q, %q) = %v, want %v", tt.country, tt.id, got, tt.want)
		}
	}
}

func TestGenerateUniqueID(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := GenerateUniqueID("tr", 42, now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "TUR-2025-000042" {
		t.Errorf("got %s, want TUR-2025-000042", got)
	}
	if _, err := GenerateUniqueID("ZZ", 1, now); err == nil {
		t.Error("expected error for unknown country")
	}
}

func TestCountries_SortedByName(t *testing.T) {
	list := Countries()
	if len(list) != 6 {
		t.Fatalf("expected 6 countries, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("not sorted: %s before %s", list[i-1].Name, list[i].Name)
		}
	}
}
