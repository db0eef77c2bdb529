package report

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestPDFRenderer_Render(t *testing.T) {
	d := &Detail{
		Report: Report{ReportID: "RPT-1", DoctorName: "Dr. Salem", CreatedAt: time.Now()},
		Entries: []Entry{{
			Title:        "Wound check",
			Description:  "Laceration on left forearm, cleaned and dressed.",
			Prescription: "Amoxicillin 500mg three times daily",
			VitalSigns:   VitalSigns{Temperature: "37.9", HeartRate: "88"},
			CreatedAt:    time.Now(),
		}},
	}
	out, err := NewPDFRenderer().Render(d, "Amina Haddad")
	if errors.Is(err, ErrFontUnavailable) {
		t.Skip("DejaVu font not installed")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	_, err := NewPDFRenderer("/nonexistent/font.ttf").Render(&Detail{}, "")
	if !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("expected ErrFontUnavailable, got %v", err)
	}
}
