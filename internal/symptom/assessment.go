package symptom

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySelection   = errors.New("no symptoms selected")
	ErrInvalidSymptomID = errors.New("invalid symptom id")
)

// Tier is the coarse outcome of an assessment.
type Tier string

const (
	TierMild     Tier = "mild"
	TierModerate Tier = "moderate"
	TierSevere   Tier = "severe"
)

// Duration buckets how long the symptoms have lasted.
type Duration string

const (
	DurationLessThanDay     Duration = "less-than-day"
	DurationOneToThreeDays  Duration = "1-3-days"
	DurationFourToSevenDays Duration = "4-7-days"
	DurationOneToTwoWeeks   Duration = "1-2-weeks"
	DurationOverTwoWeeks    Duration = "more-than-2-weeks"
)

func (d Duration) Valid() bool {
	switch d {
	case DurationLessThanDay, DurationOneToThreeDays, DurationFourToSevenDays,
		DurationOneToTwoWeeks, DurationOverTwoWeeks:
		return true
	}
	return false
}

// Intensity is the patient's own rating of how bad the symptoms feel.
type Intensity string

const (
	IntensityMild       Intensity = "mild"
	IntensityModerate   Intensity = "moderate"
	IntensitySevere     Intensity = "severe"
	IntensityVerySevere Intensity = "very-severe"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityMild, IntensityModerate, IntensitySevere, IntensityVerySevere:
		return true
	}
	return false
}

// AssessmentInput is what the checker collects before scoring. Duration,
// Intensity and AdditionalInfo are recorded for the clinician but do not
// change the tier.
type AssessmentInput struct {
	SelectedSymptomIDs []string  `json:"selectedSymptoms"`
	Duration           Duration  `json:"duration,omitempty"`
	Intensity          Intensity `json:"intensity,omitempty"`
	AdditionalInfo     string    `json:"additionalInfo,omitempty"`
}

// AssessmentResult is the triage outcome shown to the user.
type AssessmentResult struct {
	SeverityTier       Tier     `json:"severity"`
	RecommendationText string   `json:"recommendation"`
	UrgencyLabel       string   `json:"urgency"`
	NextSteps          []string `json:"nextSteps"`
	EmergencyContacts  []string `json:"emergencyContacts,omitempty"`
	MaxSeverity        int      `json:"maxSeverity"`
	AvgSeverity        float64  `json:"avgSeverity"`
}

// emergencySymptoms force the severe tier on their own.
var emergencySymptoms = map[string]bool{
	"chest_pain":           true,
	"difficulty_breathing": true,
}

type guidance struct {
	recommendation string
	urgency        string
	nextSteps      []string
	contacts       []string
}

var guidanceByTier = map[Tier]guidance{
	TierSevere: {
		recommendation: "Seek immediate medical attention",
		urgency:        "URGENT - Within 1 hour",
		nextSteps: []string{
			"Call emergency services (112) immediately",
			"Go to the nearest emergency room",
			"Do not drive yourself - call for ambulance",
			"Stay calm and follow emergency operator instructions",
		},
		contacts: []string{
			"Emergency Services: 112",
			"UNHCR Health Hotline: +961-1-123456",
		},
	},
	TierModerate: {
		recommendation: "Schedule medical consultation within 24-48 hours",
		urgency:        "Moderate - Within 1-2 days",
		nextSteps: []string{
			"Contact your nearest healthcare provider",
			"Monitor symptoms closely",
			"Rest and stay hydrated",
			"Seek immediate care if symptoms worsen",
		},
	},
	TierMild: {
		recommendation: "Self-care and monitoring recommended",
		urgency:        "Low - Monitor at home",
		nextSteps: []string{
			"Rest and get adequate sleep",
			"Stay hydrated with plenty of fluids",
			"Monitor symptoms for changes",
			"Contact healthcare provider if symptoms persist beyond 3-5 days",
		},
	},
}

// Assess scores the selected symptoms. It returns ErrEmptySelection or a
// wrapped ErrInvalidSymptomID instead of guessing a tier.
func Assess(in AssessmentInput) (AssessmentResult, error) {
	if len(in.SelectedSymptomIDs) == 0 {
		return AssessmentResult{}, ErrEmptySelection
	}

	// The selection is a set; repeated ids count once.
	seen := make(map[string]bool, len(in.SelectedSymptomIDs))
	maxSeverity, total := 0, 0
	emergency := false
	for _, id := range in.SelectedSymptomIDs {
		s, ok := Lookup(id)
		if !ok {
			return AssessmentResult{}, fmt.Errorf("%w: %q", ErrInvalidSymptomID, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if s.SeverityWeight > maxSeverity {
			maxSeverity = s.SeverityWeight
		}
		total += s.SeverityWeight
		if emergencySymptoms[id] {
			emergency = true
		}
	}
	avgSeverity := float64(total) / float64(len(seen))

	tier := classify(emergency, maxSeverity, avgSeverity)
	g := guidanceByTier[tier]
	res := AssessmentResult{
		SeverityTier:       tier,
		RecommendationText: g.recommendation,
		UrgencyLabel:       g.urgency,
		NextSteps:          append([]string(nil), g.nextSteps...),
		MaxSeverity:        maxSeverity,
		AvgSeverity:        avgSeverity,
	}
	if tier == TierSevere {
		res.EmergencyContacts = append([]string(nil), g.contacts...)
	}
	return res, nil
}

// classify applies the decision table; the first matching row wins.
func classify(emergency bool, maxSeverity int, avgSeverity float64) Tier {
	switch {
	case emergency || maxSeverity >= 4:
		return TierSevere
	case maxSeverity >= 3 || avgSeverity >= 2.5:
		return TierModerate
	default:
		return TierMild
	}
}
