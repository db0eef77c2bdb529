package symptom

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// must fails the test on a rejected transition and returns the new state.
func must(t *testing.T) func(Intake, error) Intake {
	t.Helper()
	return func(in Intake, err error) Intake {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return in
	}
}

func completedIntake(t *testing.T) Intake {
	t.Helper()
	in := NewIntake()
	in = must(t)(in.SubmitDemographics("34", GenderFemale))
	in = must(t)(in.ToggleSymptom("fever"))
	in = must(t)(in.ToggleSymptom("cough"))
	in = must(t)(in.ConfirmSymptoms())
	in = must(t)(in.SubmitDetails(DurationOneToThreeDays, IntensityModerate, "  since the weekend "))
	return in
}

func TestIntake_HappyPath(t *testing.T) {
	in := completedIntake(t)

	if in.Step != StepShowingResult {
		t.Fatalf("step = %s, want %s", in.Step, StepShowingResult)
	}
	if in.Result == nil || in.Result.SeverityTier != TierMild {
		t.Fatalf("expected mild result, got %+v", in.Result)
	}
	if in.AdditionalInfo != "since the weekend" {
		t.Errorf("additional info not trimmed: %q", in.AdditionalInfo)
	}
	if in.Progress() != 100 {
		t.Errorf("progress = %d, want 100", in.Progress())
	}
}

func TestIntake_DemographicsGuard(t *testing.T) {
	tests := []struct {
		name   string
		age    string
		gender Gender
		want   error
	}{
		{"missing age", "", GenderMale, ErrMissingDemographics},
		{"blank age", "   ", GenderMale, ErrMissingDemographics},
		{"missing gender", "40", "", ErrMissingDemographics},
		{"non numeric age", "forty", GenderMale, ErrInvalidAge},
		{"negative age", "-1", GenderMale, ErrInvalidAge},
		{"unknown gender", "40", Gender("robot"), ErrInvalidGender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := NewIntake()
			got, err := start.SubmitDemographics(tt.age, tt.gender)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if diff := cmp.Diff(start, got); diff != "" {
				t.Errorf("state changed on rejected transition (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntake_ConfirmRequiresSelection(t *testing.T) {
	in := must(t)(NewIntake().SubmitDemographics("20", GenderMale))
	if _, err := in.ConfirmSymptoms(); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	// Toggling twice deselects again.
	in = must(t)(in.ToggleSymptom("fever"))
	in = must(t)(in.ToggleSymptom("fever"))
	if _, err := in.ConfirmSymptoms(); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection after deselect, got %v", err)
	}
}

func TestIntake_ToggleUnknownSymptom(t *testing.T) {
	in := must(t)(NewIntake().SubmitDemographics("20", GenderMale))
	if _, err := in.ToggleSymptom("third_arm"); !errors.Is(err, ErrInvalidSymptomID) {
		t.Fatalf("expected ErrInvalidSymptomID, got %v", err)
	}
}

func TestIntake_DetailsGuard(t *testing.T) {
	in := must(t)(NewIntake().SubmitDemographics("20", GenderMale))
	in = must(t)(in.ToggleSymptom("fever"))
	in = must(t)(in.ConfirmSymptoms())

	if _, err := in.SubmitDetails("", IntensityMild, ""); !errors.Is(err, ErrMissingDetails) {
		t.Errorf("expected ErrMissingDetails for empty duration, got %v", err)
	}
	if _, err := in.SubmitDetails(DurationLessThanDay, "", ""); !errors.Is(err, ErrMissingDetails) {
		t.Errorf("expected ErrMissingDetails for empty intensity, got %v", err)
	}
}

func TestIntake_SubmitDetailsEngineErrorKeepsState(t *testing.T) {
	// A tampered client state can carry ids the catalog does not know.
	in := Intake{Step: StepCollectingDetails, Age: "20", Gender: GenderMale, Selected: []string{"bogus"}}
	got, err := in.SubmitDetails(DurationLessThanDay, IntensityMild, "")
	if !errors.Is(err, ErrInvalidSymptomID) {
		t.Fatalf("expected ErrInvalidSymptomID, got %v", err)
	}
	if got.Step != StepCollectingDetails || got.Result != nil {
		t.Errorf("state advanced despite engine error: %+v", got)
	}
}

func TestIntake_WrongState(t *testing.T) {
	start := NewIntake()
	if _, err := start.ToggleSymptom("fever"); !errors.Is(err, ErrWrongState) {
		t.Errorf("toggle: expected ErrWrongState, got %v", err)
	}
	if _, err := start.ConfirmSymptoms(); !errors.Is(err, ErrWrongState) {
		t.Errorf("confirm: expected ErrWrongState, got %v", err)
	}
	if _, err := start.SubmitDetails(DurationLessThanDay, IntensityMild, ""); !errors.Is(err, ErrWrongState) {
		t.Errorf("details: expected ErrWrongState, got %v", err)
	}
	done := completedIntake(t)
	if _, err := done.SubmitDemographics("1", GenderMale); !errors.Is(err, ErrWrongState) {
		t.Errorf("demographics: expected ErrWrongState, got %v", err)
	}
}

func TestIntake_BackPreservesData(t *testing.T) {
	done := completedIntake(t)

	details := done.Back()
	if details.Step != StepCollectingDetails || details.Result != nil {
		t.Fatalf("expected details step without result, got %+v", details)
	}
	if details.Duration != DurationOneToThreeDays || details.Intensity != IntensityModerate {
		t.Errorf("details lost on back: %+v", details)
	}

	selecting := details.Back()
	if diff := cmp.Diff([]string{"fever", "cough"}, selecting.Selected); diff != "" {
		t.Errorf("selection lost on back (-want +got):\n%s", diff)
	}

	demo := selecting.Back()
	if demo.Step != StepCollectingDemographics || demo.Age != "34" || demo.Gender != GenderFemale {
		t.Errorf("demographics lost on back: %+v", demo)
	}
	if again := demo.Back(); again.Step != StepCollectingDemographics {
		t.Errorf("back from first step moved to %s", again.Step)
	}
}

func TestIntake_ResetClearsEverything(t *testing.T) {
	done := completedIntake(t)
	reset := done.Reset()
	if diff := cmp.Diff(NewIntake(), reset); diff != "" {
		t.Errorf("reset left data behind (-want +got):\n%s", diff)
	}
	if reset.Age != "" || reset.Gender != "" || len(reset.Selected) != 0 ||
		reset.Duration != "" || reset.Intensity != "" || reset.Result != nil {
		t.Errorf("reset did not clear fields: %+v", reset)
	}
}

func TestIntake_TransitionsDoNotMutateReceiver(t *testing.T) {
	in := must(t)(NewIntake().SubmitDemographics("20", GenderMale))
	in = must(t)(in.ToggleSymptom("fever"))
	snapshot := in.clone()

	if _, err := in.ToggleSymptom("cough"); err != nil {
		t.Fatal(err)
	}
	if _, err := in.ToggleSymptom("fever"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snapshot, in); diff != "" {
		t.Errorf("receiver mutated (-before +after):\n%s", diff)
	}
}

func TestIntake_JSONRoundTrip(t *testing.T) {
	done := completedIntake(t)
	b, err := json.Marshal(done)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Intake
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(done, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
