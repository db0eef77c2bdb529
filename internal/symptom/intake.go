package symptom

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrMissingDemographics = errors.New("age and gender are required")
	ErrInvalidAge          = errors.New("age must be a whole number between 0 and 130")
	ErrInvalidGender       = errors.New("unknown gender option")
	ErrMissingDetails      = errors.New("duration and intensity are required")
	ErrWrongState          = errors.New("action not allowed in current step")
)

// Step is a position in the intake questionnaire.
type Step int

const (
	StepCollectingDemographics Step = iota
	StepSelectingSymptoms
	StepCollectingDetails
	StepShowingResult
)

var stepNames = [...]string{
	StepCollectingDemographics: "collecting_demographics",
	StepSelectingSymptoms:      "selecting_symptoms",
	StepCollectingDetails:      "collecting_details",
	StepShowingResult:          "showing_result",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalJSON() ([]byte, error) {
	if s < 0 || int(s) >= len(stepNames) {
		return nil, fmt.Errorf("invalid step %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range stepNames {
		if n == name {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", name)
}

// Gender options offered on the demographics step.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Intake holds one in-progress questionnaire. Transitions take the value
// and return a new one; the receiver is never modified, so a caller can keep
// the previous state around.
type Intake struct {
	Step           Step              `json:"step"`
	Age            string            `json:"age"`
	Gender         Gender            `json:"gender"`
	Selected       []string          `json:"selectedSymptoms"`
	Duration       Duration          `json:"duration"`
	Intensity      Intensity         `json:"intensity"`
	AdditionalInfo string            `json:"additionalInfo"`
	Result         *AssessmentResult `json:"result,omitempty"`
}

// NewIntake starts an empty questionnaire.
func NewIntake() Intake {
	return Intake{Step: StepCollectingDemographics}
}

func (in Intake) clone() Intake {
	out := in
	out.Selected = slices.Clone(in.Selected)
	if in.Result != nil {
		r := *in.Result
		r.NextSteps = slices.Clone(in.Result.NextSteps)
		r.EmergencyContacts = slices.Clone(in.Result.EmergencyContacts)
		out.Result = &r
	}
	return out
}

// SubmitDemographics records age and gender and moves to symptom selection.
func (in Intake) SubmitDemographics(age string, gender Gender) (Intake, error) {
	if in.Step != StepCollectingDemographics {
		return in, ErrWrongState
	}
	age = strings.TrimSpace(age)
	if age == "" || gender == "" {
		return in, ErrMissingDemographics
	}
	n, err := strconv.Atoi(age)
	if err != nil || n < 0 || n > 130 {
		return in, ErrInvalidAge
	}
	if !gender.Valid() {
		return in, ErrInvalidGender
	}
	out := in.clone()
	out.Age = age
	out.Gender = gender
	out.Step = StepSelectingSymptoms
	return out, nil
}

// ToggleSymptom adds the id to the selection, or removes it if present.
func (in Intake) ToggleSymptom(id string) (Intake, error) {
	if in.Step != StepSelectingSymptoms {
		return in, ErrWrongState
	}
	if _, ok := Lookup(id); !ok {
		return in, fmt.Errorf("%w: %q", ErrInvalidSymptomID, id)
	}
	out := in.clone()
	if i := slices.Index(out.Selected, id); i >= 0 {
		out.Selected = slices.Delete(out.Selected, i, i+1)
	} else {
		out.Selected = append(out.Selected, id)
	}
	return out, nil
}

// ConfirmSymptoms moves on to the details step once something is selected.
func (in Intake) ConfirmSymptoms() (Intake, error) {
	if in.Step != StepSelectingSymptoms {
		return in, ErrWrongState
	}
	if len(in.Selected) == 0 {
		return in, ErrEmptySelection
	}
	out := in.clone()
	out.Step = StepCollectingDetails
	return out, nil
}

// SubmitDetails records duration and intensity, scores the selection and
// moves to the result step. On any error the intake is returned unchanged.
func (in Intake) SubmitDetails(d Duration, i Intensity, additionalInfo string) (Intake, error) {
	if in.Step != StepCollectingDetails {
		return in, ErrWrongState
	}
	if !d.Valid() || !i.Valid() {
		return in, ErrMissingDetails
	}
	out := in.clone()
	out.Duration = d
	out.Intensity = i
	out.AdditionalInfo = strings.TrimSpace(additionalInfo)

	res, err := Assess(out.Input())
	if err != nil {
		return in, err
	}
	out.Result = &res
	out.Step = StepShowingResult
	return out, nil
}

// Back returns to the previous step and keeps what was entered. Leaving the
// result step discards the computed result.
func (in Intake) Back() Intake {
	out := in.clone()
	switch in.Step {
	case StepSelectingSymptoms:
		out.Step = StepCollectingDemographics
	case StepCollectingDetails:
		out.Step = StepSelectingSymptoms
	case StepShowingResult:
		out.Step = StepCollectingDetails
		out.Result = nil
	}
	return out
}

// Reset discards everything and starts over.
func (in Intake) Reset() Intake {
	return NewIntake()
}

// Input is the assessment input accumulated so far.
func (in Intake) Input() AssessmentInput {
	return AssessmentInput{
		SelectedSymptomIDs: slices.Clone(in.Selected),
		Duration:           in.Duration,
		Intensity:          in.Intensity,
		AdditionalInfo:     in.AdditionalInfo,
	}
}

// Progress is the completion percentage shown above the form.
func (in Intake) Progress() int {
	return (int(in.Step) + 1) * 100 / len(stepNames)
}
