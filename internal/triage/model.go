package triage

import "encoding/json"

type Classification string

const (
	ClassCritical    Classification = "CRITICAL"
	ClassModerate    Classification = "MODERATE"
	ClassNotCritical Classification = "NOT CRITICAL"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassCritical, ClassModerate, ClassNotCritical:
		return true
	}
	return false
}

// Request is one patient message plus any photos of the complaint.
type Request struct {
	Message  string
	Language string
	Images   []Image
}

type Image struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Assessment is the structured answer the model is asked to produce.
type Assessment struct {
	Classification  Classification `json:"classification"`
	Summary         string         `json:"summary"`
	Reasoning       string         `json:"reasoning"`
	RecommendedCare []string       `json:"recommended_care"`
	NextSteps       string         `json:"next_steps"`
}

// Unparsed carries a reply that was not valid JSON. It is returned in
// place of an Assessment so callers never see a guessed classification.
type Unparsed struct {
	Raw   string `json:"raw"`
	Error string `json:"error"`
}

// Result holds exactly one of Assessment or Unparsed.
type Result struct {
	Assessment *Assessment
	Unparsed   *Unparsed
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Unparsed != nil {
		return json.Marshal(r.Unparsed)
	}
	return json.Marshal(r.Assessment)
}
