package report

import (
	"time"

	"github.com/google/uuid"
)

// Report groups the entries a clinician recorded for one patient visit.
type Report struct {
	ReportID   string    `json:"reportId" db:"report_id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	DoctorName string    `json:"doctorName" db:"doctor_name"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type VitalSigns struct {
	Temperature      string `json:"temperature,omitempty"`
	BloodPressure    string `json:"bloodPressure,omitempty"`
	HeartRate        string `json:"heartRate,omitempty"`
	OxygenSaturation string `json:"oxygenSaturation,omitempty"`
}

func (v VitalSigns) IsZero() bool {
	return v == VitalSigns{}
}

type Entry struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ReportID     string     `json:"reportId" db:"report_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Prescription string     `json:"prescription" db:"prescription"`
	DoctorName   string     `json:"doctorName" db:"doctor_name"`
	VitalSigns   VitalSigns `json:"vitalSigns" db:"vital_signs"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// Detail is a report with its entries, newest entry first.
type Detail struct {
	Report
	Entries []Entry `json:"entries"`
}

type CreateEntryRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Prescription string     `json:"prescription"`
	VitalSigns   VitalSigns `json:"vitalSigns"`
}

type CreateReportRequest struct {
	UserID     uuid.UUID            `json:"userId"`
	DoctorName string               `json:"doctorName"`
	Entries    []CreateEntryRequest `json:"entries"`
}

// MedicationRecord is one prescription taken from a report entry.
type MedicationRecord struct {
	ID          uuid.UUID  `json:"id"`
	Medication  string     `json:"medication"`
	Doctor      string     `json:"doctor"`
	Date        time.Time  `json:"date"`
	ReportID    string     `json:"reportId"`
	ReportTitle string     `json:"reportTitle"`
	Description string     `json:"description"`
	VitalSigns  VitalSigns `json:"vitalSigns"`
}

type MedicationSummary struct {
	TotalMedications   int               `json:"totalMedications"`
	CurrentMedications int               `json:"currentMedications"`
	LastMedication     *MedicationRecord `json:"lastMedication"`
	MostRecentDoctor   *string           `json:"mostRecentDoctor"`
}

type MedicationHistory struct {
	MedicationHistory  []MedicationRecord `json:"medicationHistory"`
	CurrentMedications []MedicationRecord `json:"currentMedications"`
	Summary            MedicationSummary  `json:"summary"`
}
