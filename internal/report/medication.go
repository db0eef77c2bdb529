package report

import "time"

// CurrentWindow is how far back a prescription still counts as current.
const CurrentWindow = 30 * 24 * time.Hour

const unknownDoctor = "Unknown Doctor"

// BuildMedicationHistory collects prescriptions from entries, which must be
// sorted newest first. Entries without a prescription are skipped.
func BuildMedicationHistory(reports []Report, entries []Entry, now time.Time) MedicationHistory {
	doctors := make(map[string]string, len(reports))
	for _, r := range reports {
		doctors[r.ReportID] = r.DoctorName
	}

	history := make([]MedicationRecord, 0, len(entries))
	for _, e := range entries {
		if e.Prescription == "" {
			continue
		}
		doctor := e.DoctorName
		if doctor == "" {
			doctor = doctors[e.ReportID]
		}
		if doctor == "" {
			doctor = unknownDoctor
		}
		history = append(history, MedicationRecord{
			ID:          e.ID,
			Medication:  e.Prescription,
			Doctor:      doctor,
			Date:        e.CreatedAt,
			ReportID:    e.ReportID,
			ReportTitle: e.Title,
			Description: e.Description,
			VitalSigns:  e.VitalSigns,
		})
	}

	cutoff := now.Add(-CurrentWindow)
	current := make([]MedicationRecord, 0)
	for _, m := range history {
		if !m.Date.Before(cutoff) {
			current = append(current, m)
		}
	}

	summary := MedicationSummary{
		TotalMedications:   len(history),
		CurrentMedications: len(current),
	}
	if len(history) > 0 {
		last := history[0]
		summary.LastMedication = &last
		summary.MostRecentDoctor = &last.Doctor
	}
	return MedicationHistory{
		MedicationHistory:  history,
		CurrentMedications: current,
		Summary:            summary,
	}
}
