package model

import "strings"

// Frequency names how many doses a medication takes per day.
type Frequency string

// Supported dosing frequencies.
const (
	OnceDaily       Frequency = "once-daily"
	TwiceDaily      Frequency = "twice-daily"
	ThreeTimesDaily Frequency = "three-times-daily"
)

// ParseFrequency maps a wire string to a Frequency. Unknown values are an
// explicit error rather than a silent empty schedule.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.TrimSpace(strings.ToLower(s))) {
	case OnceDaily:
		return OnceDaily, nil
	case TwiceDaily:
		return TwiceDaily, nil
	case ThreeTimesDaily:
		return ThreeTimesDaily, nil
	default:
		return "", ErrUnknownFrequency
	}
}

// Medication describes a recurring dose template for one medication.
type Medication struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DefaultDosage string    `json:"default_dosage"`
	Frequency     Frequency `json:"frequency"`
	DurationDays  int       `json:"duration_days"`
	StartDate     Date      `json:"-"`
}

// DoseInstant is one concrete administration point derived from a
// medication's frequency template.
type DoseInstant struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medication_id"`
	Date         Date      `json:"-"`
	Time         TimeOfDay `json:"-"`
	// Dosage is an optional per-dose override; the medication default
	// applies when it is empty.
	Dosage string `json:"dosage,omitempty"`
}

// EffectiveDosage resolves the dose's dosage, falling back to the
// medication's default when no override is set.
func (d DoseInstant) EffectiveDosage(med Medication) string {
	if d.Dosage != "" {
		return d.Dosage
	}
	return med.DefaultDosage
}
