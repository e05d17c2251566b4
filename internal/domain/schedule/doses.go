package schedule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// doseSlots maps each frequency to its fixed daily administration times.
// Slot times are civil wall-clock values; no timezone or DST adjustment is
// applied (naive day arithmetic is a stated non-goal boundary).
func doseSlots(freq model.Frequency) ([]model.TimeOfDay, error) {
	morning, _ := model.MinutesOfDay(8, 0)
	midday, _ := model.MinutesOfDay(13, 0)
	evening, _ := model.MinutesOfDay(20, 0)

	switch freq {
	case model.OnceDaily:
		return []model.TimeOfDay{morning}, nil
	case model.TwiceDaily:
		return []model.TimeOfDay{morning, evening}, nil
	case model.ThreeTimesDaily:
		return []model.TimeOfDay{morning, midday, evening}, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownFrequency, freq)
	}
}

// ExpandDoses expands a medication's frequency template into concrete dose
// instants: one per slot per day for DurationDays consecutive days starting
// at StartDate. Each instant gets a fresh id and no dosage override; the
// medication default applies at read time. Zero duration yields an empty
// schedule, an unrecognized frequency is an error.
func ExpandDoses(med model.Medication) ([]model.DoseInstant, error) {
	slots, err := doseSlots(med.Frequency)
	if err != nil {
		return nil, err
	}
	if med.DurationDays <= 0 {
		return []model.DoseInstant{}, nil
	}

	// rrule generates the day series; a COUNT-bounded daily rule cannot
	// overrun the duration.
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   med.DurationDays,
		Dtstart: med.StartDate.Time(),
	})
	if err != nil {
		return nil, fmt.Errorf("build dose recurrence: %w", err)
	}

	days := rule.All()
	out := make([]model.DoseInstant, 0, len(days)*len(slots))
	for _, day := range days {
		date := model.DateOf(day)
		for _, slot := range slots {
			out = append(out, model.DoseInstant{
				ID:           uuid.NewString(),
				MedicationID: med.ID,
				Date:         date,
				Time:         slot,
			})
		}
	}
	return out, nil
}
