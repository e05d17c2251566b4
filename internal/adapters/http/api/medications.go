package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/internal/adapters/source"
	"github.com/carebridge/carebridge/internal/domain/model"
)

// medicationRequest mirrors the OpenAPI schema for POST /medications/schedule.
type medicationRequest struct {
	Name          string `json:"name"`
	DefaultDosage string `json:"default_dosage,omitempty"`
	Frequency     string `json:"frequency"`
	DurationDays  int    `json:"duration_days"`
	StartDate     string `json:"start_date"`
}

func (m medicationRequest) toMedication() (model.Medication, error) {
	if strings.TrimSpace(m.Name) == "" {
		return model.Medication{}, errors.New("missing name")
	}
	freq, err := model.ParseFrequency(m.Frequency)
	if err != nil {
		return model.Medication{}, err
	}
	if m.DurationDays < 0 {
		return model.Medication{}, errors.New("duration_days must not be negative")
	}
	start, err := model.ParseDate(m.StartDate)
	if err != nil {
		return model.Medication{}, err
	}
	return model.Medication{
		ID:            uuid.NewString(),
		Name:          m.Name,
		DefaultDosage: m.DefaultDosage,
		Frequency:     freq,
		DurationDays:  m.DurationDays,
		StartDate:     start,
	}, nil
}

// doseResponse is the wire shape of one scheduled dose.
type doseResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Dosage string `json:"dosage,omitempty"`
}

type scheduleResponse struct {
	MedicationID string         `json:"medication_id"`
	Doses        []doseResponse `json:"doses"`
}

// MedicationsHandler handles medication scheduling requests.
type MedicationsHandler struct {
	deps Dependencies
}

// NewMedicationsHandler creates a new medications handler.
func NewMedicationsHandler(deps Dependencies) *MedicationsHandler {
	return &MedicationsHandler{deps: deps}
}

// HandleSchedule handles POST /medications/schedule requests.
func (h *MedicationsHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.schedule_medication"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	med, err := req.toMedication()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	instants, err := h.deps.ScheduleDoses(r.Context(), med)
	switch {
	case err == nil:
		doses := make([]doseResponse, len(instants))
		for i, instant := range instants {
			doses[i] = doseResponse{
				ID:     instant.ID,
				Date:   instant.Date.String(),
				Time:   instant.Time.String(),
				Dosage: instant.EffectiveDosage(med),
			}
		}
		writeJSON(w, http.StatusCreated, scheduleResponse{MedicationID: med.ID, Doses: doses})
	case errors.Is(err, model.ErrUnknownFrequency):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, source.ErrUnavailable) || errors.Is(err, source.ErrRejected):
		writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// RemindersHandler exposes the manual reminder sweep trigger.
type RemindersHandler struct {
	deps Dependencies
}

// NewRemindersHandler creates a new reminders handler.
func NewRemindersHandler(deps Dependencies) *RemindersHandler {
	return &RemindersHandler{deps: deps}
}

// HandleSweep handles POST /reminders/sweep requests.
func (h *RemindersHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	const op = "api.sweep_reminders"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	enqueued, err := h.deps.SweepReminders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"enqueued": enqueued})
}
