// Package notify defines the closed set of notification variants the
// coordination service can emit. The set is sealed: every variant implements
// Notification through an unexported marker method, so handling code works
// against concrete variants and cannot fall through a default branch for a
// kind it forgot.
package notify

import (
	"fmt"

	"github.com/carebridge/carebridge/internal/domain/model"
)

// Priority orders notifications for delivery sinks.
type Priority int

// Delivery priorities, lowest to highest.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// String names the priority for logs and wire payloads.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Notification is the sealed interface over all notification variants.
type Notification interface {
	// Priority returns the delivery priority of this notification.
	Priority() Priority
	// Render produces the human-readable message body.
	Render() string

	sealed()
}

// DoseReminder announces an upcoming medication dose.
type DoseReminder struct {
	MedicationName string
	Dosage         string
	Date           model.Date
	Time           model.TimeOfDay
}

func (DoseReminder) sealed()            {}
func (DoseReminder) Priority() Priority { return PriorityHigh }

func (n DoseReminder) Render() string {
	if n.Dosage != "" {
		return fmt.Sprintf("Dose due %s %s: %s (%s)", n.Date, n.Time, n.MedicationName, n.Dosage)
	}
	return fmt.Sprintf("Dose due %s %s: %s", n.Date, n.Time, n.MedicationName)
}

// EventReminder announces a calendar event happening today.
type EventReminder struct {
	Event model.CalendarEvent
}

func (EventReminder) sealed()            {}
func (EventReminder) Priority() Priority { return PriorityNormal }

func (n EventReminder) Render() string {
	return fmt.Sprintf("Today %s: %s", n.Event.Time, n.Event.Title)
}

// TeamUpdate announces a care-team roster change.
type TeamUpdate struct {
	MemberName string
	Change     string // "joined" or "left"
}

func (TeamUpdate) sealed()            {}
func (TeamUpdate) Priority() Priority { return PriorityLow }

func (n TeamUpdate) Render() string {
	return fmt.Sprintf("Care team: %s %s", n.MemberName, n.Change)
}

// ChatMention announces a chat message addressed to the current user.
type ChatMention struct {
	From string
	Text string
}

func (ChatMention) sealed()            {}
func (ChatMention) Priority() Priority { return PriorityNormal }

func (n ChatMention) Render() string {
	return fmt.Sprintf("%s mentioned you: %s", n.From, n.Text)
}
