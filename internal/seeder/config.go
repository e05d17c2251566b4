package seeder

import "time"

// Config holds configuration for the calendar seeding run.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumEvents int           // Number of events to generate
	Days      int           // Spread events across this many days starting today
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for seeding output
	Verbose   bool          // Enable verbose logging
}

// Event is the wire shape posted to POST /events.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// AckResponse is the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seeding statistics.
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	UpcomingReturned int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
