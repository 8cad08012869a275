package domain

import "time"

// Plan is one day of a trip's itinerary. DayNumber is only meaningful inside
// its trip and may repeat; identity is ID.
type Plan struct {
	ID        string
	TripID    string
	DayNumber int
	CreatedAt time.Time
}

// Activity is a single entry in a Plan.
// Hour keeps the caller's text ("3:00 PM"); MinuteOfDay is the parsed value
// used for ordering.
type Activity struct {
	ID          string
	PlanID      string
	Hour        string
	MinuteOfDay int
	Description string
}

// DayPlan is a Plan together with its activities ordered by time of day.
type DayPlan struct {
	Plan       Plan
	Activities []Activity
}
