// Package domain contains the core data types for the Volta trip planner.
// It depends only on the standard library and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Trip is a journey owned by a single user. Plans belong to a trip.
// StartDate and EndDate are calendar dates stored at midnight UTC.
type Trip struct {
	ID           string
	OwnerID      string
	Destination  string
	StartDate    time.Time
	EndDate      time.Time
	CreationDate time.Time
}
