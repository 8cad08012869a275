package domain

import "time"

// User is an account that owns trips.
// PasswordDigest is the bcrypt digest and must never be serialised to clients.
type User struct {
	ID             string
	Email          string
	PasswordDigest string
	CreatedAt      time.Time
}
