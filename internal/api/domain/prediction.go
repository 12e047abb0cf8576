package domain

import "time"

// Prediction is one recorded classification of an uploaded MRI scan. Records
// are append-only; nothing in the service updates or deletes them.
type Prediction struct {
	ID         string
	UserEmail  string
	Class      string
	Confidence float64 // percentage, 0..100
	Filename   string
	CreatedAt  time.Time
}
