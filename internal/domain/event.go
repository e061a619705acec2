package domain

import "time"

// LearningEvent is the append-only audit record of one answered prompt.
// Written once by the session controller, never mutated; consumed only by
// external analytics.
type LearningEvent struct {
	DeviceID           string
	Timestamp          time.Time
	ItemID             string
	MsToFirstClick     int64
	MsToCompletion     int64
	Attempts           int
	FirstClickDistance float64
}
