package models

import "time"

const (
	AttemptFood = "food"
)

// AnalysisAttempt is a write-only audit record of one vision call,
// counted for the daily quota.
type AnalysisAttempt struct {
	UserID    string    `bson:"user_id" json:"userId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Type      string    `bson:"type" json:"type"`
}
