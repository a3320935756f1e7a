package models

import "time"

// Event types published on the complaints channel.
const (
	EventComplaintCreated = "complaint.created"
	EventComplaintUpdated = "complaint.updated"
	EventComplaintDeleted = "complaint.deleted"
)

// ComplaintEvent is the JSON payload published to Redis after a change.
type ComplaintEvent struct {
	Type       string    `json:"type"`
	Complaint  Complaint `json:"complaint"`
	OccurredAt time.Time `json:"occurred_at"`
}
