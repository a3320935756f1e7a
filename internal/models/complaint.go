package models

// AnonymousName is stored when the submitter leaves the name blank.
const AnonymousName = "Anonymous"

const (
	MaxNameLength  = 100
	MaxPlaceLength = 200
)

// Complaint is a single public complaint ("denuncia").
// ID is assigned by the database; Number is the public-facing number and
// equals ID once the record has been finalized.
type Complaint struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Number int64  `gorm:"not null;uniqueIndex" json:"number"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Place  string `gorm:"size:200;not null" json:"place"`
}

// TableName pins the table created by migration 0001_initial.
func (Complaint) TableName() string {
	return "complaints"
}

// State describes how far a complaint got through the numbering protocol.
type State string

const (
	StateProvisional        State = "provisional"
	StateFinalized          State = "finalized"
	StatePartiallyFinalized State = "partially_finalized"
)

// State reports the lifecycle state derived from ID and Number.
// A record with an assigned ID and a negative number never got its
// number rewritten and stays partially finalized until deleted.
func (c *Complaint) State() State {
	switch {
	case c.ID == 0:
		return StateProvisional
	case c.Number == c.ID:
		return StateFinalized
	default:
		return StatePartiallyFinalized
	}
}
