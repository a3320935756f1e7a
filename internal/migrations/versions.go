package migrations

import "gorm.io/gorm"

// All returns the application's migrations, oldest first.
func All() []Migration {
	return []Migration{
		initial,
	}
}

// complaintV1 is the complaints table as created by 0001_initial. It is
// frozen here so later model changes do not rewrite history.
type complaintV1 struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Number int64  `gorm:"not null;uniqueIndex:idx_complaints_number"`
	Name   string `gorm:"size:100;not null"`
	Place  string `gorm:"size:200;not null"`
}

func (complaintV1) TableName() string {
	return "complaints"
}

var initial = Migration{
	ID: "0001_initial",
	Up: func(tx *gorm.DB) error {
		return tx.Migrator().CreateTable(&complaintV1{})
	},
	Down: func(tx *gorm.DB) error {
		return tx.Migrator().DropTable(&complaintV1{})
	},
}
