// Package migrations keeps the database schema under explicit, versioned
// control. The server never changes the schema on its own; the admin CLI
// applies, reverts and stamps versions.
package migrations

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Head refers to the newest known migration in Stamp.
const Head = "head"

var ErrUnknownVersion = errors.New("unknown migration version")

// Migration is one schema step. Up and Down run inside a transaction.
type Migration struct {
	ID   string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// SchemaMigration records an applied version.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// Migrator applies an ordered list of migrations to one database.
type Migrator struct {
	DB         *gorm.DB
	Migrations []Migration
}

// New returns a Migrator over the application's migrations.
func New(db *gorm.DB) *Migrator {
	return &Migrator{DB: db, Migrations: All()}
}

func (m *Migrator) ensureVersionTable() error {
	if m.DB.Migrator().HasTable(&SchemaMigration{}) {
		return nil
	}
	return m.DB.Migrator().CreateTable(&SchemaMigration{})
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}
	var rows []SchemaMigration
	if err := m.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(rows))
	for _, r := range rows {
		done[r.Version] = true
	}
	return done, nil
}

// Upgrade applies every pending migration in order and returns the IDs it ran.
func (m *Migrator) Upgrade() ([]string, error) {
	done, err := m.applied()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, mig := range m.Migrations {
		if done[mig.ID] {
			continue
		}
		err := m.DB.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: mig.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("upgrade %s: %w", mig.ID, err)
		}
		log.Printf("INFO: applied migration %s", mig.ID)
		ran = append(ran, mig.ID)
	}
	return ran, nil
}

// Downgrade reverts up to steps applied migrations, newest first.
func (m *Migrator) Downgrade(steps int) ([]string, error) {
	done, err := m.applied()
	if err != nil {
		return nil, err
	}

	var reverted []string
	for i := len(m.Migrations) - 1; i >= 0 && len(reverted) < steps; i-- {
		mig := m.Migrations[i]
		if !done[mig.ID] {
			continue
		}
		err := m.DB.Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&SchemaMigration{}, "version = ?", mig.ID).Error
		})
		if err != nil {
			return reverted, fmt.Errorf("downgrade %s: %w", mig.ID, err)
		}
		log.Printf("INFO: reverted migration %s", mig.ID)
		reverted = append(reverted, mig.ID)
	}
	return reverted, nil
}

// Stamp marks the database as being at version without running anything:
// every migration up to and including version is recorded, later ones are
// forgotten.
func (m *Migrator) Stamp(version string) error {
	if version == Head {
		if len(m.Migrations) == 0 {
			return nil
		}
		version = m.Migrations[len(m.Migrations)-1].ID
	}

	idx := m.indexOf(version)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownVersion, version)
	}
	if err := m.ensureVersionTable(); err != nil {
		return err
	}

	return m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&SchemaMigration{}).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, mig := range m.Migrations[:idx+1] {
			if err := tx.Create(&SchemaMigration{Version: mig.ID, AppliedAt: now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Current returns the newest applied version, or "" for an empty database.
func (m *Migrator) Current() (string, error) {
	done, err := m.applied()
	if err != nil {
		return "", err
	}
	for i := len(m.Migrations) - 1; i >= 0; i-- {
		if done[m.Migrations[i].ID] {
			return m.Migrations[i].ID, nil
		}
	}
	return "", nil
}

// Status is one line of History.
type Status struct {
	ID      string
	Applied bool
}

// History lists every known migration, oldest first.
func (m *Migrator) History() ([]Status, error) {
	done, err := m.applied()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(m.Migrations))
	for _, mig := range m.Migrations {
		out = append(out, Status{ID: mig.ID, Applied: done[mig.ID]})
	}
	return out, nil
}

func (m *Migrator) indexOf(version string) int {
	for i, mig := range m.Migrations {
		if mig.ID == version {
			return i
		}
	}
	return -1
}
