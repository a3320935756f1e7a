// Package complaint provides the core logic for registering public complaints,
// including the numbering protocol that gives every complaint a unique,
// permanent public number equal to its database id.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"denuncias/backend/internal/models"
	"denuncias/backend/internal/storage"
)

var (
	// ErrNotFound is returned when the requested complaint does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidComplaint is returned for a missing place or over-long fields.
	ErrInvalidComplaint = errors.New("invalid complaint")
	// ErrPlaceRequired is the ErrInvalidComplaint returned for a blank place.
	ErrPlaceRequired = fmt.Errorf("%w: place is required", ErrInvalidComplaint)
)

// Outcome reports what Create actually persisted.
type Outcome int

const (
	// OutcomeCreated: the record exists and Number == ID.
	OutcomeCreated Outcome = iota
	// OutcomePartiallyFinalized: the record exists but kept its provisional number.
	OutcomePartiallyFinalized
	// OutcomeAbandoned: both provisional numbers collided; nothing was stored.
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomePartiallyFinalized:
		return "partially_finalized"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Result is returned by Create. Complaint is nil when Outcome is OutcomeAbandoned.
type Result struct {
	Complaint *models.Complaint
	Outcome   Outcome
}

// Service handles the business logic for complaints.
type Service struct {
	Storage storage.Storage
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock provisional numbers are derived from.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, opts ...Option) *Service {
	svc := &Service{Storage: s, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// provisionalNumber is negative so it can never clash with a finalized
// number, which is always a positive id.
func (s *Service) provisionalNumber() int64 {
	return -s.now().UnixMilli()
}

// Create stores a new complaint and gives it its public number.
//
// The row is first inserted with a provisional negative number, because the
// id is only known after the insert. A collision on that number is retried
// once with a fresh one; a second collision abandons the creation without
// an error. The number is then rewritten to the id. If that rewrite
// collides, the record is kept with its provisional number.
func (s *Service) Create(ctx context.Context, name, place string) (Result, error) {
	name = normalizeName(name)
	if err := validate(name, place); err != nil {
		return Result{}, err
	}

	c := &models.Complaint{Number: s.provisionalNumber(), Name: name, Place: place}
	err := s.Storage.InsertComplaint(ctx, c)
	if errors.Is(err, storage.ErrDuplicateNumber) {
		c.ID = 0
		c.Number = s.provisionalNumber()
		err = s.Storage.InsertComplaint(ctx, c)
		if errors.Is(err, storage.ErrDuplicateNumber) {
			log.Printf("WARN: complaint creation abandoned, provisional number %d collided twice", c.Number)
			return Result{Outcome: OutcomeAbandoned}, nil
		}
	}
	if err != nil {
		return Result{}, fmt.Errorf("insert complaint: %w", err)
	}

	outcome := OutcomeCreated
	err = s.Storage.SetComplaintNumber(ctx, c.ID, c.ID)
	switch {
	case err == nil:
		c.Number = c.ID
	case errors.Is(err, storage.ErrDuplicateNumber):
		log.Printf("WARN: complaint %d keeps provisional number %d: %v", c.ID, c.Number, err)
		outcome = OutcomePartiallyFinalized
	default:
		return Result{}, fmt.Errorf("finalize complaint %d: %w", c.ID, err)
	}

	s.publish(ctx, models.EventComplaintCreated, *c)
	return Result{Complaint: c, Outcome: outcome}, nil
}

// List returns every complaint in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Complaint, error) {
	return s.Storage.ListComplaints(ctx)
}

// Get returns one complaint by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Complaint, error) {
	return s.Storage.GetComplaintByID(ctx, id)
}

// Update replaces name and place. Id and number never change.
func (s *Service) Update(ctx context.Context, id int64, name, place string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = normalizeName(name)
	if err := validate(name, place); err != nil {
		return nil, err
	}

	if err := s.Storage.UpdateComplaintDetails(ctx, id, name, place); err != nil {
		return nil, fmt.Errorf("update complaint %d: %w", id, err)
	}
	c.Name = name
	c.Place = place

	s.publish(ctx, models.EventComplaintUpdated, *c)
	return c, nil
}

// Delete removes a complaint permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Storage.DeleteComplaint(ctx, id); err != nil {
		return fmt.Errorf("delete complaint %d: %w", id, err)
	}

	s.publish(ctx, models.EventComplaintDeleted, *c)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, c models.Complaint) {
	event := models.ComplaintEvent{Type: eventType, Complaint: c, OccurredAt: s.now().UTC()}
	if err := s.Storage.PublishComplaintEvent(ctx, event); err != nil {
		log.Printf("ERROR: Failed to publish %s for complaint %d: %v", eventType, c.ID, err)
	}
}

func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return models.AnonymousName
	}
	return name
}

func validate(name, place string) error {
	if strings.TrimSpace(place) == "" {
		return ErrPlaceRequired
	}
	if utf8.RuneCountInString(place) > models.MaxPlaceLength {
		return fmt.Errorf("%w: place longer than %d characters", ErrInvalidComplaint, models.MaxPlaceLength)
	}
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidComplaint, models.MaxNameLength)
	}
	return nil
}
