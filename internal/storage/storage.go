package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"denuncias/backend/internal/config"
	"denuncias/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence surface the complaint register depends on.
// Every method is a single statement, so each one commits or fails on its own.
type Storage interface {
	InsertComplaint(ctx context.Context, complaint *models.Complaint) error
	SetComplaintNumber(ctx context.Context, id, number int64) error
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	GetComplaintByID(ctx context.Context, id int64) (*models.Complaint, error)
	UpdateComplaintDetails(ctx context.Context, id int64, name, place string) error
	DeleteComplaint(ctx context.Context, id int64) error

	PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	// Channel is the Redis Pub/Sub channel for complaint events.
	Channel string
}

// NewStorageService Constructor. rdb may be nil, in which case events are dropped.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:      db,
		Redis:   rdb,
		Channel: config.EventsChannel,
	}
}

// InsertComplaint creates the row; GORM fills complaint.ID.
// A collision on the unique number column is reported as ErrDuplicateNumber.
func (s *Service) InsertComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert complaint number %d: %w", complaint.Number, ErrDuplicateNumber)
		}
		log.Printf("ERROR: Failed to insert complaint: %v", err)
		return err
	}
	return nil
}

// SetComplaintNumber rewrites the public number of an existing row.
func (s *Service) SetComplaintNumber(ctx context.Context, id, number int64) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("number", number)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return fmt.Errorf("set complaint %d number to %d: %w", id, number, ErrDuplicateNumber)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComplaints returns every complaint in insertion order.
func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) GetComplaintByID(ctx context.Context, id int64) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// UpdateComplaintDetails touches only name and place; id and number stay as they are.
func (s *Service) UpdateComplaintDetails(ctx context.Context, id int64, name, place string) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":  name,
			"place": place,
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to update complaint %d: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteComplaint(ctx context.Context, id int64) error {
	result := s.DB.WithContext(ctx).Delete(&models.Complaint{}, id)
	if result.Error != nil {
		log.Printf("ERROR: Failed to delete complaint %d: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
