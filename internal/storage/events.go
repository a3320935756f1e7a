package storage

import (
	"context"
	"encoding/json"

	"denuncias/backend/internal/models"
)

// PublishComplaintEvent publishes the event as JSON on the complaints channel.
// Without a Redis client the event is silently dropped.
func (s *Service) PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.Redis.Publish(ctx, s.Channel, string(payload)).Err()
}
