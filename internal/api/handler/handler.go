package handler

import (
	"context"

	"denuncias/backend/internal/complaint"
	"denuncias/backend/internal/localization"
	"denuncias/backend/internal/models"
)

// ComplaintRegister is what the HTTP layer needs from the complaint service.
type ComplaintRegister interface {
	Create(ctx context.Context, name, place string) (complaint.Result, error)
	List(ctx context.Context) ([]models.Complaint, error)
	Get(ctx context.Context, id int64) (*models.Complaint, error)
	Update(ctx context.Context, id int64, name, place string) (*models.Complaint, error)
	Delete(ctx context.Context, id int64) error
}

// Handler holds the complaint register the routes delegate to.
type Handler struct {
	Complaints ComplaintRegister
	Messages   *localization.Localizer
}

func NewHandler(complaints ComplaintRegister, messages *localization.Localizer) *Handler {
	return &Handler{Complaints: complaints, Messages: messages}
}
