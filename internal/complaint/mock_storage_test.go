package complaint_test

import (
	"context"
	"time"

	"denuncias/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) InsertComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) SetComplaintNumber(ctx context.Context, id, number int64) error {
	args := m.Called(ctx, id, number)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, id int64) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintDetails(ctx context.Context, id int64, name, place string) error {
	args := m.Called(ctx, id, name, place)
	return args.Error(0)
}

func (m *MockStorage) DeleteComplaint(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// sequenceClock returns the given instants in order and then keeps
// returning the last one.
func sequenceClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[min(i, len(times)-1)]
		i++
		return t
	}
}

func withNumber(n int64) interface{} {
	return mock.MatchedBy(func(c *models.Complaint) bool { return c.Number == n })
}

func assignID(id int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*models.Complaint).ID = id
	}
}
