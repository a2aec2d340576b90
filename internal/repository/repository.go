package repository

import (
	"coachfit/coaching-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
	SetCurrentPlan(ctx context.Context, clientID, planID primitive.ObjectID, startDate time.Time) error
	SetLastCheckInDate(ctx context.Context, clientID primitive.ObjectID, date time.Time) error
	SetAdherenceRate(ctx context.Context, clientID primitive.ObjectID, rate float64) error
}

// PlanRepository defines the interface for interacting with workout plan data.
// Templates and instances share one collection, distinguished by isTemplate.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetTemplatesByCoachID(ctx context.Context, coachID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutPlan, error)
	SetArchived(ctx context.Context, planID, coachID primitive.ObjectID, archived bool) error
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
}

// CheckInRepository defines the interface for interacting with check-in data.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CheckIn, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error)
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckIn, error)
	Update(ctx context.Context, checkIn *domain.CheckIn) error
}

// CheckInScheduleRepository defines the interface for recurring check-in
// schedules. One schedule per client, hence the upsert.
type CheckInScheduleRepository interface {
	Upsert(ctx context.Context, schedule *domain.CheckInSchedule) error
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckInSchedule, error)
	GetActive(ctx context.Context) ([]domain.CheckInSchedule, error)
	SetStatus(ctx context.Context, clientID primitive.ObjectID, status domain.ScheduleStatus) error
}

// MessageRepository defines the interface for coach/client chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	GetConversation(ctx context.Context, userA, userB primitive.ObjectID) ([]domain.Message, error)
	MarkRead(ctx context.Context, recipientID, senderID primitive.ObjectID) error
}

// CompletionRepository defines the interface for workout completion records.
type CompletionRepository interface {
	Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error)
	GetByClientAndPlan(ctx context.Context, clientID, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
}

// MeasurementRepository defines the interface for client measurements.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error)
	SetPhotoObjectKey(ctx context.Context, measurementID, clientID primitive.ObjectID, objectKey string) error
}
