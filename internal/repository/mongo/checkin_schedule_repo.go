package mongo

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInScheduleCollectionName = "checkin_schedules"

// mongoCheckInScheduleRepository implements repository.CheckInScheduleRepository.
type mongoCheckInScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInScheduleRepository creates a new CheckInSchedule repository.
func NewMongoCheckInScheduleRepository(db *mongo.Database) repository.CheckInScheduleRepository {
	return &mongoCheckInScheduleRepository{
		collection: db.Collection(checkInScheduleCollectionName),
	}
}

// Upsert creates or replaces the client's schedule; the clientId unique index
// keeps it one per client.
func (r *mongoCheckInScheduleRepository) Upsert(ctx context.Context, schedule *domain.CheckInSchedule) error {
	if schedule.ClientID == primitive.NilObjectID || schedule.CoachID == primitive.NilObjectID {
		return errors.New("schedule requires clientId and coachId")
	}
	now := time.Now().UTC()

	filter := bson.M{"clientId": schedule.ClientID}
	update := bson.M{
		"$set": bson.M{
			"coachId":    schedule.CoachID,
			"status":     schedule.Status,
			"cadence":    schedule.Cadence,
			"anchorDate": schedule.AnchorDate.UTC(),
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByClientID retrieves the client's schedule.
func (r *mongoCheckInScheduleRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckInSchedule, error) {
	var schedule domain.CheckInSchedule
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// GetActive retrieves every ACTIVE schedule, for the due-check-in sweep.
func (r *mongoCheckInScheduleRepository) GetActive(ctx context.Context) ([]domain.CheckInSchedule, error) {
	var schedules []domain.CheckInSchedule
	filter := bson.M{"status": domain.ScheduleActive}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return schedules, nil
}

// SetStatus pauses, resumes, or retires a client's schedule.
func (r *mongoCheckInScheduleRepository) SetStatus(ctx context.Context, clientID primitive.ObjectID, status domain.ScheduleStatus) error {
	filter := bson.M{"clientId": clientID}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCheckInScheduleIndexes creates necessary indexes. Call during startup.
func EnsureCheckInScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
