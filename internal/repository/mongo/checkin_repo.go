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

const checkInCollectionName = "checkins"

// mongoCheckInRepository implements repository.CheckInRepository.
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new CheckIn repository.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create inserts a new check-in. The domain constructor assigns the id and
// pending status.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID || checkIn.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("check-in requires clientId and coachId")
	}
	if checkIn.ID == primitive.NilObjectID {
		checkIn.ID = primitive.NewObjectID()
	}
	if checkIn.Date.IsZero() {
		checkIn.Date = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted check-in ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single check-in.
func (r *mongoCheckInRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CheckIn, error) {
	var checkIn domain.CheckIn
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&checkIn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

// GetByClientID retrieves all check-ins for a client, newest first.
func (r *mongoCheckInRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	var checkIns []domain.CheckIn
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// GetActiveByClientID returns the client's pending or responded check-in.
// If stored data holds duplicates the newest wins, matching the domain's
// first-found semantics over date-sorted history.
func (r *mongoCheckInRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckIn, error) {
	var checkIn domain.CheckIn
	filter := bson.M{
		"clientId": clientID,
		"status":   bson.M{"$in": bson.A{domain.CheckInPending, domain.CheckInResponded}},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&checkIn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

// Update replaces the whole check-in document. Whole-document writes keep an
// interrupted transition from leaving a half-updated record.
func (r *mongoCheckInRepository) Update(ctx context.Context, checkIn *domain.CheckIn) error {
	if checkIn.ID == primitive.NilObjectID {
		return errors.New("check-in ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": checkIn.ID}, checkIn)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCheckInIndexes creates necessary indexes. Call during startup.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
