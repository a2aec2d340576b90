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

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository.
type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new Message repository.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Create inserts a new message.
func (r *mongoMessageRepository) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if message.SenderID == primitive.NilObjectID || message.RecipientID == primitive.NilObjectID || message.Body == "" {
		return primitive.NilObjectID, errors.New("message requires senderId, recipientId, and body")
	}
	message.ID = primitive.NewObjectID()
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetConversation retrieves all messages between two users in both
// directions, oldest first.
func (r *mongoMessageRepository) GetConversation(ctx context.Context, userA, userB primitive.ObjectID) ([]domain.Message, error) {
	var messages []domain.Message
	filter := bson.M{
		"$or": bson.A{
			bson.M{"senderId": userA, "recipientId": userB},
			bson.M{"senderId": userB, "recipientId": userA},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead stamps every unread message from sender to recipient.
func (r *mongoMessageRepository) MarkRead(ctx context.Context, recipientID, senderID primitive.ObjectID) error {
	filter := bson.M{
		"recipientId": recipientID,
		"senderId":    senderID,
		"readAt":      bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsureMessageIndexes creates necessary indexes. Call during startup.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "recipientId", Value: 1}, {Key: "sentAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
