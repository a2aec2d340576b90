package service

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotPaired         = errors.New("messages are only allowed between a coach and their client")
	ErrEmptyMessage      = errors.New("message body cannot be empty")
)

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID primitive.ObjectID, body string) (*domain.Message, error)
	GetConversation(ctx context.Context, userID, otherUserID primitive.ObjectID) ([]domain.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherUserID primitive.ObjectID) error
}

// messageService implements the MessageService interface.
type messageService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// NewMessageService creates a new instance of messageService.
func NewMessageService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) MessageService {
	return &messageService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

// requirePairing verifies the two users are a coach and their client, in
// either direction.
func (s *messageService) requirePairing(ctx context.Context, userID, otherUserID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipientNotFound
		}
		return err
	}
	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipientNotFound
		}
		return err
	}

	if user.IsCoach() && other.IsClient() && other.CoachID != nil && *other.CoachID == user.ID {
		return nil
	}
	if user.IsClient() && other.IsCoach() && user.CoachID != nil && *user.CoachID == other.ID {
		return nil
	}
	return ErrNotPaired
}

// Send delivers a message within a coach/client pairing.
func (s *messageService) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, body string) (*domain.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.requirePairing(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if _, err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetConversation returns both directions of the exchange, oldest first.
func (s *messageService) GetConversation(ctx context.Context, userID, otherUserID primitive.ObjectID) ([]domain.Message, error) {
	if err := s.requirePairing(ctx, userID, otherUserID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetConversation(ctx, userID, otherUserID)
}

// MarkConversationRead stamps everything the other user sent as read.
func (s *messageService) MarkConversationRead(ctx context.Context, userID, otherUserID primitive.ObjectID) error {
	if err := s.requirePairing(ctx, userID, otherUserID); err != nil {
		return err
	}
	return s.messageRepo.MarkRead(ctx, userID, otherUserID)
}
