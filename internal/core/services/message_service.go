package services

import (
	"context"
	"strings"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message errors
var (
	ErrSenderMismatch  = domain.Forbidden("senderId must be the current user")
	ErrNotParticipant  = domain.Forbidden("You are not part of this conversation")
	ErrNotReceiver     = domain.Forbidden("Only the receiver may mark a message read")
	ErrMessageYourself = domain.Validation("Cannot send a message to yourself",
		domain.FieldError{Field: "receiverId", Message: "must differ from senderId"})
	ErrReceiverNotFound = domain.NotFound("Receiver not found")
)

// MessageService relays direct messages between users
type MessageService struct {
	store *repositories.Store
	log   *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(store *repositories.Store, log *zap.Logger) *MessageService {
	return &MessageService{store: store, log: log}
}

// SendInput represents a new message
type SendInput struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	JobID      *uuid.UUID
	Content    string
}

// UnreadCount is the number of unread messages addressed to the caller
type UnreadCount struct {
	Count int64 `json:"count"`
}

// Send stores an unread message from the caller
func (s *MessageService) Send(ctx context.Context, principal domain.Principal, input *SendInput) (*models.Message, error) {
	if !principal.Is(input.SenderID) {
		return nil, ErrSenderMismatch
	}
	if input.SenderID == input.ReceiverID {
		return nil, ErrMessageYourself
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.Validation("Message content is required",
			domain.FieldError{Field: "content", Message: "must not be blank"})
	}

	if _, err := s.store.Users.GetByID(ctx, input.ReceiverID); err != nil {
		return nil, notFoundOr(err, ErrReceiverNotFound, "get receiver")
	}
	if input.JobID != nil {
		if _, err := s.store.Jobs.GetByID(ctx, *input.JobID); err != nil {
			return nil, notFoundOr(err, ErrJobNotFound, "get job")
		}
	}

	msg := &models.Message{
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		JobID:      input.JobID,
		Content:    input.Content,
		IsRead:     false,
	}
	if err := s.store.Messages.Create(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "create message")
	}

	s.log.Debug("Message sent", zap.String("message_id", msg.ID.String()))
	return msg, nil
}

// Conversation returns every message between two users, oldest first
func (s *MessageService) Conversation(ctx context.Context, principal domain.Principal, userA, userB uuid.UUID) ([]*models.Message, error) {
	if !principal.Is(userA) && !principal.Is(userB) && !principal.IsAdmin() {
		return nil, ErrNotParticipant
	}

	msgs, err := s.store.Messages.ListConversation(ctx, userA, userB)
	if err != nil {
		return nil, errors.Wrap(err, "list conversation")
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	return msgs, nil
}

// MarkRead marks a message read. Marking it again is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, principal domain.Principal, id uuid.UUID) (*models.Message, error) {
	msg, err := s.store.Messages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrMessageNotFound, "get message")
	}
	if !principal.Is(msg.ReceiverID) {
		return nil, ErrNotReceiver
	}

	flipped, err := s.store.Messages.MarkRead(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "mark message read")
	}
	if flipped {
		msg.IsRead = true
	}
	return msg, nil
}

// UnreadCount counts the caller's unread messages
func (s *MessageService) UnreadCount(ctx context.Context, principal domain.Principal) (*UnreadCount, error) {
	n, err := s.store.Messages.CountUnread(ctx, principal.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "count unread")
	}
	return &UnreadCount{Count: n}, nil
}
