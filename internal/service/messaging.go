package service

import (
	"context"
	"strings"

	"github.com/iliyamo/farm-market/internal/metrics"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/views"
)

// MessagingService stores chat messages between two users.
type MessagingService struct {
	messages *repository.MessageRepo
	users    *repository.UserRepo
	now      Clock
	newID    IDFunc
}

func NewMessagingService(messages *repository.MessageRepo, users *repository.UserRepo) *MessagingService {
	return &MessagingService{messages: messages, users: users, now: systemClock, newID: newUUID}
}

// Send appends a message from sender to toID. Blank content is dropped and
// reported as sent=false.
func (s *MessagingService) Send(ctx context.Context, sender model.User, toID, content string) (model.Message, bool, error) {
	if strings.TrimSpace(content) == "" {
		return model.Message{}, false, nil
	}
	m := model.Message{
		ID:          s.newID(),
		ChatID:      model.ChatID(sender.ID, toID),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: toID,
		Content:     strings.TrimSpace(content),
		Timestamp:   s.now(),
		IsRead:      false,
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return model.Message{}, false, err
	}
	metrics.MessagesSent.Inc()
	return m, true, nil
}

// Conversation returns the messages of chatID in the order they were stored.
func (s *MessagingService) Conversation(ctx context.Context, chatID string) ([]model.Message, error) {
	return s.messages.ListByChat(ctx, chatID)
}

// Conversations summarizes every chat userID took part in.
func (s *MessagingService) Conversations(ctx context.Context, userID string) ([]views.ConversationSummary, error) {
	msgs, err := s.messages.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.Conversations(userID, msgs, users), nil
}
