package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
)

var ErrSelfMessage = errors.New("sender and recipient must be different users")

type ChatService struct {
	chatRepo repositories.ChatRepository
}

func NewChatService(chatRepo repositories.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

// PostMessage sends a message in the chat attached to topic, creating
// the chat lazily. The message insert and the latest-message pointer
// update commit together, so the pointer never lags the newest message.
func (s *ChatService) PostMessage(ctx context.Context, senderID, recipientID string, topic models.EntityRef, text, file string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	if topic.IsZero() {
		return nil, errors.New("message topic is required")
	}

	chat, err := s.chatRepo.GetOrCreateByTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat for topic %s/%s: %w", topic.Kind, topic.ID, err)
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		File:        file,
	}
	if err := s.chatRepo.AppendMessage(ctx, chat.ID, message); err != nil {
		return nil, fmt.Errorf("failed to append message to chat %s: %w", chat.ID, err)
	}
	return message, nil
}

// MessagesForTopic lists the topic's messages, oldest first. An absent
// chat reads as an empty thread.
func (s *ChatService) MessagesForTopic(ctx context.Context, topic models.EntityRef) ([]models.Message, error) {
	chat, err := s.chatRepo.FindByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, nil
	}
	return s.chatRepo.ListMessages(ctx, chat.ID)
}

// MarkTopicRead flags the recipient's unread messages in the topic's
// chat as read.
func (s *ChatService) MarkTopicRead(ctx context.Context, topic models.EntityRef, recipientID string) error {
	chat, err := s.chatRepo.FindByTopic(ctx, topic)
	if err != nil || chat == nil {
		return err
	}
	return s.chatRepo.MarkRead(ctx, chat.ID, recipientID)
}
