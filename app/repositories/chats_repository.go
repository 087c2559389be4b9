package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type ChatRepository interface {
	FindByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error)
	GetOrCreateByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error)

	// AppendMessage inserts the message and bumps the chat's
	// latest-message pointer inside one transaction, so a reader never
	// sees a chat whose pointer lags its newest message.
	AppendMessage(ctx context.Context, chatID string, message *models.Message) error
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)
	MarkRead(ctx context.Context, chatID, recipientID string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db}
}

func (r *chatRepository) FindByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("LatestMessage").
		First(&chat, "topic_kind = ? AND topic_id = ?", topic.Kind, topic.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) GetOrCreateByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error) {
	chat, err := r.FindByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	chat = &models.Chat{Topic: topic}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, chatID string, message *models.Message) error {
	message.ChatID = chatID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", chatID).
			Update("latest_message_id", message.ID).Error
	})
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, chatID, recipientID string) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("chat_id = ? AND recipient_id = ? AND is_read = ?", chatID, recipientID, false).
		Update("is_read", true).Error
}
