package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat groups messages under a topic entity (an order today). One chat
// per topic, created lazily on the first message.
type Chat struct {
	ID    string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Topic EntityRef `gorm:"embedded;embeddedPrefix:topic_" json:"topic"`

	// Denormalized pointer to the newest message; updated in the same
	// transaction that inserts it.
	LatestMessageID *string  `gorm:"size:36" json:"latest_message_id"`
	LatestMessage   *Message `gorm:"foreignKey:LatestMessageID" json:"latest_message,omitempty"`

	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

type Message struct {
	ID          string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ChatID      string `gorm:"size:36;not null;index" json:"chat_id"`
	SenderID    string `gorm:"size:36;not null;index" json:"sender_id"`
	Sender      User   `gorm:"foreignKey:SenderID" json:"sender"`
	RecipientID string `gorm:"size:36;not null;index" json:"recipient_id"`
	Recipient   User   `gorm:"foreignKey:RecipientID" json:"recipient"`
	Text        string `gorm:"type:text;not null" json:"text"`
	File        string `gorm:"size:255" json:"file"`
	IsRead      bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
