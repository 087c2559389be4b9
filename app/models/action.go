package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verbs for the Action audit log. Free text in the column, but writers
// must use these constants.
const (
	ActionViewService   = "переглянув послугу"
	ActionViewProject   = "переглянув проєкт"
	ActionPlaceOrder    = "розмістив замовлення"
	ActionReceiveOrder  = "отримав замовлення"
	ActionCancelOrder   = "скасував замовлення"
	ActionRejectOrder   = "відхилив замовлення"
	ActionAcceptOrder   = "взяв у роботу замовлення"
	ActionSubmitOrder   = "здав на перевірку замовлення"
	ActionReturnOrder   = "повернув на доопрацювання замовлення"
	ActionCompleteOrder = "успішно виконав замовлення"
	ActionReceiveResult = "отримав результат роботи за замовленням"
	ActionPayOrder      = "оплатив замовлення"
)

// Action is an append-only audit record of something a user did to a
// target entity. Rows are never updated or deleted.
type Action struct {
	ID     string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID string    `gorm:"size:36;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"user"`
	Verb   string    `gorm:"size:64;not null" json:"verb"`
	Target EntityRef `gorm:"embedded;embeddedPrefix:target_" json:"target"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
