package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a sellable unit of work listed by a provider.
type Service struct {
	ID         string   `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProviderID string   `gorm:"size:36;not null;index" json:"provider_id"`
	Provider   User     `gorm:"foreignKey:ProviderID" json:"provider"`
	Title      string   `gorm:"size:70;not null;index" json:"title"`
	CategoryID string   `gorm:"size:36;not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	Image        string `gorm:"size:255" json:"image"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"`
	// Price in hryvnias, snapshotted onto orders at creation time.
	Price        int    `gorm:"not null" json:"price"`
	TermDays     int    `gorm:"not null" json:"term_days"`
	Options      string `gorm:"type:text" json:"options"`
	PortfolioURL string `gorm:"size:255" json:"portfolio_url"`

	// Inactive services are excluded from the catalog and from
	// recommendations without being deleted.
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (s *Service) Ref() EntityRef {
	return EntityRef{Kind: EntityKindService, ID: s.ID}
}
