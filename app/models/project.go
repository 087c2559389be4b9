package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OfferStatusCreated   = "created"
	OfferStatusDeclined  = "declined"
	OfferStatusCancelled = "cancelled"
	OfferStatusAccepted  = "accepted"
)

// Project is a buyer-posted work request that providers bid on with offers.
type Project struct {
	ID         string   `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CustomerID string   `gorm:"size:36;not null;index" json:"customer_id"`
	Customer   User     `gorm:"foreignKey:CustomerID" json:"customer"`
	Title      string   `gorm:"size:70;not null" json:"title"`
	CategoryID string   `gorm:"size:36;not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	Description string `gorm:"type:text;not null" json:"description"`
	// Price is the budget ceiling in hryvnias. MaxPrice only applies
	// when IsHigherPriceAllowed is set.
	Price                int  `gorm:"not null" json:"price"`
	IsHigherPriceAllowed bool `gorm:"default:false" json:"is_higher_price_allowed"`
	MaxPrice             *int `json:"max_price"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Bids are private to the customer; see OfferListGet.
	Offers []Offer `gorm:"foreignKey:ProjectID" json:"-"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p *Project) Ref() EntityRef {
	return EntityRef{Kind: EntityKindProject, ID: p.ID}
}

// Offer is a candidate's bid on a project. Accepting one offer declines
// the project's remaining created offers; a project keeps at most one
// accepted offer.
type Offer struct {
	ID          string  `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProjectID   string  `gorm:"size:36;not null;index" json:"project_id"`
	Project     Project `gorm:"foreignKey:ProjectID" json:"-"`
	CandidateID string  `gorm:"size:36;not null;index" json:"candidate_id"`
	Candidate   User    `gorm:"foreignKey:CandidateID" json:"candidate"`
	Comment     string  `gorm:"type:text" json:"comment"`
	Status      string  `gorm:"size:32;default:'created';index" json:"status"`

	// Mirrors Status for list filtering: true for declined/cancelled.
	IsCancelled bool `gorm:"default:false" json:"is_cancelled"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
