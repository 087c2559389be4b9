package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProposalStatusPending  = "pending"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
)

// Category is a node of the catalog taxonomy. Root categories carry a
// nil ParentID. The tree must stay acyclic; writers go through
// repositories.CategoryRepositoryImpl which rejects cyclic parenting.
type Category struct {
	ID       string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Title    string    `gorm:"size:70;not null;index" json:"title"`
	ParentID *string   `gorm:"size:36;index" json:"parent_id"`
	Parent   *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`

	Subcategories []Category `gorm:"foreignKey:ParentID" json:"subcategories,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// FullTitle joins the parent chain, root first: "Дім / Прибирання".
// Relies on Parent being preloaded as deep as needed.
func (c *Category) FullTitle() string {
	title := c.Title
	for parent := c.Parent; parent != nil; parent = parent.Parent {
		title = parent.Title + " / " + title
	}
	return title
}

// CategoryProposal is a user-submitted category awaiting moderation.
// Status changes only pending -> approved/rejected, moderator-driven.
type CategoryProposal struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Title       string    `gorm:"size:70;not null" json:"title"`
	ParentID    *string   `gorm:"size:36;index" json:"parent_id"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      string    `gorm:"size:36;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Status      string    `gorm:"size:20;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (p *CategoryProposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
