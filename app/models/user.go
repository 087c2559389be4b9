package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	HomeTypeApartment = "apartment"
	HomeTypeHouse     = "house"
	HomeTypeOther     = "other"
)

const (
	EmploymentEmployee     = "employee"
	EmploymentSelfEmployed = "self_employed"
	EmploymentStudent      = "student"
	EmploymentParent       = "parent"
	EmploymentRetired      = "retired"
	EmploymentUnemployed   = "unemployed"
)

// User rows are preloaded into most API payloads (order parties,
// service providers, offer candidates), so everything private to the
// account owner is excluded from JSON and surfaced only through the
// /me handler.
type User struct {
	ID           string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Username     string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	Email        string `gorm:"size:100;not null;uniqueIndex" json:"-"`
	Password     string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'user';not null" json:"role"`
	ProfileImage string `gorm:"size:255" json:"profile_image"`
	Speciality   string `gorm:"size:50" json:"speciality"`
	Description  string `gorm:"type:text" json:"description"`
	Skills       string `gorm:"size:512" json:"skills"`
	Country      string `gorm:"size:64" json:"country"`
	City         string `gorm:"size:64" json:"city"`
	Phone        string `gorm:"size:64" json:"-"`

	Balance decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"-"`

	// Onboarding questionnaire flags.
	HasChildren            bool   `gorm:"default:false" json:"-"`
	HasPets                bool   `gorm:"default:false" json:"-"`
	HomeType               string `gorm:"size:20" json:"-"`
	CarOwner               bool   `gorm:"default:false" json:"-"`
	EmploymentStatus       string `gorm:"size:20" json:"-"`
	PreferOnlineServices   bool   `gorm:"default:true" json:"-"`
	QuestionnaireCompleted bool   `gorm:"default:false" json:"-"`

	Questionnaire *Questionnaire `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Location() string {
	switch {
	case u.Country != "" && u.City != "":
		return u.City + ", " + u.Country
	case u.City != "":
		return u.City
	default:
		return u.Country
	}
}
