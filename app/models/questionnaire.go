package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Questionnaire is the detailed preference profile used by the
// recommendation matcher. One per user, created lazily.
type Questionnaire struct {
	ID     string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID string `gorm:"size:36;not null;uniqueIndex" json:"user_id"`

	HouseholdAdults   int  `gorm:"default:1" json:"household_adults"`
	HouseholdChildren int  `gorm:"default:0" json:"household_children"`
	HasInfants        bool `gorm:"default:false" json:"has_infants"`

	PetsDogs  bool `gorm:"default:false" json:"pets_dogs"`
	PetsCats  bool `gorm:"default:false" json:"pets_cats"`
	PetsOther bool `gorm:"default:false" json:"pets_other"`

	DwellingType  string `gorm:"size:20;default:'apartment'" json:"dwelling_type"`
	DwellingRooms int    `gorm:"default:1" json:"dwelling_rooms"`
	DwellingArea  int    `gorm:"default:40" json:"dwelling_area"`
	HasGarden     bool   `gorm:"default:false" json:"has_garden"`

	CarOwner  bool `gorm:"default:false" json:"car_owner"`
	BikeOwner bool `gorm:"default:false" json:"bike_owner"`

	AvailabilityWeekdays bool `gorm:"default:true" json:"availability_weekdays"`
	AvailabilityWeekends bool `gorm:"default:false" json:"availability_weekends"`
	AvailabilityEvenings bool `gorm:"default:false" json:"availability_evenings"`

	BudgetMin int `gorm:"default:0" json:"budget_min"`
	BudgetMax int `gorm:"default:0" json:"budget_max"`

	LanguageUK    bool   `gorm:"default:true" json:"language_uk"`
	LanguageRU    bool   `gorm:"default:false" json:"language_ru"`
	LanguageEN    bool   `gorm:"default:false" json:"language_en"`
	LanguageOther string `gorm:"size:100" json:"language_other"`

	InterestedHome        bool `gorm:"default:false" json:"interested_home"`
	InterestedChildren    bool `gorm:"default:false" json:"interested_children"`
	InterestedPets        bool `gorm:"default:false" json:"interested_pets"`
	InterestedAuto        bool `gorm:"default:false" json:"interested_auto"`
	InterestedIT          bool `gorm:"default:false" json:"interested_it"`
	InterestedMarketing   bool `gorm:"default:false" json:"interested_marketing"`
	InterestedTranslation bool `gorm:"default:false" json:"interested_translation"`
	InterestedAdmin       bool `gorm:"default:false" json:"interested_admin"`

	PreferOnline   bool   `gorm:"default:true" json:"prefer_online"`
	PreferVerified bool   `gorm:"default:false" json:"prefer_verified"`
	Notes          string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (q *Questionnaire) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return
}
