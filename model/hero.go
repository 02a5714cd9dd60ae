package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Hero represents a hero profile posted by a user
type Hero struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"-"`
	FullName  string                      `gorm:"not null" json:"full_name"`
	Story     string                      `gorm:"type:text;not null" json:"story"`
	Location  string                      `gorm:"index;not null" json:"location"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	PhotoURL  string                      `gorm:"type:text" json:"photo_url"`
	CreatedBy uint                        `gorm:"index;not null" json:"created_by"`

	// ThanksCount is computed per request, not stored
	ThanksCount int64 `gorm:"-" json:"thanks_count"`

	// Relationships
	Creator  User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Comments []Comment `gorm:"foreignKey:HeroID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Thanks   []Thank   `gorm:"foreignKey:HeroID;constraint:OnDelete:CASCADE" json:"-"`
}

// Comment represents a comment left on a hero profile
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	HeroID    uint      `gorm:"index;not null" json:"hero_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`

	// Relationships
	Hero Hero `gorm:"foreignKey:HeroID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Thank records that a user thanked a hero. The composite unique index
// enforces one thank per user per hero even under concurrent requests.
type Thank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	HeroID    uint      `gorm:"not null;uniqueIndex:idx_thanks_hero_user" json:"hero_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_thanks_hero_user" json:"user_id"`

	// Relationships
	Hero Hero `gorm:"foreignKey:HeroID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Thank
func (Thank) TableName() string {
	return "thanks"
}
