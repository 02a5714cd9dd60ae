package model

import (
	"time"
)

// JWTTokenBlacklist stores revoked JWT tokens until their natural expiry.
// Rows are hard-deleted by the periodic sweep; the unique index on Token
// makes repeated revocation of the same token a no-op.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;type:text" json:"token"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"` // logout, security, manual_revoke
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
