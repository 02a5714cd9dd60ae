package auth

import (
	"context"
	"time"

	"github.com/sahilchouksey/everyday-heroes/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevocationStore persists revoked tokens until their natural expiry.
// The GORM-backed BlacklistService implements it in production and
// MemoryBlacklist stands in for tests.
type RevocationStore interface {
	// Record revokes a token. Idempotent: recording the same token
	// twice leaves a single entry.
	Record(ctx context.Context, token string, userID uint, expiresAt time.Time, reason string) error
	// IsRevoked answers a point lookup by exact token value.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// SweepExpired deletes entries whose expiry has passed and returns
	// how many were removed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// BlacklistService handles JWT token revocation backed by Postgres
type BlacklistService struct {
	db *gorm.DB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// Record adds a token to the blacklist. The unique index on token plus
// ON CONFLICT DO NOTHING dedupes repeated logout calls for the same
// token.
func (s *BlacklistService) Record(ctx context.Context, token string, userID uint, expiresAt time.Time, reason string) error {
	entry := model.JWTTokenBlacklist{
		Token:     token,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&entry).Error
}

// IsRevoked checks if a token is in the blacklist. Indexed point
// lookup; this runs on every authenticated request.
func (s *BlacklistService) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count).
		Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// SweepExpired removes entries whose expiry timestamp has passed. An
// entry never outlives its source token, so this bounds the blacklist
// to the lifetime of the longest-lived token.
func (s *BlacklistService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}

// Count returns the number of live blacklisted tokens
func (s *BlacklistService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("expires_at > ?", time.Now()).
		Count(&count).
		Error
	return count, err
}
