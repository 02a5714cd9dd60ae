package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/everyday-heroes/model"
)

// SweepExpiredTokens deletes blacklist entries whose expiry timestamp
// has passed. Runs hourly.
func (m *CronManager) SweepExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "sweep_expired_tokens"

	deleted, err := m.blacklist.SweepExpired(ctx, time.Now())
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to sweep blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", deleted))
}

// CleanupCronLogs prunes cron job logs older than 30 days. Runs daily.
func (m *CronManager) CleanupCronLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to prune cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Pruned %d cron log rows", result.RowsAffected))
}
