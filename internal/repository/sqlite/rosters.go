package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// dateLayout is the storage format of roster period bounds.
const dateLayout = "2006-01-02"

// ListRosters returns roster periods, latest first, with their shift counts.
func (b *Backend) ListRosters(ctx context.Context) ([]domain.RosterPeriod, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.start_date, r.end_date, r.status,
		       (SELECT COUNT(*) FROM shifts s WHERE s.roster_period_id = r.id)
		FROM roster_periods r
		ORDER BY r.start_date DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite backend: list rosters: %w", err)
	}
	defer rows.Close()

	periods := []domain.RosterPeriod{}
	for rows.Next() {
		var (
			p                  domain.RosterPeriod
			start, end, status string
		)
		if err := rows.Scan(&p.ID, &p.Name, &start, &end, &status, &p.ShiftCount); err != nil {
			return nil, fmt.Errorf("sqlite backend: scan roster: %w", err)
		}
		if p.StartDate, err = time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("sqlite backend: roster %d start date: %w", p.ID, err)
		}
		if p.EndDate, err = time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("sqlite backend: roster %d end date: %w", p.ID, err)
		}
		p.Status = domain.RosterStatus(status)
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite backend: list rosters: %w", err)
	}
	return periods, nil
}

// ListRecentActivities returns the newest activity log entries.
func (b *Backend) ListRecentActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, description, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite backend: list activities: %w", err)
	}
	defer rows.Close()

	logs := []domain.ActivityLog{}
	for rows.Next() {
		var (
			a         domain.ActivityLog
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite backend: scan activity: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite backend: list activities: %w", err)
	}
	return logs, nil
}

// ActivityStatistics summarises the activity log. Today is the current UTC
// day; ActiveUsers counts distinct users with activity today.
func (b *Backend) ActivityStatistics(ctx context.Context) (domain.ActivityStatistics, error) {
	now := b.now().UTC()
	dayStart := formatTime(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))

	stats := domain.ActivityStatistics{ByAction: map[string]int{}}
	err := b.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT CASE WHEN created_at >= ? THEN user_id END)
		FROM activity_logs`, dayStart, dayStart).Scan(&stats.Total, &stats.Today, &stats.ActiveUsers)
	if err != nil {
		return domain.ActivityStatistics{}, fmt.Errorf("sqlite backend: activity totals: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM activity_logs GROUP BY action`)
	if err != nil {
		return domain.ActivityStatistics{}, fmt.Errorf("sqlite backend: activity by action: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			action string
			count  int
		)
		if err := rows.Scan(&action, &count); err != nil {
			return domain.ActivityStatistics{}, fmt.Errorf("sqlite backend: scan activity count: %w", err)
		}
		stats.ByAction[action] = count
	}
	if err := rows.Err(); err != nil {
		return domain.ActivityStatistics{}, fmt.Errorf("sqlite backend: activity by action: %w", err)
	}
	return stats, nil
}
