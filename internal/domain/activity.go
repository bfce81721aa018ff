package domain

import "time"

// ActivityLog records one action taken in the system.
type ActivityLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type,omitempty"`
	EntityID    int64     `json:"entity_id,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key returns the cache identity of the log entry.
func (a ActivityLog) Key() ID {
	return IntID(a.ID)
}

// ActivityStatistics summarises recent activity.
type ActivityStatistics struct {
	Total       int            `json:"total"`
	Today       int            `json:"today"`
	ActiveUsers int            `json:"active_users"`
	ByAction    map[string]int `json:"by_action,omitempty"`
}
