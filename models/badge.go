package models

import "time"

// Badge is static config, seeded at startup and extendable by admins.
type Badge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	IconURL     string    `gorm:"type:text" json:"icon_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge is an awarded instance. The (user, badge) unique index is what
// makes event-driven awarding idempotent under at-least-once delivery.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;index;uniqueIndex:idx_badge_user" json:"user_id"`
	BadgeID   string    `gorm:"not null;uniqueIndex:idx_badge_user" json:"badge_id"`
	Badge     *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// LevelMilestones are the levels that carry a "Level N Master" badge.
var LevelMilestones = []int{5, 10, 25, 50, 100}

// DefaultBadges seeded on startup (FirstOrCreate, safe to rerun).
var DefaultBadges = []Badge{
	{Name: "Welcome Aboard!", Description: "Joined the platform"},
	{Name: "Level 5 Master", Description: "Reached level 5"},
	{Name: "Level 10 Master", Description: "Reached level 10"},
	{Name: "Level 25 Master", Description: "Reached level 25"},
	{Name: "Level 50 Master", Description: "Reached level 50"},
	{Name: "Level 100 Master", Description: "Reached level 100"},
}
