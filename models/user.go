package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local mirror of a profile-service account plus the progression
// state owned by this service. Xp, Coins and Level are mutated only through
// the ledger service, never written directly by handlers.
type User struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // profile service UUID
	Email          string  `json:"email,omitempty"`
	DisplayName    string  `json:"display_name"`
	AvatarURL      *string `json:"avatar_url,omitempty"`

	// Progression. Level is always floor(sqrt(xp/100))+1; kept denormalized for reads.
	Xp    int64 `json:"xp" gorm:"default:0"`
	Coins int64 `json:"coins" gorm:"default:0"`
	Level int   `json:"level" gorm:"default:1"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
