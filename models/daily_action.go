package models

import "time"

// DailyActionType is the closed set of trackable daily actions.
type DailyActionType string

const (
	ActionPrayer    DailyActionType = "PRAYER"
	ActionTasbeeh   DailyActionType = "TASBEEH"
	ActionCharity   DailyActionType = "CHARITY"
	ActionAzkar     DailyActionType = "AZKAR" // counter-style: accumulates across rows
	ActionQuranRead DailyActionType = "QURAN_READ"
	ActionDua       DailyActionType = "DUA"
	ActionFasting   DailyActionType = "FASTING"
)

// IsCounterAction reports whether the type accumulates multiple records per day.
// Every other type is one-shot: at most one record per user per day per
// (type, discriminator).
func IsCounterAction(t DailyActionType) bool {
	return t == ActionAzkar
}

// DailyAction is an accepted action submission. Immutable once created.
// DedupKey carries the storage-level uniqueness for one-shot kinds:
// user|type|discriminator|day. Counter kinds get a per-row UUID there so the
// constraint never fires and totals are summed across rows.
type DailyAction struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string          `gorm:"index;not null" json:"user_id"`
	ActionType    DailyActionType `gorm:"index;not null" json:"action_type"`
	Discriminator string          `json:"discriminator,omitempty"` // e.g. prayer name, azkar id
	Count         int             `gorm:"default:1" json:"count"`
	Day           string          `gorm:"size:10;index;not null" json:"day"` // YYYY-MM-DD in the reference calendar
	DedupKey      string          `gorm:"uniqueIndex;not null" json:"-"`
	LinkedTaskID  *string         `gorm:"index" json:"linked_task_id,omitempty"`
	XpEarned      int64           `json:"xp_earned"`
	CoinsEarned   int64           `json:"coins_earned"`
	OccurredAt    time.Time       `gorm:"index" json:"occurred_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
