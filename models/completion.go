package models

import "time"

// PrayerName enumerates the five canonical daily prayers.
type PrayerName string

const (
	PrayerFajr    PrayerName = "FAJR"
	PrayerDhuhr   PrayerName = "DHUHR"
	PrayerAsr     PrayerName = "ASR"
	PrayerMaghrib PrayerName = "MAGHRIB"
	PrayerIsha    PrayerName = "ISHA"
)

// CanonicalPrayers in day order.
var CanonicalPrayers = []PrayerName{PrayerFajr, PrayerDhuhr, PrayerAsr, PrayerMaghrib, PrayerIsha}

func IsValidPrayerName(p PrayerName) bool {
	for _, c := range CanonicalPrayers {
		if c == p {
			return true
		}
	}
	return false
}

type FastingType string

const (
	FastingVoluntary FastingType = "VOLUNTARY"
	FastingRamadan   FastingType = "RAMADAN"
	FastingMakeup    FastingType = "MAKEUP"
)

// PrayerCompletion is one row per user per day per prayer name.
// The composite unique index is the source of truth for "already prayed today";
// concurrent submissions race on the constraint, not on a read-check.
type PrayerCompletion struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string     `gorm:"not null;index;uniqueIndex:idx_prayer_user_day" json:"user_id"`
	PrayerName  PrayerName `gorm:"not null;uniqueIndex:idx_prayer_user_day" json:"prayer_name"`
	Day         string     `gorm:"size:10;not null;index;uniqueIndex:idx_prayer_user_day" json:"day"`
	OnTime      bool       `gorm:"default:false" json:"on_time"`
	XpEarned    int64      `json:"xp_earned"`
	CoinsEarned int64      `json:"coins_earned"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// AzkarCompletion is one row per user per day per azkar template.
type AzkarCompletion struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"not null;index;uniqueIndex:idx_azkar_user_day" json:"user_id"`
	AzkarID     string    `gorm:"not null;uniqueIndex:idx_azkar_user_day" json:"azkar_id"`
	Day         string    `gorm:"size:10;not null;index;uniqueIndex:idx_azkar_user_day" json:"day"`
	XpEarned    int64     `json:"xp_earned"`
	CoinsEarned int64     `json:"coins_earned"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FastingCompletion is one row per user per day.
type FastingCompletion struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string      `gorm:"not null;index;uniqueIndex:idx_fasting_user_day" json:"user_id"`
	Day         string      `gorm:"size:10;not null;index;uniqueIndex:idx_fasting_user_day" json:"day"`
	FastingType FastingType `gorm:"not null;default:'VOLUNTARY'" json:"fasting_type"`
	XpEarned    int64       `json:"xp_earned"`
	CoinsEarned int64       `json:"coins_earned"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}
