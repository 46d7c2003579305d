package models

import "time"

// PrayerTimesCache holds one provider response per (date, lat, lng).
// Coordinates are stored rounded to 4 decimals so nearby lookups share a row.
type PrayerTimesCache struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_times_date_loc" json:"date"`
	Latitude  string    `gorm:"size:12;not null;uniqueIndex:idx_times_date_loc" json:"latitude"`
	Longitude string    `gorm:"size:12;not null;uniqueIndex:idx_times_date_loc" json:"longitude"`
	Method    int       `gorm:"default:4" json:"method"`
	Fajr      string    `gorm:"size:5" json:"fajr"`
	Dhuhr     string    `gorm:"size:5" json:"dhuhr"`
	Asr       string    `gorm:"size:5" json:"asr"`
	Maghrib   string    `gorm:"size:5" json:"maghrib"`
	Isha      string    `gorm:"size:5" json:"isha"`
	Source    string    `gorm:"size:16;default:'provider'" json:"source"` // provider | fallback
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
