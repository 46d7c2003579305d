package models

import "time"

type AzkarCategory string

const (
	AzkarMorning  AzkarCategory = "MORNING"
	AzkarEvening  AzkarCategory = "EVENING"
	AzkarSleep    AzkarCategory = "SLEEP"
	AzkarPrayer   AzkarCategory = "AFTER_PRAYER"
	AzkarGeneral  AzkarCategory = "GENERAL"
)

// AzkarGroup is a curated collection shown as one card in the client.
type AzkarGroup struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	NameAr      string        `gorm:"not null" json:"name_ar"`
	Description string        `json:"description,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Color       string        `gorm:"size:7" json:"color,omitempty"`
	Category    AzkarCategory `gorm:"not null;index" json:"category"`
	Order       int           `gorm:"default:0" json:"order"`
	Azkar       []Azkar       `gorm:"foreignKey:GroupID" json:"azkar,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// Azkar is a single recitation template with its own completion reward.
// ArabicText is NFC-normalized on creation.
type Azkar struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	GroupID         string    `gorm:"index;not null" json:"group_id"`
	Title           string    `gorm:"not null" json:"title"`
	TitleAr         string    `gorm:"not null" json:"title_ar"`
	ArabicText      string    `gorm:"type:text;not null" json:"arabic_text"`
	Translation     string    `gorm:"type:text" json:"translation"`
	Transliteration string    `gorm:"type:text" json:"transliteration,omitempty"`
	TargetCount     int       `gorm:"default:1" json:"target_count"`
	XpReward        int64     `gorm:"default:10" json:"xp_reward"`
	CoinsReward     int64     `gorm:"default:5" json:"coins_reward"`
	Order           int       `gorm:"default:0" json:"order"`
	Reference       string    `json:"reference,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}
