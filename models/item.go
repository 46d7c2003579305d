package models

import "time"

type ItemType string

const (
	ItemHair      ItemType = "HAIR"
	ItemCloth     ItemType = "CLOTH"
	ItemAccessory ItemType = "ACCESSORY"
	ItemShoes     ItemType = "SHOES"
)

type ItemRarity string

const (
	RarityCommon    ItemRarity = "COMMON"
	RarityRare      ItemRarity = "RARE"
	RarityEpic      ItemRarity = "EPIC"
	RarityLegendary ItemRarity = "LEGENDARY"
)

// Item is a cosmetic shop entry. ImageURL points at R2/CDN.
type Item struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Type       ItemType   `gorm:"not null;index" json:"type"`
	PriceCoins int64      `gorm:"not null" json:"price_coins"`
	PriceXp    int64      `gorm:"default:0" json:"price_xp"` // minimum xp required, not spent
	Rarity     ItemRarity `gorm:"not null;default:'COMMON'" json:"rarity"`
	ImageURL   string     `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// UserItem is an owned inventory entry; one per (user, item).
type UserItem struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;index;uniqueIndex:idx_inventory_user_item" json:"user_id"`
	ItemID    string    `gorm:"not null;uniqueIndex:idx_inventory_user_item" json:"item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Equipped  bool      `gorm:"default:false;index" json:"equipped"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PurchaseStatus string

const (
	PurchaseSuccess PurchaseStatus = "SUCCESS"
	PurchaseFailed  PurchaseStatus = "FAILED"
)

// Purchase is the audit record written in the same transaction as the debit
// and the inventory grant.
type Purchase struct {
	ID         string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string         `gorm:"not null;index" json:"user_id"`
	ItemID     string         `gorm:"not null;index" json:"item_id"`
	PriceCoins int64          `gorm:"not null" json:"price_coins"`
	Status     PurchaseStatus `gorm:"not null;default:'SUCCESS'" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
