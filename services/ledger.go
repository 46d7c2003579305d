package services

import (
	"errors"
	"math"

	"deen-quest-system/models"
	"deen-quest-system/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LevelForXP derives level from total xp: floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// XPForLevel is the total xp at which a level begins.
func XPForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	n := int64(level - 1)
	return n * n * 100
}

// XPProgress breaks the current xp down against the surrounding thresholds.
type XPProgress struct {
	CurrentLevel int     `json:"current_level"`
	XpForCurrent int64   `json:"xp_for_current"`
	XpForNext    int64   `json:"xp_for_next"`
	Progress     float64 `json:"progress"` // 0..100
}

func ProgressForXP(xp int64) XPProgress {
	level := LevelForXP(xp)
	cur := XPForLevel(level)
	next := XPForLevel(level + 1)
	pct := float64(xp-cur) / float64(next-cur) * 100
	return XPProgress{
		CurrentLevel: level,
		XpForCurrent: cur,
		XpForNext:    next,
		Progress:     math.Min(100, math.Max(0, pct)),
	}
}

// CreditResult reports the balance after a credit and whether a level boundary
// was crossed.
type CreditResult struct {
	UserID    string `json:"user_id"`
	NewXp     int64  `json:"new_xp"`
	NewCoins  int64  `json:"new_coins"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	LeveledUp bool   `json:"leveled_up"`
}

// LedgerService owns user balances. Nothing else in the system writes
// xp/coins/level.
type LedgerService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewLedgerService(db *gorm.DB, notifier Notifier) *LedgerService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &LedgerService{DB: db, Notifier: notifier}
}

// Credit adds xp/coins atomically and emits a level-up event after commit.
func (s *LedgerService) Credit(userID string, xpDelta, coinsDelta int64) (*CreditResult, error) {
	var res *CreditResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		res, txErr = s.CreditTx(tx, userID, xpDelta, coinsDelta)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.EmitLevelUp(res)
	return res, nil
}

// CreditTx is Credit inside a caller-owned transaction, for operations that
// must commit the payout together with their own writes (challenge
// completion, action recording). The caller emits events after its commit.
func (s *LedgerService) CreditTx(tx *gorm.DB, userID string, xpDelta, coinsDelta int64) (*CreditResult, error) {
	if xpDelta < 0 || coinsDelta < 0 {
		return nil, ErrInvalidState
	}

	// Row lock: concurrent credits to the same user serialize here instead of
	// overwriting each other under READ COMMITTED.
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateDBErr(err)
	}

	oldLevel := user.Level
	user.Xp += xpDelta
	user.Coins += coinsDelta
	user.Level = LevelForXP(user.Xp)
	if user.Level > oldLevel {
		now := utils.Now()
		user.LastLevelUpAt = &now
	}

	if err := tx.Save(&user).Error; err != nil {
		return nil, translateDBErr(err)
	}

	return &CreditResult{
		UserID:    userID,
		NewXp:     user.Xp,
		NewCoins:  user.Coins,
		OldLevel:  oldLevel,
		NewLevel:  user.Level,
		LeveledUp: user.Level > oldLevel,
	}, nil
}

// EmitLevelUp publishes the level-up event for a committed credit, if any.
// One event per credit even when several thresholds were crossed.
func (s *LedgerService) EmitLevelUp(res *CreditResult) {
	if res == nil || !res.LeveledUp {
		return
	}
	log.Infof("🎉 Level up: user %s %d → %d", res.UserID, res.OldLevel, res.NewLevel)
	s.Notifier.OnLevelUp(LevelUpEvent{
		UserID:   res.UserID,
		OldLevel: res.OldLevel,
		NewLevel: res.NewLevel,
	})
}

// Debit removes coins, never below zero. The balance guard lives in the WHERE
// clause so concurrent debits cannot double-spend.
func (s *LedgerService) Debit(userID string, coinsDelta int64) (int64, error) {
	var newCoins int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.DebitTx(tx, userID, coinsDelta, &newCoins)
	})
	if err != nil {
		return 0, err
	}
	return newCoins, nil
}

// DebitTx is Debit inside a caller-owned transaction (purchases).
func (s *LedgerService) DebitTx(tx *gorm.DB, userID string, coinsDelta int64, newCoins *int64) error {
	if coinsDelta < 0 {
		return ErrInvalidState
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND coins >= ?", userID, coinsDelta).
		Update("coins", gorm.Expr("coins - ?", coinsDelta))
	if result.Error != nil {
		return translateDBErr(result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the user is unknown or the balance is short.
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return translateDBErr(err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientCoins
	}

	if newCoins != nil {
		var user models.User
		if err := tx.Select("coins").Where("id = ?", userID).First(&user).Error; err != nil {
			return translateDBErr(err)
		}
		*newCoins = user.Coins
	}
	return nil
}

// Snapshot is the read-only balance view.
func (s *LedgerService) Snapshot(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return &user, nil
}
