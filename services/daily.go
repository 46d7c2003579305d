package services

import (
	"fmt"
	"time"

	"deen-quest-system/models"
	"deen-quest-system/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DailyService records daily actions and the per-day completion facts
// (prayer, azkar, fasting), gating one-shot kinds to once per calendar day.
type DailyService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewDailyService(db *gorm.DB, ledger *LedgerService) *DailyService {
	return &DailyService{DB: db, Ledger: ledger}
}

// ActionResult is what recordAction returns to the caller: the created record
// plus the reward breakdown and the resulting balance.
type ActionResult struct {
	Action  *models.DailyAction `json:"action"`
	Rewards ActionReward        `json:"rewards"`
	Balance *CreditResult       `json:"balance"`
}

func dedupKey(userID string, t models.DailyActionType, discriminator, day string) string {
	return fmt.Sprintf("%s|%s|%s|%s", userID, t, discriminator, day)
}

// RecordAction gates, costs and credits one action submission. One-shot kinds
// conflict on a second submission the same day; the counter kind (AZKAR)
// accumulates rows instead.
func (s *DailyService) RecordAction(userID string, actionType models.DailyActionType, discriminator string, count int, linkedTaskID *string) (*ActionResult, error) {
	if count < 1 {
		count = 1
	}
	now := utils.Now()
	day := utils.DayKey(now)

	key := dedupKey(userID, actionType, discriminator, day)
	if models.IsCounterAction(actionType) {
		// Accumulation is expressed as multiple rows, not a running counter.
		key = uuid.NewString()
	}

	rewards := RewardForAction(actionType, count)

	action := &models.DailyAction{
		ID:            uuid.NewString(),
		UserID:        userID,
		ActionType:    actionType,
		Discriminator: discriminator,
		Count:         count,
		Day:           day,
		DedupKey:      key,
		LinkedTaskID:  linkedTaskID,
		XpEarned:      rewards.Xp,
		CoinsEarned:   rewards.Coins,
		OccurredAt:    now,
	}

	var balance *CreditResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return translateDBErr(err)
		}
		var txErr error
		balance, txErr = s.Ledger.CreditTx(tx, userID, rewards.Xp, rewards.Coins)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.Ledger.EmitLevelUp(balance)

	log.Infof("✅ Action recorded: user=%s type=%s count=%d (+%dxp +%dc)", userID, actionType, count, rewards.Xp, rewards.Coins)
	return &ActionResult{Action: action, Rewards: rewards, Balance: balance}, nil
}

// TodayTotal sums counter-action units for today for one target.
func (s *DailyService) TodayTotal(userID string, actionType models.DailyActionType, discriminator string) (int, error) {
	var total int64
	err := s.DB.Model(&models.DailyAction{}).
		Where("user_id = ? AND action_type = ? AND discriminator = ? AND day = ?",
			userID, actionType, discriminator, utils.TodayKey()).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return int(total), translateDBErr(err)
}

func (s *DailyService) GetTodayActions(userID string) ([]models.DailyAction, error) {
	var actions []models.DailyAction
	err := s.DB.Where("user_id = ? AND day = ?", userID, utils.TodayKey()).
		Order("occurred_at DESC").
		Find(&actions).Error
	return actions, translateDBErr(err)
}

func (s *DailyService) GetUserActions(userID string, days int) ([]models.DailyAction, error) {
	if days < 1 {
		days = 7
	}
	since := utils.StartOfDay(utils.Now()).AddDate(0, 0, -days)
	var actions []models.DailyAction
	err := s.DB.Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at DESC").
		Find(&actions).Error
	return actions, translateDBErr(err)
}

// GetStreak counts consecutive calendar days with at least one qualifying
// record, newest first. The run may end today or yesterday; anything older
// means the streak is broken.
func (s *DailyService) GetStreak(userID string, actionType models.DailyActionType) (int, error) {
	var days []string
	err := s.DB.Model(&models.DailyAction{}).
		Where("user_id = ? AND action_type = ?", userID, actionType).
		Distinct("day").
		Order("day DESC").
		Pluck("day", &days).Error
	if err != nil {
		return 0, translateDBErr(err)
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := utils.StartOfDay(utils.Now())
	head, err := time.ParseInLocation("2006-01-02", days[0], today.Location())
	if err != nil {
		return 0, fmt.Errorf("%w: bad day key %q", ErrStorage, days[0])
	}
	gap := int(today.Sub(utils.StartOfDay(head)).Hours() / 24)
	if gap > 1 {
		return 0, nil
	}

	streak := 1
	prev := utils.StartOfDay(head)
	for _, d := range days[1:] {
		cur, err := time.ParseInLocation("2006-01-02", d, today.Location())
		if err != nil {
			return 0, fmt.Errorf("%w: bad day key %q", ErrStorage, d)
		}
		cur = utils.StartOfDay(cur)
		if int(prev.Sub(cur).Hours()/24) != 1 {
			break
		}
		streak++
		prev = cur
	}
	return streak, nil
}

// CompletionResult pairs a created completion fact with its reward breakdown.
type CompletionResult struct {
	Rewards ActionReward  `json:"rewards"`
	Balance *CreditResult `json:"balance"`
}

// CompletePrayer records one prayer for today. The onTime flag is trusted
// caller input and only affects the bonus.
func (s *DailyService) CompletePrayer(userID string, prayerName models.PrayerName, onTime bool) (*models.PrayerCompletion, *CompletionResult, error) {
	if !models.IsValidPrayerName(prayerName) {
		return nil, nil, fmt.Errorf("%w: unknown prayer %q", ErrNotFound, prayerName)
	}

	rewards := RewardForPrayer(onTime)
	completion := &models.PrayerCompletion{
		ID:          uuid.NewString(),
		UserID:      userID,
		PrayerName:  prayerName,
		Day:         utils.TodayKey(),
		OnTime:      onTime,
		XpEarned:    rewards.Xp,
		CoinsEarned: rewards.Coins,
	}

	var balance *CreditResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completion).Error; err != nil {
			return translateDBErr(err)
		}
		var txErr error
		balance, txErr = s.Ledger.CreditTx(tx, userID, rewards.Xp, rewards.Coins)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	s.Ledger.EmitLevelUp(balance)

	log.Infof("🕌 Prayer completed: user=%s prayer=%s onTime=%t", userID, prayerName, onTime)
	return completion, &CompletionResult{Rewards: rewards, Balance: balance}, nil
}

// CompleteAzkar records one azkar completion for today, paying the azkar's own
// configured reward.
func (s *DailyService) CompleteAzkar(userID, azkarID string) (*models.AzkarCompletion, *CompletionResult, error) {
	var azkar models.Azkar
	if err := s.DB.Where("id = ?", azkarID).First(&azkar).Error; err != nil {
		return nil, nil, translateDBErr(err)
	}

	rewards := ActionReward{Xp: azkar.XpReward, Coins: azkar.CoinsReward}
	completion := &models.AzkarCompletion{
		ID:          uuid.NewString(),
		UserID:      userID,
		AzkarID:     azkarID,
		Day:         utils.TodayKey(),
		XpEarned:    rewards.Xp,
		CoinsEarned: rewards.Coins,
	}

	var balance *CreditResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completion).Error; err != nil {
			return translateDBErr(err)
		}
		var txErr error
		balance, txErr = s.Ledger.CreditTx(tx, userID, rewards.Xp, rewards.Coins)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	s.Ledger.EmitLevelUp(balance)

	return completion, &CompletionResult{Rewards: rewards, Balance: balance}, nil
}

// CompleteFasting records today's fast. The nightly submission window is
// checked before daily uniqueness, so an out-of-window duplicate still reads
// as OutOfWindow.
func (s *DailyService) CompleteFasting(userID string, fastingType models.FastingType) (*models.FastingCompletion, *CompletionResult, error) {
	if fastingType == "" {
		fastingType = models.FastingVoluntary
	}
	if !utils.InFastingWindow(utils.Now()) {
		return nil, nil, fmt.Errorf("%w: fasting can only be completed between 18:00 and 05:00", ErrOutOfWindow)
	}

	rewards := RewardForFasting(fastingType)
	completion := &models.FastingCompletion{
		ID:          uuid.NewString(),
		UserID:      userID,
		Day:         utils.TodayKey(),
		FastingType: fastingType,
		XpEarned:    rewards.Xp,
		CoinsEarned: rewards.Coins,
	}

	var balance *CreditResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completion).Error; err != nil {
			return translateDBErr(err)
		}
		var txErr error
		balance, txErr = s.Ledger.CreditTx(tx, userID, rewards.Xp, rewards.Coins)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	s.Ledger.EmitLevelUp(balance)

	log.Infof("🌙 Fasting completed: user=%s type=%s", userID, fastingType)
	return completion, &CompletionResult{Rewards: rewards, Balance: balance}, nil
}

var dailyQuotes = []string{
	"Verily, with hardship comes ease. - Quran 94:6",
	"The best among you are those who have the best manners. - Prophet Muhammad (PBUH)",
	"Do not lose hope, nor be sad. - Quran 3:139",
	"Allah does not burden a soul beyond that it can bear. - Quran 2:286",
	"The strong person is not the one who can wrestle someone else down. The strong person is the one who can control himself when he is angry. - Prophet Muhammad (PBUH)",
}

// GetQuoteOfTheDay is deterministic for one calendar day.
func (s *DailyService) GetQuoteOfTheDay() (string, string) {
	now := utils.Now()
	return dailyQuotes[now.YearDay()%len(dailyQuotes)], utils.DayKey(now)
}
