package services

import (
	"testing"
	"time"

	"deen-quest-system/models"
	"deen-quest-system/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDailyFixture(t *testing.T) (*DailyService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(db, nil)
	svc := NewDailyService(db, ledger)
	user := createTestUser(t, db)
	t.Cleanup(utils.ResetClock)
	return svc, user
}

func setClock(t *testing.T, value string) {
	t.Helper()
	at := fixedTime(t, value)
	utils.SetClock(func() time.Time { return at })
}

func TestRecordActionOneShotDedup(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 09:00")

	first, err := svc.RecordAction(user.ID, models.ActionPrayer, "FAJR", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50), first.Rewards.Xp)
	assert.Equal(t, int64(10), first.Rewards.Coins)
	assert.Equal(t, int64(50), first.Balance.NewXp)
	assert.Equal(t, int64(10), first.Balance.NewCoins)

	// Same prayer, same day: rejected at the storage constraint.
	_, err = svc.RecordAction(user.ID, models.ActionPrayer, "FAJR", 1, nil)
	assert.ErrorIs(t, err, ErrConflict)

	// A different discriminator is a different one-shot slot.
	_, err = svc.RecordAction(user.ID, models.ActionPrayer, "DHUHR", 1, nil)
	require.NoError(t, err)

	// Next day the slot reopens.
	setClock(t, "2026-03-11 09:00")
	_, err = svc.RecordAction(user.ID, models.ActionPrayer, "FAJR", 1, nil)
	require.NoError(t, err)
}

func TestRecordActionFailedGateLeavesBalanceUnchanged(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 09:00")

	_, err := svc.RecordAction(user.ID, models.ActionCharity, "", 1, nil)
	require.NoError(t, err)
	snap, err := svc.Ledger.Snapshot(user.ID)
	require.NoError(t, err)

	_, err = svc.RecordAction(user.ID, models.ActionCharity, "", 1, nil)
	assert.ErrorIs(t, err, ErrConflict)

	after, err := svc.Ledger.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Xp, after.Xp)
	assert.Equal(t, snap.Coins, after.Coins)
}

func TestRecordActionCounterAccumulates(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 09:00")

	_, err := svc.RecordAction(user.ID, models.ActionAzkar, "azkar-1", 10, nil)
	require.NoError(t, err)
	_, err = svc.RecordAction(user.ID, models.ActionAzkar, "azkar-1", 23, nil)
	require.NoError(t, err)

	total, err := svc.TodayTotal(user.ID, models.ActionAzkar, "azkar-1")
	require.NoError(t, err)
	assert.Equal(t, 33, total)

	// Rewards scale per unit across both rows: (10+23) * 5xp / 1coin
	snap, err := svc.Ledger.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(165), snap.Xp)
	assert.Equal(t, int64(33), snap.Coins)
}

func TestGetStreak(t *testing.T) {
	svc, user := newDailyFixture(t)

	// Records on D-2, D-1, D but not D-3
	for _, day := range []string{"2026-03-08 10:00", "2026-03-09 10:00", "2026-03-10 10:00"} {
		setClock(t, day)
		_, err := svc.RecordAction(user.ID, models.ActionQuranRead, "", 1, nil)
		require.NoError(t, err)
	}

	setClock(t, "2026-03-10 20:00")
	streak, err := svc.GetStreak(user.ID, models.ActionQuranRead)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// The run may also end yesterday.
	setClock(t, "2026-03-11 08:00")
	streak, err = svc.GetStreak(user.ID, models.ActionQuranRead)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// Two days later the streak is broken.
	setClock(t, "2026-03-12 08:00")
	streak, err = svc.GetStreak(user.ID, models.ActionQuranRead)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestGetStreakSpansMoreThanAYear(t *testing.T) {
	svc, user := newDailyFixture(t)
	base := fixedTime(t, "2027-02-10 12:00")
	utils.SetClock(func() time.Time { return base })

	rows := make([]models.DailyAction, 0, 400)
	for i := 0; i < 400; i++ {
		at := base.AddDate(0, 0, -i)
		rows = append(rows, models.DailyAction{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			ActionType: models.ActionDua,
			Count:      1,
			Day:        utils.DayKey(at),
			DedupKey:   uuid.NewString(),
			OccurredAt: at,
		})
	}
	require.NoError(t, svc.DB.CreateInBatches(rows, 100).Error)

	streak, err := svc.GetStreak(user.ID, models.ActionDua)
	require.NoError(t, err)
	assert.Equal(t, 400, streak)
}

func TestGetStreakNoRecords(t *testing.T) {
	svc, user := newDailyFixture(t)
	streak, err := svc.GetStreak(user.ID, models.ActionDua)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCompletePrayer(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 06:00")

	completion, result, err := svc.CompletePrayer(user.ID, models.PrayerFajr, true)
	require.NoError(t, err)
	assert.Equal(t, int64(70), result.Rewards.Xp) // 50 + 20 on-time bonus
	assert.Equal(t, int64(15), result.Rewards.Coins)
	assert.True(t, completion.OnTime)

	// Second FAJR today conflicts.
	_, _, err = svc.CompletePrayer(user.ID, models.PrayerFajr, false)
	assert.ErrorIs(t, err, ErrConflict)

	// Other prayers remain open.
	_, result, err = svc.CompletePrayer(user.ID, models.PrayerDhuhr, false)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Rewards.Xp)
}

func TestCompletePrayerUnknownName(t *testing.T) {
	svc, user := newDailyFixture(t)
	_, _, err := svc.CompletePrayer(user.ID, models.PrayerName("TAHAJJUD"), false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteAzkar(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 07:00")

	group := &models.AzkarGroup{ID: "grp-1", Name: "Morning Azkar", NameAr: "أذكار الصباح", Category: models.AzkarMorning}
	require.NoError(t, svc.DB.Create(group).Error)
	azkar := &models.Azkar{
		ID: "azk-1", GroupID: group.ID, Title: "Ayat al-Kursi", TitleAr: "آية الكرسي",
		ArabicText: "...", TargetCount: 1, XpReward: 25, CoinsReward: 8,
	}
	require.NoError(t, svc.DB.Create(azkar).Error)

	_, result, err := svc.CompleteAzkar(user.ID, azkar.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Rewards.Xp)
	assert.Equal(t, int64(8), result.Rewards.Coins)

	// Same azkar, same day: Conflict, and no further reward.
	_, _, err = svc.CompleteAzkar(user.ID, azkar.ID)
	assert.ErrorIs(t, err, ErrConflict)

	snap, err := svc.Ledger.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), snap.Xp)
	assert.Equal(t, int64(8), snap.Coins)

	// Next day is a fresh completion.
	setClock(t, "2026-03-11 07:00")
	_, _, err = svc.CompleteAzkar(user.ID, azkar.ID)
	require.NoError(t, err)
}

func TestCompleteAzkarUnknownID(t *testing.T) {
	svc, user := newDailyFixture(t)
	_, _, err := svc.CompleteAzkar(user.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteFastingWindow(t *testing.T) {
	svc, user := newDailyFixture(t)

	// Midday is outside the nightly window.
	setClock(t, "2026-03-10 12:00")
	_, _, err := svc.CompleteFasting(user.ID, models.FastingVoluntary)
	assert.ErrorIs(t, err, ErrOutOfWindow)

	// 20:00 is inside.
	setClock(t, "2026-03-10 20:00")
	_, result, err := svc.CompleteFasting(user.ID, models.FastingVoluntary)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Rewards.Xp)
	assert.Equal(t, int64(50), result.Rewards.Coins)

	// Already completed today: Conflict, not OutOfWindow.
	setClock(t, "2026-03-10 21:00")
	_, _, err = svc.CompleteFasting(user.ID, models.FastingVoluntary)
	assert.ErrorIs(t, err, ErrConflict)

	// Early-morning side of the window on the next day.
	setClock(t, "2026-03-11 04:30")
	_, _, err = svc.CompleteFasting(user.ID, models.FastingVoluntary)
	require.NoError(t, err)
}

func TestCompleteFastingRamadanRate(t *testing.T) {
	svc, user := newDailyFixture(t)
	setClock(t, "2026-03-10 19:00")

	_, result, err := svc.CompleteFasting(user.ID, models.FastingRamadan)
	require.NoError(t, err)
	assert.Equal(t, int64(150), result.Rewards.Xp)
	assert.Equal(t, int64(75), result.Rewards.Coins)
}

func TestGetTodayActionsScopedToDay(t *testing.T) {
	svc, user := newDailyFixture(t)

	setClock(t, "2026-03-09 10:00")
	_, err := svc.RecordAction(user.ID, models.ActionDua, "", 1, nil)
	require.NoError(t, err)

	setClock(t, "2026-03-10 10:00")
	_, err = svc.RecordAction(user.ID, models.ActionTasbeeh, "", 1, nil)
	require.NoError(t, err)

	actions, err := svc.GetTodayActions(user.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionTasbeeh, actions[0].ActionType)
}
