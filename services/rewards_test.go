package services

import (
	"testing"

	"deen-quest-system/models"

	"github.com/stretchr/testify/assert"
)

func TestRewardForAction(t *testing.T) {
	cases := []struct {
		actionType models.DailyActionType
		count      int
		xp         int64
		coins      int64
	}{
		{models.ActionPrayer, 1, 50, 10},
		{models.ActionPrayer, 5, 50, 10}, // one-shot: count ignored
		{models.ActionTasbeeh, 1, 30, 5},
		{models.ActionCharity, 1, 100, 20},
		{models.ActionAzkar, 1, 5, 1},
		{models.ActionAzkar, 33, 165, 33}, // counter: scales
		{models.ActionQuranRead, 1, 40, 8},
		{models.ActionDua, 1, 20, 4},
		{models.ActionFasting, 1, 100, 50},
		{models.DailyActionType("SOMETHING_NEW"), 1, 10, 2}, // fallback
	}
	for _, tc := range cases {
		r := RewardForAction(tc.actionType, tc.count)
		assert.Equal(t, tc.xp, r.Xp, "%s xp", tc.actionType)
		assert.Equal(t, tc.coins, r.Coins, "%s coins", tc.actionType)
	}
}

func TestRewardForPrayerOnTimeBonus(t *testing.T) {
	late := RewardForPrayer(false)
	assert.Equal(t, int64(50), late.Xp)
	assert.Equal(t, int64(10), late.Coins)

	onTime := RewardForPrayer(true)
	assert.Equal(t, int64(70), onTime.Xp)
	assert.Equal(t, int64(15), onTime.Coins)
}

func TestRewardForFasting(t *testing.T) {
	voluntary := RewardForFasting(models.FastingVoluntary)
	assert.Equal(t, int64(100), voluntary.Xp)
	assert.Equal(t, int64(50), voluntary.Coins)

	ramadan := RewardForFasting(models.FastingRamadan)
	assert.Equal(t, int64(150), ramadan.Xp)
	assert.Equal(t, int64(75), ramadan.Coins)
}
