package services

import "deen-quest-system/models"

// ActionReward is what one unit of an action pays out.
type ActionReward struct {
	Xp    int64 `json:"xp"`
	Coins int64 `json:"coins"`
}

// actionRewards enumerates the closed action-type set. Unrecognized types fall
// back to defaultActionReward so a new client-side type degrades instead of
// failing.
var actionRewards = map[models.DailyActionType]ActionReward{
	models.ActionPrayer:    {Xp: 50, Coins: 10},
	models.ActionTasbeeh:   {Xp: 30, Coins: 5},
	models.ActionCharity:   {Xp: 100, Coins: 20},
	models.ActionAzkar:     {Xp: 5, Coins: 1}, // per unit
	models.ActionQuranRead: {Xp: 40, Coins: 8},
	models.ActionDua:       {Xp: 20, Coins: 4},
	models.ActionFasting:   {Xp: 100, Coins: 50},
}

var defaultActionReward = ActionReward{Xp: 10, Coins: 2}

// onTimePrayerBonus is added when the caller asserts the prayer was on time.
// The assertion is trusted input; verification against real prayer times is a
// caller concern.
var onTimePrayerBonus = ActionReward{Xp: 20, Coins: 5}

var ramadanFastingReward = ActionReward{Xp: 150, Coins: 75}

// RewardForAction maps (type, count) to a payout. Counter-style actions scale
// both components by count; one-shot actions ignore it.
func RewardForAction(t models.DailyActionType, count int) ActionReward {
	r, ok := actionRewards[t]
	if !ok {
		r = defaultActionReward
	}
	if models.IsCounterAction(t) {
		if count < 1 {
			count = 1
		}
		r.Xp *= int64(count)
		r.Coins *= int64(count)
	}
	return r
}

// RewardForPrayer returns the prayer payout with the on-time bonus applied.
func RewardForPrayer(onTime bool) ActionReward {
	r := actionRewards[models.ActionPrayer]
	if onTime {
		r.Xp += onTimePrayerBonus.Xp
		r.Coins += onTimePrayerBonus.Coins
	}
	return r
}

// RewardForFasting pays the Ramadan rate for Ramadan fasts.
func RewardForFasting(t models.FastingType) ActionReward {
	if t == models.FastingRamadan {
		return ramadanFastingReward
	}
	return actionRewards[models.ActionFasting]
}
