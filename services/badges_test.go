package services

import (
	"testing"

	"deen-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBadgeFixture(t *testing.T) (*BadgeService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	svc := NewBadgeService(db)
	require.NoError(t, svc.SeedDefaultBadges())
	user := createTestUser(t, db)
	return svc, user
}

func badgeNames(t *testing.T, svc *BadgeService, userID string) []string {
	t.Helper()
	awarded, err := svc.GetUserBadges(userID)
	require.NoError(t, err)
	names := make([]string, 0, len(awarded))
	for _, ub := range awarded {
		names = append(names, ub.Badge.Name)
	}
	return names
}

func TestSeedDefaultBadgesIsIdempotent(t *testing.T) {
	svc, _ := newBadgeFixture(t)
	require.NoError(t, svc.SeedDefaultBadges())

	badges, err := svc.GetAllBadges()
	require.NoError(t, err)
	assert.Len(t, badges, len(models.DefaultBadges))
}

func TestAwardBadgeTwiceConflicts(t *testing.T) {
	svc, user := newBadgeFixture(t)
	badge, err := svc.CreateBadge(&models.Badge{Name: "Early Riser"})
	require.NoError(t, err)

	_, err = svc.AwardBadge(user.ID, badge.ID)
	require.NoError(t, err)
	_, err = svc.AwardBadge(user.ID, badge.ID)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Len(t, badgeNames(t, svc, user.ID), 1)
}

func TestAwardBadgeUnknownBadge(t *testing.T) {
	svc, user := newBadgeFixture(t)
	_, err := svc.AwardBadge(user.ID, "no-such-badge")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOnLevelUpAwardsEveryCrossedMilestone(t *testing.T) {
	svc, user := newBadgeFixture(t)

	// A single credit jumping 3 -> 12 crosses the 5 and 10 milestones.
	svc.OnLevelUp(LevelUpEvent{UserID: user.ID, OldLevel: 3, NewLevel: 12})

	names := badgeNames(t, svc, user.ID)
	assert.ElementsMatch(t, []string{"Level 5 Master", "Level 10 Master"}, names)
}

func TestOnLevelUpIsIdempotent(t *testing.T) {
	svc, user := newBadgeFixture(t)

	svc.OnLevelUp(LevelUpEvent{UserID: user.ID, OldLevel: 4, NewLevel: 5})
	svc.OnLevelUp(LevelUpEvent{UserID: user.ID, OldLevel: 4, NewLevel: 5})

	assert.Equal(t, []string{"Level 5 Master"}, badgeNames(t, svc, user.ID))
}

func TestOnLevelUpBelowMilestoneAwardsNothing(t *testing.T) {
	svc, user := newBadgeFixture(t)
	svc.OnLevelUp(LevelUpEvent{UserID: user.ID, OldLevel: 1, NewLevel: 4})
	assert.Empty(t, badgeNames(t, svc, user.ID))
}

func TestOnChallengeCompletedAwardsChampionBadge(t *testing.T) {
	svc, user := newBadgeFixture(t)
	_, err := svc.CreateBadge(&models.Badge{Name: "Ramadan Sprint Champion"})
	require.NoError(t, err)

	challenge := &models.Challenge{ID: "ch-1", Title: "Ramadan Sprint"}
	svc.OnChallengeCompleted(ChallengeCompletedEvent{UserID: user.ID, ChallengeID: challenge.ID, Challenge: challenge})
	// Repeat delivery is harmless.
	svc.OnChallengeCompleted(ChallengeCompletedEvent{UserID: user.ID, ChallengeID: challenge.ID, Challenge: challenge})

	assert.Equal(t, []string{"Ramadan Sprint Champion"}, badgeNames(t, svc, user.ID))
}

func TestOnChallengeCompletedWithoutBadgeIsNoop(t *testing.T) {
	svc, user := newBadgeFixture(t)
	challenge := &models.Challenge{ID: "ch-2", Title: "Unbadged Challenge"}
	svc.OnChallengeCompleted(ChallengeCompletedEvent{UserID: user.ID, ChallengeID: challenge.ID, Challenge: challenge})
	assert.Empty(t, badgeNames(t, svc, user.ID))
}
