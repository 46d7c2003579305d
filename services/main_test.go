package services

import (
	"sync"
	"testing"
	"time"

	"deen-quest-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DailyAction{},
		&models.PrayerCompletion{},
		&models.AzkarCompletion{},
		&models.FastingCompletion{},
		&models.AzkarGroup{},
		&models.Azkar{},
		&models.Challenge{},
		&models.ChallengeTask{},
		&models.ChallengeProgress{},
		&models.Item{},
		&models.UserItem{},
		&models.Purchase{},
		&models.Badge{},
		&models.UserBadge{},
		&models.PrayerTimesCache{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalUserID: uuid.NewString(),
		DisplayName:    "Test User",
		Level:          1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// recordingNotifier captures events synchronously for assertions.
type recordingNotifier struct {
	mu         sync.Mutex
	levelUps   []LevelUpEvent
	completions []ChallengeCompletedEvent
}

func (r *recordingNotifier) OnLevelUp(ev LevelUpEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levelUps = append(r.levelUps, ev)
}

func (r *recordingNotifier) OnChallengeCompleted(ev ChallengeCompletedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, ev)
}

func (r *recordingNotifier) LevelUps() []LevelUpEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LevelUpEvent(nil), r.levelUps...)
}

func (r *recordingNotifier) Completions() []ChallengeCompletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChallengeCompletedEvent(nil), r.completions...)
}

func fixedTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	require.NoError(t, err)
	return parsed
}
