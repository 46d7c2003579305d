package workers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deen-quest-system/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestSyncBatchMirrorsUsersByExternalID(t *testing.T) {
	displayName := "Amina"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/changes", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"users":[{"id":"profile-row-1","external_id":"ext-1","email":"amina@example.com","display_name":%q}]}`, displayName)
	}))
	t.Cleanup(server.Close)

	db := newTestDB(t)
	worker := NewUserSyncWorker(db, server.URL, "/changes", "test-token")

	require.NoError(t, worker.syncBatch(context.Background(), time.Time{}))

	var user models.User
	require.NoError(t, db.Where("external_user_id = ?", "ext-1").First(&user).Error)
	assert.Equal(t, "Amina", user.DisplayName)
	assert.Equal(t, int64(0), user.Xp)
	assert.Equal(t, 1, user.Level)

	// Progression accrues locally, then the profile changes upstream.
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{"xp": 500, "coins": 50, "level": 3}).Error)
	displayName = "Amina K."
	require.NoError(t, worker.syncBatch(context.Background(), user.UpdatedAt))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var synced models.User
	require.NoError(t, db.Where("external_user_id = ?", "ext-1").First(&synced).Error)
	assert.Equal(t, user.ID, synced.ID)
	assert.Equal(t, "Amina K.", synced.DisplayName)
	// The upsert never touches ledger-owned columns.
	assert.Equal(t, int64(500), synced.Xp)
	assert.Equal(t, int64(50), synced.Coins)
	assert.Equal(t, 3, synced.Level)
}

func TestSyncBatchPropagatesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	db := newTestDB(t)
	worker := NewUserSyncWorker(db, server.URL, "/changes", "test-token")
	assert.Error(t, worker.syncBatch(context.Background(), time.Time{}))
}
