package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"deen-quest-system/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileUser matches the JSON the profile service returns for changed accounts.
type ProfileUser struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type profileChangesResponse struct {
	Users []ProfileUser `json:"users"`
}

// UserSyncWorker mirrors profile-service accounts into the local users table.
// The engine's NotFound semantics rely on this mirror: an unknown user id
// means a genuinely unknown account, not one that was never synced.
// Progression columns are never touched by the sync — the ledger owns them.
type UserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewUserSyncWorker(db *gorm.DB, profileServiceURL, endpointPath, serviceToken string) *UserSyncWorker {
	return &UserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      profileServiceURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Info("🔁 Starting User Sync Worker (profile service → users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Warnf("⚠️ Initial user sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("User Sync Worker stopped")
			return
		case <-ticker.C:
			since := w.lastSyncedAt()
			if err := w.syncBatch(ctx, since); err != nil {
				log.Warnf("⚠️ User sync failed: %v", err)
			}
		}
	}
}

func (w *UserSyncWorker) lastSyncedAt() time.Time {
	var user models.User
	if err := w.db.Order("updated_at DESC").First(&user).Error; err != nil {
		return time.Time{}
	}
	return user.UpdatedAt
}

func (w *UserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	u, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return fmt.Errorf("failed to parse profile service URL: %w", err)
	}
	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile service returned %d: %s", resp.StatusCode, string(body))
	}

	var changes profileChangesResponse
	if err := json.Unmarshal(body, &changes); err != nil {
		return fmt.Errorf("failed to decode profile changes: %w", err)
	}
	if len(changes.Users) == 0 {
		return nil
	}

	for _, p := range changes.Users {
		user := models.User{
			ID:             uuid.NewString(),
			ExternalUserID: p.ExternalID,
			Email:          p.Email,
			DisplayName:    p.DisplayName,
			AvatarURL:      p.AvatarURL,
			Level:          1,
		}
		// Upsert on the external id; never overwrite ledger-owned columns.
		err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "avatar_url", "updated_at"}),
		}).Create(&user).Error
		if err != nil {
			log.Warnf("⚠️ Failed to upsert user %s: %v", p.ExternalID, err)
		}
	}

	log.Infof("✅ Synced %d user(s) from profile service", len(changes.Users))
	return nil
}
