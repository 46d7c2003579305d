package services

import (
	"errors"
	"fmt"

	"deen-quest-system/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BadgeService awards badges. It is the idempotent consumer behind the
// notifier: events may arrive more than once, the (user, badge) unique
// constraint makes repeats harmless.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

func (s *BadgeService) CreateBadge(badge *models.Badge) (*models.Badge, error) {
	if badge.ID == "" {
		badge.ID = uuid.NewString()
	}
	if badge.Name == "" {
		return nil, fmt.Errorf("%w: badge needs a name", ErrInvalidState)
	}
	if err := s.DB.Create(badge).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return badge, nil
}

func (s *BadgeService) GetAllBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Order("created_at DESC").Find(&badges).Error
	return badges, translateDBErr(err)
}

// AwardBadge grants one badge to one user; Conflict if already held.
func (s *BadgeService) AwardBadge(userID, badgeID string) (*models.UserBadge, error) {
	var badge models.Badge
	if err := s.DB.Where("id = ?", badgeID).First(&badge).Error; err != nil {
		return nil, translateDBErr(err)
	}

	userBadge := &models.UserBadge{
		ID:      uuid.NewString(),
		UserID:  userID,
		BadgeID: badgeID,
	}
	if err := s.DB.Create(userBadge).Error; err != nil {
		return nil, translateDBErr(err)
	}
	userBadge.Badge = &badge
	log.Infof("🎖️ Badge awarded: %s → %s", badge.Name, userID)
	return userBadge, nil
}

func (s *BadgeService) GetUserBadges(userID string) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := s.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&userBadges).Error
	return userBadges, translateDBErr(err)
}

// SeedDefaultBadges is idempotent and safe to run at every startup.
func (s *BadgeService) SeedDefaultBadges() error {
	for _, b := range models.DefaultBadges {
		badge := models.Badge{
			ID:          uuid.NewString(),
			Name:        b.Name,
			Description: b.Description,
		}
		if err := s.DB.Where("name = ?", b.Name).FirstOrCreate(&badge).Error; err != nil {
			return translateDBErr(err)
		}
	}
	return nil
}

func (s *BadgeService) awardByName(userID, name string) {
	var badge models.Badge
	if err := s.DB.Where("name = ?", name).First(&badge).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("⚠️ Badge lookup failed for %q: %v", name, err)
		}
		return
	}
	if _, err := s.AwardBadge(userID, badge.ID); err != nil && !errors.Is(err, ErrConflict) {
		log.Warnf("⚠️ Could not award badge %q to %s: %v", name, userID, err)
	}
}

// OnLevelUp awards milestone badges. A single credit can jump several levels,
// so every milestone in (old, new] is checked, not just the new level.
func (s *BadgeService) OnLevelUp(ev LevelUpEvent) {
	for _, milestone := range models.LevelMilestones {
		if milestone > ev.OldLevel && milestone <= ev.NewLevel {
			s.awardByName(ev.UserID, fmt.Sprintf("Level %d Master", milestone))
		}
	}
}

// OnChallengeCompleted awards the challenge's champion badge when one exists.
func (s *BadgeService) OnChallengeCompleted(ev ChallengeCompletedEvent) {
	if ev.Challenge == nil {
		return
	}
	s.awardByName(ev.UserID, fmt.Sprintf("%s Champion", ev.Challenge.Title))
}
