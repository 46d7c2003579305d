package services

import (
	"errors"
	"fmt"
	"time"

	"deen-quest-system/models"
	"deen-quest-system/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeService tracks per-(user, challenge) task progress and issues the
// bulk completion reward exactly once, on the IN_PROGRESS -> COMPLETED
// transition.
type ChallengeService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Notifier Notifier
}

func NewChallengeService(db *gorm.DB, ledger *LedgerService, notifier Notifier) *ChallengeService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &ChallengeService{DB: db, Ledger: ledger, Notifier: notifier}
}

// NewChallengeInput is the admin creation payload. Challenges are immutable
// after creation.
type NewChallengeInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartAt     time.Time      `json:"start_at"`
	EndAt       time.Time      `json:"end_at"`
	RewardXp    int64          `json:"reward_xp"`
	RewardCoins int64          `json:"reward_coins"`
	IsGlobal    *bool          `json:"is_global"`
	Tasks       []NewTaskInput `json:"tasks"`
}

type NewTaskInput struct {
	Title     string            `json:"title"`
	Type      models.TaskType   `json:"type"`
	GoalCount *int              `json:"goal_count"`
	Points    int               `json:"points"`
	Params    map[string]string `json:"params"`
}

func (s *ChallengeService) CreateChallenge(in NewChallengeInput) (*models.Challenge, error) {
	if in.Title == "" || len(in.Tasks) == 0 || !in.EndAt.After(in.StartAt) {
		return nil, fmt.Errorf("%w: challenge needs a title, at least one task and a valid window", ErrInvalidState)
	}

	challenge := &models.Challenge{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		RewardXp:    in.RewardXp,
		RewardCoins: in.RewardCoins,
		IsGlobal:    in.IsGlobal == nil || *in.IsGlobal,
	}
	for _, t := range in.Tasks {
		points := t.Points
		if points <= 0 {
			points = 10
		}
		challenge.Tasks = append(challenge.Tasks, models.ChallengeTask{
			ID:          uuid.NewString(),
			ChallengeID: challenge.ID,
			Title:       t.Title,
			Type:        t.Type,
			GoalCount:   t.GoalCount,
			Points:      points,
			Params:      t.Params,
		})
	}

	if err := s.DB.Create(challenge).Error; err != nil {
		return nil, translateDBErr(err)
	}
	log.Infof("🏁 Challenge created: %s (%d tasks)", challenge.Title, len(challenge.Tasks))
	return challenge, nil
}

// GetAllChallenges lists global challenges that have not ended yet.
func (s *ChallengeService) GetAllChallenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.DB.Preload("Tasks").
		Where("is_global = ? AND end_at >= ?", true, utils.Now()).
		Order("start_at DESC").
		Find(&challenges).Error
	return challenges, translateDBErr(err)
}

func (s *ChallengeService) GetChallengeByID(challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.DB.Preload("Tasks").Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return &challenge, nil
}

// Join creates the progress record for (user, challenge). A second join hits
// the composite unique index and surfaces as Conflict even under concurrent
// submission.
func (s *ChallengeService) Join(userID, challengeID string) (*models.ChallengeProgress, error) {
	challenge, err := s.GetChallengeByID(challengeID)
	if err != nil {
		return nil, err
	}

	taskProgress := models.TaskProgressMap{}
	for _, task := range challenge.Tasks {
		taskProgress[task.ID] = models.TaskProgress{Current: 0, Goal: task.Goal(), Completed: false}
	}

	progress := &models.ChallengeProgress{
		ID:           uuid.NewString(),
		UserID:       userID,
		ChallengeID:  challengeID,
		TaskProgress: taskProgress,
		Status:       models.StatusInProgress,
	}
	if err := s.DB.Create(progress).Error; err != nil {
		return nil, translateDBErr(err)
	}

	progress.Challenge = challenge
	log.Infof("🤝 Challenge joined: user=%s challenge=%s", userID, challenge.Title)
	return progress, nil
}

// Advance adds increment to one task counter, clamped to its goal. Completion
// of a task is sticky and credits its points once. When the last task
// completes, the status flip is guarded by a conditional UPDATE so the bulk
// payout and the completion event happen exactly once per (user, challenge),
// even when two advances race.
func (s *ChallengeService) Advance(userID, challengeID, taskID string, increment int) (*models.ChallengeProgress, error) {
	if increment < 1 {
		return nil, fmt.Errorf("%w: increment must be >= 1", ErrInvalidState)
	}

	var (
		progress  models.ChallengeProgress
		completed bool
		payout    *CreditResult
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Row lock: two advances on different tasks of the same progress row
		// would otherwise both read the full map and the last writer would
		// erase the other's increment.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Challenge.Tasks").
			Where("user_id = ? AND challenge_id = ?", userID, challengeID).
			First(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: challenge progress", ErrNotFound)
			}
			return translateDBErr(err)
		}
		if progress.Status == models.StatusCompleted {
			return fmt.Errorf("%w: challenge already completed", ErrInvalidState)
		}

		var task *models.ChallengeTask
		for i := range progress.Challenge.Tasks {
			if progress.Challenge.Tasks[i].ID == taskID {
				task = &progress.Challenge.Tasks[i]
				break
			}
		}
		if task == nil {
			return fmt.Errorf("%w: task", ErrNotFound)
		}

		tp, ok := progress.TaskProgress[taskID]
		if !ok {
			// Progress map drifted from the task list; heal with a fresh entry.
			tp = models.TaskProgress{Current: 0, Goal: task.Goal()}
		}

		wasCompleted := tp.Completed
		tp.Current += increment
		if tp.Current >= tp.Goal {
			tp.Current = tp.Goal
			tp.Completed = true
		}
		progress.TaskProgress[taskID] = tp

		if tp.Completed && !wasCompleted {
			progress.PointsEarned += task.Points
		}

		allDone := true
		for _, t := range progress.Challenge.Tasks {
			if !progress.TaskProgress[t.ID].Completed {
				allDone = false
				break
			}
		}

		newStatus := models.StatusInProgress
		if allDone {
			newStatus = models.StatusCompleted
		}

		// Guarded write: only one transaction can move the row out of
		// IN_PROGRESS, which is what makes the payout single-shot.
		result := tx.Model(&models.ChallengeProgress{}).
			Where("user_id = ? AND challenge_id = ? AND status = ?", userID, challengeID, models.StatusInProgress).
			Updates(map[string]interface{}{
				"task_progress": progress.TaskProgress,
				"points_earned": progress.PointsEarned,
				"status":        newStatus,
			})
		if result.Error != nil {
			return translateDBErr(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: challenge already completed", ErrInvalidState)
		}
		progress.Status = newStatus

		if allDone {
			completed = true
			var txErr error
			payout, txErr = s.Ledger.CreditTx(tx, userID, progress.Challenge.RewardXp, progress.Challenge.RewardCoins)
			return txErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.Ledger.EmitLevelUp(payout)
		log.Infof("🏆 Challenge completed: user=%s challenge=%s (+%dxp +%dc)",
			userID, progress.Challenge.Title, progress.Challenge.RewardXp, progress.Challenge.RewardCoins)
		s.Notifier.OnChallengeCompleted(ChallengeCompletedEvent{
			UserID:      userID,
			ChallengeID: challengeID,
			Challenge:   progress.Challenge,
		})
	}
	return &progress, nil
}

func (s *ChallengeService) GetUserProgress(userID, challengeID string) (*models.ChallengeProgress, error) {
	var progress models.ChallengeProgress
	err := s.DB.Preload("Challenge.Tasks").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &progress, nil
}

func (s *ChallengeService) GetUserChallenges(userID string) ([]models.ChallengeProgress, error) {
	var progresses []models.ChallengeProgress
	err := s.DB.Preload("Challenge.Tasks").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&progresses).Error
	return progresses, translateDBErr(err)
}

// DailyTaskView is one row of the read-only daily aggregation.
type DailyTaskView struct {
	TaskID           string          `json:"task_id"`
	ChallengeID      string          `json:"challenge_id"`
	Title            string          `json:"title"`
	Type             models.TaskType `json:"type"`
	CurrentProgress  int             `json:"current_progress"`
	Goal             int             `json:"goal"`
	CompletedToday   bool            `json:"completed_today"`
	OverallCompleted bool            `json:"overall_completed"`
	Points           int             `json:"points"`
}

// GetUserDailyTasks derives "completed today" for every task of the user's
// in-progress challenges straight from today's fact tables. PRAYER, AZKAR and
// DAILY task types are computed here and never advanced implicitly; their
// multi-day counters move only through explicit Advance calls.
func (s *ChallengeService) GetUserDailyTasks(userID string) ([]DailyTaskView, error) {
	var progresses []models.ChallengeProgress
	err := s.DB.Preload("Challenge.Tasks").
		Where("user_id = ? AND status = ?", userID, models.StatusInProgress).
		Find(&progresses).Error
	if err != nil {
		return nil, translateDBErr(err)
	}

	today := utils.TodayKey()

	var prayersToday int64
	if err := s.DB.Model(&models.PrayerCompletion{}).
		Where("user_id = ? AND day = ?", userID, today).
		Distinct("prayer_name").
		Count(&prayersToday).Error; err != nil {
		return nil, translateDBErr(err)
	}
	allPrayersDone := prayersToday >= int64(len(models.CanonicalPrayers))

	views := []DailyTaskView{}
	for _, progress := range progresses {
		for _, task := range progress.Challenge.Tasks {
			tp := progress.TaskProgress[task.ID]
			view := DailyTaskView{
				TaskID:           task.ID,
				ChallengeID:      progress.ChallengeID,
				Title:            task.Title,
				Type:             task.Type,
				CurrentProgress:  tp.Current,
				Goal:             task.Goal(),
				OverallCompleted: tp.Completed,
				Points:           task.Points,
			}

			switch task.Type {
			case models.TaskPrayer:
				view.CompletedToday = allPrayersDone
			case models.TaskAzkar:
				if azkarID := task.Params["azkarId"]; azkarID != "" {
					var count int64
					if err := s.DB.Model(&models.AzkarCompletion{}).
						Where("user_id = ? AND azkar_id = ? AND day = ?", userID, azkarID, today).
						Count(&count).Error; err != nil {
						return nil, translateDBErr(err)
					}
					view.CompletedToday = count > 0
				}
			case models.TaskDaily:
				var count int64
				if err := s.DB.Model(&models.DailyAction{}).
					Where("user_id = ? AND linked_task_id = ? AND day = ?", userID, task.ID, today).
					Count(&count).Error; err != nil {
					return nil, translateDBErr(err)
				}
				view.CompletedToday = count > 0
			}
			views = append(views, view)
		}
	}
	return views, nil
}
