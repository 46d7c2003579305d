package models

import "time"

type TaskType string

const (
	TaskCount  TaskType = "COUNT"
	TaskDaily  TaskType = "DAILY"
	TaskStreak TaskType = "STREAK"
	TaskPrayer TaskType = "PRAYER"
	TaskAzkar  TaskType = "AZKAR"
)

type ProgressStatus string

const (
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusCompleted  ProgressStatus = "COMPLETED"
)

// Challenge is immutable after creation: no update path exists.
type Challenge struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	StartAt     time.Time       `gorm:"not null;index" json:"start_at"`
	EndAt       time.Time       `gorm:"not null;index" json:"end_at"`
	RewardXp    int64           `gorm:"default:0" json:"reward_xp"`
	RewardCoins int64           `gorm:"default:0" json:"reward_coins"`
	IsGlobal    bool            `gorm:"default:true;index" json:"is_global"`
	Tasks       []ChallengeTask `gorm:"foreignKey:ChallengeID" json:"tasks,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ChallengeTask params are free-form per task type; AZKAR tasks carry
// {"azkarId": "..."} so the daily view can find the matching completion fact.
type ChallengeTask struct {
	ID          string            `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengeID string            `gorm:"index;not null" json:"challenge_id"`
	Title       string            `gorm:"not null" json:"title"`
	Type        TaskType          `gorm:"not null" json:"type"`
	GoalCount   *int              `json:"goal_count,omitempty"`
	Points      int               `gorm:"default:10" json:"points"`
	Params      map[string]string `gorm:"serializer:json" json:"params,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// Goal is GoalCount defaulted to 1.
func (t ChallengeTask) Goal() int {
	if t.GoalCount == nil || *t.GoalCount < 1 {
		return 1
	}
	return *t.GoalCount
}

// TaskProgress is the per-task counter inside a ChallengeProgress row.
// Current never exceeds Goal and Completed never reverts.
type TaskProgress struct {
	Current   int  `json:"current"`
	Goal      int  `json:"goal"`
	Completed bool `json:"completed"`
}

// TaskProgressMap keys by ChallengeTask ID. Stored serialized; validated
// against the challenge's task list whenever it is advanced.
type TaskProgressMap map[string]TaskProgress

// ChallengeProgress exists exactly once per (user, challenge); the composite
// unique index rejects a second join. Status flips IN_PROGRESS -> COMPLETED
// exactly once and that transition is the sole payout trigger.
type ChallengeProgress struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"not null;index;uniqueIndex:idx_progress_user_challenge" json:"user_id"`
	ChallengeID  string          `gorm:"not null;index;uniqueIndex:idx_progress_user_challenge" json:"challenge_id"`
	Challenge    *Challenge      `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	TaskProgress TaskProgressMap `gorm:"serializer:json" json:"task_progress"`
	PointsEarned int             `gorm:"default:0" json:"points_earned"`
	Status       ProgressStatus  `gorm:"not null;default:'IN_PROGRESS';index" json:"status"`
	Timestamps
}
