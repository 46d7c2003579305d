package services

import (
	"deen-quest-system/models"

	log "github.com/sirupsen/logrus"
)

// LevelUpEvent fires once per credit that crosses a level boundary. A single
// credit spanning several thresholds still produces one event; consumers
// iterate the levels in between themselves.
type LevelUpEvent struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// ChallengeCompletedEvent fires exactly once per (user, challenge).
type ChallengeCompletedEvent struct {
	UserID      string            `json:"user_id"`
	ChallengeID string            `json:"challenge_id"`
	Challenge   *models.Challenge `json:"challenge,omitempty"`
}

// Notifier is the notification port. Services call it only after their
// triggering transaction has committed. Delivery is at-least-once from the
// consumer's point of view, so consumers must be idempotent.
type Notifier interface {
	OnLevelUp(ev LevelUpEvent)
	OnChallengeCompleted(ev ChallengeCompletedEvent)
}

// AsyncNotifier fans events out to subscribers in goroutines, fire-and-forget.
// No ordering is guaranteed across event types.
type AsyncNotifier struct {
	subscribers []Notifier
}

func NewAsyncNotifier(subs ...Notifier) *AsyncNotifier {
	return &AsyncNotifier{subscribers: subs}
}

func (n *AsyncNotifier) Subscribe(sub Notifier) {
	n.subscribers = append(n.subscribers, sub)
}

func (n *AsyncNotifier) OnLevelUp(ev LevelUpEvent) {
	for _, sub := range n.subscribers {
		go func(s Notifier) {
			defer recoverSubscriber("levelUp")
			s.OnLevelUp(ev)
		}(sub)
	}
}

func (n *AsyncNotifier) OnChallengeCompleted(ev ChallengeCompletedEvent) {
	for _, sub := range n.subscribers {
		go func(s Notifier) {
			defer recoverSubscriber("challengeCompleted")
			s.OnChallengeCompleted(ev)
		}(sub)
	}
}

func recoverSubscriber(event string) {
	if r := recover(); r != nil {
		log.Errorf("💥 subscriber panic during %s event: %v", event, r)
	}
}

// NoopNotifier satisfies Notifier where no downstream effects are wanted.
type NoopNotifier struct{}

func (NoopNotifier) OnLevelUp(LevelUpEvent)                       {}
func (NoopNotifier) OnChallengeCompleted(ChallengeCompletedEvent) {}
