package model

import "time"

// Achievement is a static catalog entry; EarnedAt is set once a user has
// unlocked it.
type Achievement struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Icon        string     `json:"icon" db:"icon"`
	Points      int        `json:"points" db:"points"`
	EarnedAt    *time.Time `json:"earned_at,omitempty" db:"earned_at"`
}

// Achievement catalog identifiers granted by the order acceptance rule.
const (
	AchievementFirstPurchase = "first_purchase"
	AchievementStreakWeek    = "streak_week"
	AchievementStreakMonth   = "streak_month"
)
