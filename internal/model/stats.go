package model

import "time"

// UserStats is the gamification ledger for a user. It is mutated only by the
// server-side order acceptance rule; clients read it.
type UserStats struct {
	UserID           string     `json:"user_id" db:"user_id"`
	Points           int        `json:"points" db:"points"`
	TotalSpent       float64    `json:"total_spent" db:"total_spent"`
	TotalSaved       float64    `json:"total_saved" db:"total_saved"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastPurchaseDate *time.Time `json:"last_purchase_date,omitempty" db:"last_purchase_date"`
}

// Budget is a user-configured monthly spending ceiling. Month uses the
// "2006-01" layout.
type Budget struct {
	UserID string  `json:"user_id" db:"user_id"`
	Amount float64 `json:"amount" db:"amount"`
	Month  string  `json:"month" db:"month"`
}

// RemainingBudget pairs the configured ceiling with what is left of it for
// the current month.
type RemainingBudget struct {
	Amount    float64 `json:"amount"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID        string `json:"user_id" db:"user_id"`
	Email         string `json:"email" db:"email"`
	Points        int    `json:"points" db:"points"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
	Rank          int    `json:"rank" db:"rank"`
}

// ProductPurchaseCount is one row of the most-purchased-products query.
type ProductPurchaseCount struct {
	Product       Product `json:"product"`
	PurchaseCount int     `json:"purchase_count"`
}
