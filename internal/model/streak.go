package model

// StreakSnapshot is a write-once memo recorded the first time a streak
// is computed for a given user and date. It captures that day's totals
// at computation time and whether the streak goal (3+ consecutive
// active days) was met. Existing rows are never updated and never feed
// back into streak counts.
type StreakSnapshot struct {
	ID           string `json:"id"`
	UserID       string `json:"-"`
	Date         Date   `json:"date"`
	TotalMinutes int    `json:"total_minutes"`
	TotalTreats  int    `json:"total_treats"`
	MetGoal      bool   `json:"met_goal"`
}
