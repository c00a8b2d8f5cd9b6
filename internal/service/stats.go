package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

// streakGoalDays is the streak length at which a snapshot records the
// goal as met.
const streakGoalDays = 3

// DailyStats sums one day of activity by category. A walk or play
// amount counts as minutes, a treat amount as a count, and a care
// entry contributes its amount when nonzero or 1 otherwise. Notes are
// excluded from totals.
type DailyStats struct {
	Date       model.Date `json:"date"`
	WalkMin    float64    `json:"walk_min"`
	PlayMin    float64    `json:"play_min"`
	TreatCount float64    `json:"treat_count"`
	CareCount  float64    `json:"care_count"`
	StreakInfo int        `json:"streak_info"`
}

// WeeklyDay is one entry of a weekly report. ChangeVsLastWeek carries
// the week-over-week ratio, which is computed once for the whole week
// and attached identically to every entry; it is null when the prior
// week had no walk or play minutes.
type WeeklyDay struct {
	DailyStats
	ChangeVsLastWeek *float64 `json:"change_vs_last_week"`
}

// WeeklyReport is a 7-day aggregation window.
type WeeklyReport struct {
	Start model.Date  `json:"start"`
	End   model.Date  `json:"end"`
	Days  []WeeklyDay `json:"days"`
}

// StatsService computes daily and weekly aggregates and streaks.
type StatsService struct {
	activities repository.ActivityRepository
	streaks    repository.StreakRepository
	logger     *slog.Logger
}

func NewStatsService(
	activities repository.ActivityRepository,
	streaks repository.StreakRepository,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		activities: activities,
		streaks:    streaks,
		logger:     logger,
	}
}

// Daily aggregates one day of activity and attaches the streak ending
// at that date. A day with no data yields all-zero totals and a streak
// of 0. The first computation for a given user and date also records a
// streak snapshot memo with the day's totals.
func (s *StatsService) Daily(ctx context.Context, userID string, date model.Date) (*DailyStats, error) {
	stats, err := s.aggregateDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	streak, err := s.streakEndingAt(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	stats.StreakInfo = streak

	// Write-once memo; an existing row for this user+date is ignored.
	snapshot := &model.StreakSnapshot{
		UserID:       userID,
		Date:         date,
		TotalMinutes: int(stats.WalkMin + stats.PlayMin),
		TotalTreats:  int(stats.TreatCount),
		MetGoal:      streak >= streakGoalDays,
	}
	if _, err := s.streaks.InsertSnapshotIfAbsent(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("recording streak snapshot: %w", err)
	}

	return stats, nil
}

// Weekly builds the report for the 7 days starting at start, plus the
// week-over-week comparison against the 7 days ending the day before.
// The comparison ratio is (current - previous) / previous over summed
// walk+play minutes, defined only when the previous week is nonzero.
func (s *StatsService) Weekly(ctx context.Context, userID string, start model.Date) (*WeeklyReport, error) {
	days := make([]WeeklyDay, 0, 7)
	for i := 0; i < 7; i++ {
		stats, err := s.Daily(ctx, userID, start.AddDays(i))
		if err != nil {
			return nil, err
		}
		days = append(days, WeeklyDay{DailyStats: *stats})
	}

	lastWeekTotal := 0.0
	for i := -7; i < 0; i++ {
		stats, err := s.Daily(ctx, userID, start.AddDays(i))
		if err != nil {
			return nil, err
		}
		lastWeekTotal += stats.WalkMin + stats.PlayMin
	}

	currentTotal := 0.0
	for _, d := range days {
		currentTotal += d.WalkMin + d.PlayMin
	}

	var change *float64
	if lastWeekTotal > 0 {
		ratio := (currentTotal - lastWeekTotal) / lastWeekTotal
		change = &ratio
	}
	for i := range days {
		days[i].ChangeVsLastWeek = change
	}

	return &WeeklyReport{
		Start: start,
		End:   start.AddDays(6),
		Days:  days,
	}, nil
}

// aggregateDay buckets one day's activities by category.
func (s *StatsService) aggregateDay(ctx context.Context, userID string, date model.Date) (*DailyStats, error) {
	dayStart, dayEnd := date.Bounds()
	activities, err := s.activities.ListActivitiesBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("loading activities for %s: %w", date, err)
	}

	stats := &DailyStats{Date: date}
	for _, act := range activities {
		switch act.Type {
		case model.ActivityWalk:
			stats.WalkMin += act.Amount
		case model.ActivityPlay:
			stats.PlayMin += act.Amount
		case model.ActivityTreat:
			stats.TreatCount += act.Amount
		case model.ActivityCare:
			if act.Amount != 0 {
				stats.CareCount += act.Amount
			} else {
				stats.CareCount++
			}
		case model.ActivityNote:
			// notes carry no totals
		}
	}

	return stats, nil
}

// streakEndingAt counts consecutive days with at least one activity,
// walking backward from the target date and stopping at the first
// empty day. One existence query per day; a long streak costs a
// linear number of lookups.
func (s *StatsService) streakEndingAt(ctx context.Context, userID string, date model.Date) (int, error) {
	days := 0
	for check := date; ; check = check.AddDays(-1) {
		dayStart, dayEnd := check.Bounds()
		active, err := s.activities.HasActivityBetween(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return 0, fmt.Errorf("checking streak day %s: %w", check, err)
		}
		if !active {
			break
		}
		days++
	}
	return days, nil
}
