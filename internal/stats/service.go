// Package stats computes read-side rollups over the person directory and
// the attendance ledger. Nothing is cached; every summary is recomputed
// from storage at call time.
package stats

import (
	"context"
	"time"

	"facetrack/internal/attendance"
)

// PersonCounter is the directory surface the aggregator needs.
type PersonCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Ledger is the attendance surface the aggregator needs.
type Ledger interface {
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]attendance.Record, error)
	TopNames(ctx context.Context, limit int) ([]attendance.NameCount, error)
}

// TrendPoint is one day of the daily trend, labeled for display.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Summary is the full statistics payload.
type Summary struct {
	TotalUsers     int64                  `json:"totalUsers"`
	TotalCheckIns  int64                  `json:"totalCheckIns"`
	TodayCheckIns  int64                  `json:"todayCheckIns"`
	WeekCheckIns   int64                  `json:"weekCheckIns"`
	MonthCheckIns  int64                  `json:"monthCheckIns"`
	RecentCheckIns []attendance.Record    `json:"recentCheckIns"`
	DailyTrend     []TrendPoint           `json:"dailyTrend"`
	TopUsers       []attendance.NameCount `json:"topUsers"`
}

const (
	recentLimit   = 10
	topUsersLimit = 5
	trendDays     = 7
)

// Service aggregates statistics.
type Service struct {
	people PersonCounter
	ledger Ledger
	now    func() time.Time
}

// NewService creates an aggregator over the two stores.
func NewService(people PersonCounter, ledger Ledger) *Service {
	return &Service{people: people, ledger: ledger, now: time.Now}
}

// Summary computes all rollups for the current local time. Window starts are
// aligned to local midnight; the month window starts on the first of the
// current month.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	now := s.now()
	today := midnight(now)
	weekStart := midnight(now.AddDate(0, 0, -trendDays))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		out Summary
		err error
	)
	if out.TotalUsers, err = s.people.Count(ctx); err != nil {
		return Summary{}, err
	}
	if out.TotalCheckIns, err = s.ledger.CountAll(ctx); err != nil {
		return Summary{}, err
	}
	if out.TodayCheckIns, err = s.ledger.CountSince(ctx, today); err != nil {
		return Summary{}, err
	}
	if out.WeekCheckIns, err = s.ledger.CountSince(ctx, weekStart); err != nil {
		return Summary{}, err
	}
	if out.MonthCheckIns, err = s.ledger.CountSince(ctx, monthStart); err != nil {
		return Summary{}, err
	}
	if out.RecentCheckIns, err = s.ledger.Recent(ctx, recentLimit); err != nil {
		return Summary{}, err
	}
	if out.DailyTrend, err = s.dailyTrend(ctx, today); err != nil {
		return Summary{}, err
	}
	if out.TopUsers, err = s.ledger.TopNames(ctx, topUsersLimit); err != nil {
		return Summary{}, err
	}

	if out.RecentCheckIns == nil {
		out.RecentCheckIns = []attendance.Record{}
	}
	if out.TopUsers == nil {
		out.TopUsers = []attendance.NameCount{}
	}
	return out, nil
}

// dailyTrend returns one point per calendar day for the trailing trendDays
// days, oldest first. Each point covers [day 00:00, next day 00:00).
func (s *Service) dailyTrend(ctx context.Context, today time.Time) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)
		count, err := s.ledger.CountBetween(ctx, day, next)
		if err != nil {
			return nil, err
		}
		points = append(points, TrendPoint{
			Date:  day.Format("2 Jan"),
			Count: count,
		})
	}
	return points, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
