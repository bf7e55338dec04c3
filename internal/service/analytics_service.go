package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const (
	// DefaultTrendWindowDays is the dashboard's week-sized window.
	DefaultTrendWindowDays = 7
	// MaxTrendWindowDays bounds caller-supplied windows.
	MaxTrendWindowDays = 366

	trendDateLayout = "2006-01-02"
)

// AnalyticsService computes dashboard aggregates over a fresh store snapshot on every call.
type AnalyticsService struct {
	tickets       repository.TicketRepository
	location      *time.Location
	defaultWindow int
	logger        *zap.Logger
}

// AnalyticsDependencies bundles collaborators for the analytics service.
type AnalyticsDependencies struct {
	TicketRepo        repository.TicketRepository
	Location          *time.Location
	DefaultWindowDays int
	Logger            *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	svc := &AnalyticsService{
		tickets:       deps.TicketRepo,
		location:      deps.Location,
		defaultWindow: deps.DefaultWindowDays,
		logger:        deps.Logger,
	}
	if svc.location == nil {
		svc.location = time.UTC
	}
	if svc.defaultWindow <= 0 {
		svc.defaultWindow = DefaultTrendWindowDays
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Summary returns counters over every ticket currently stored.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.Summary, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := Summarize(tickets)
	return &summary, nil
}

// Trend returns the day-bucketed volume series. windowDays of zero selects the default.
func (s *AnalyticsService) Trend(ctx context.Context, windowDays int) (*domain.Trend, error) {
	if windowDays == 0 {
		windowDays = s.defaultWindow
	}
	if windowDays < 1 || windowDays > MaxTrendWindowDays {
		return nil, apperrors.NewInvalidArgument("window_days out of range", map[string]any{
			"window_days": windowDays,
			"min":         1,
			"max":         MaxTrendWindowDays,
		})
	}
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	trend := BuildTrend(tickets, windowDays, s.location)
	return &trend, nil
}

func (s *AnalyticsService) snapshot(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		s.logger.Error("analytics snapshot failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// Summarize computes the summary counters for a ticket snapshot.
func Summarize(tickets []domain.Ticket) domain.Summary {
	summary := domain.Summary{
		TotalTickets:      len(tickets),
		TicketsByCategory: map[domain.TicketCategory]int{},
		TicketsByStatus:   map[domain.TicketStatus]int{},
	}

	var resolvedHours float64
	resolvedCount := 0
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.Status == domain.TicketStatusOpen {
			summary.OpenTickets++
		}
		summary.TicketsByCategory[ticket.Category]++
		summary.TicketsByStatus[ticket.Status]++
		if ticket.ResolvedAt != nil {
			resolvedHours += ticket.ResolvedAt.Sub(ticket.CreatedAt).Hours()
			resolvedCount++
		}
	}
	if resolvedCount > 0 {
		summary.AvgResolutionTimeHours = resolvedHours / float64(resolvedCount)
	}
	return summary
}

// BuildTrend buckets tickets by the calendar date of created_at in loc and
// keeps the most recent windowDays ticket-bearing dates. Days without tickets
// are not filled in.
func BuildTrend(tickets []domain.Ticket, windowDays int, loc *time.Location) domain.Trend {
	if loc == nil {
		loc = time.UTC
	}
	counts := map[string]int{}
	for i := range tickets {
		counts[tickets[i].CreatedAt.In(loc).Format(trendDateLayout)]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	full := make([]domain.TrendPoint, 0, len(dates))
	for _, date := range dates {
		full = append(full, domain.TrendPoint{Date: date, Count: counts[date]})
	}

	currentStart := max(len(full)-windowDays, 0)
	previousStart := max(len(full)-2*windowDays, 0)

	series := full[currentStart:]
	current := sumCounts(series)
	previous := sumCounts(full[previousStart:currentStart])

	return domain.Trend{
		WindowDays:         windowDays,
		Series:             series,
		WeekOverWeekChange: percentChange(current, previous),
	}
}

// percentChange reports 100 whenever the previous window is empty.
func percentChange(current, previous int) int {
	if previous == 0 {
		return 100
	}
	return roundHalfUp(100 * float64(current-previous) / float64(previous))
}

// roundHalfUp rounds .5 toward positive infinity, as the dashboard client does.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func sumCounts(points []domain.TrendPoint) int {
	total := 0
	for _, point := range points {
		total += point.Count
	}
	return total
}
