package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

func ticketAt(created time.Time, status domain.TicketStatus, category domain.TicketCategory) domain.Ticket {
	return domain.Ticket{
		ID:        created.Format(time.RFC3339Nano),
		Category:  category,
		Priority:  domain.TicketPriorityMedium,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalTickets)
	assert.Equal(t, 0, summary.OpenTickets)
	assert.Equal(t, 0.0, summary.AvgResolutionTimeHours)
	assert.Empty(t, summary.TicketsByCategory)
	assert.Empty(t, summary.TicketsByStatus)
}

func TestSummarize_CountsAndAverage(t *testing.T) {
	resolvedFast := ticketAt(day(1), domain.TicketStatusResolved, domain.TicketCategoryLogin)
	at := day(1).Add(2 * time.Hour)
	resolvedFast.ResolvedAt = &at

	// reopened after resolution still counts toward the average
	reopened := ticketAt(day(2), domain.TicketStatusOpen, domain.TicketCategoryBilling)
	later := day(2).Add(4 * time.Hour)
	reopened.ResolvedAt = &later

	tickets := []domain.Ticket{
		resolvedFast,
		reopened,
		ticketAt(day(3), domain.TicketStatusOpen, domain.TicketCategoryLogin),
		ticketAt(day(3), domain.TicketStatusInProgress, domain.TicketCategoryOther),
	}

	summary := Summarize(tickets)

	assert.Equal(t, 4, summary.TotalTickets)
	assert.Equal(t, 2, summary.OpenTickets)
	assert.InDelta(t, 3.0, summary.AvgResolutionTimeHours, 1e-9)
	assert.Equal(t, map[domain.TicketCategory]int{
		domain.TicketCategoryLogin:   2,
		domain.TicketCategoryBilling: 1,
		domain.TicketCategoryOther:   1,
	}, summary.TicketsByCategory)
	assert.Equal(t, map[domain.TicketStatus]int{
		domain.TicketStatusResolved:   1,
		domain.TicketStatusOpen:       2,
		domain.TicketStatusInProgress: 1,
	}, summary.TicketsByStatus)

	categoryTotal := 0
	for _, n := range summary.TicketsByCategory {
		categoryTotal += n
	}
	assert.Equal(t, summary.TotalTickets, categoryTotal)
}

func TestSummarize_NoResolvedTicketsAveragesZero(t *testing.T) {
	summary := Summarize([]domain.Ticket{
		ticketAt(day(1), domain.TicketStatusOpen, domain.TicketCategoryLogin),
	})
	assert.Equal(t, 0.0, summary.AvgResolutionTimeHours)
}

func TestBuildTrend_Empty(t *testing.T) {
	trend := BuildTrend(nil, 7, time.UTC)

	assert.Equal(t, 7, trend.WindowDays)
	assert.Empty(t, trend.Series)
	assert.Equal(t, 100, trend.WeekOverWeekChange)
}

func TestBuildTrend_SeriesSortedAndTruncated(t *testing.T) {
	var tickets []domain.Ticket
	for d := 10; d >= 1; d-- {
		for i := 0; i < d; i++ {
			tickets = append(tickets, ticketAt(day(d).Add(time.Duration(i)*time.Minute), domain.TicketStatusOpen, domain.TicketCategoryOther))
		}
	}

	trend := BuildTrend(tickets, 3, time.UTC)

	require.Len(t, trend.Series, 3)
	assert.Equal(t, []domain.TrendPoint{
		{Date: "2024-03-08", Count: 8},
		{Date: "2024-03-09", Count: 9},
		{Date: "2024-03-10", Count: 10},
	}, trend.Series)
	// current 27 vs previous 5+6+7=18
	assert.Equal(t, 50, trend.WeekOverWeekChange)
}

func TestBuildTrend_SkipsEmptyDays(t *testing.T) {
	tickets := []domain.Ticket{
		ticketAt(day(1), domain.TicketStatusOpen, domain.TicketCategoryOther),
		ticketAt(day(5), domain.TicketStatusOpen, domain.TicketCategoryOther),
		ticketAt(day(5), domain.TicketStatusOpen, domain.TicketCategoryOther),
	}

	trend := BuildTrend(tickets, 7, time.UTC)

	assert.Equal(t, []domain.TrendPoint{
		{Date: "2024-03-01", Count: 1},
		{Date: "2024-03-05", Count: 2},
	}, trend.Series)
	assert.Equal(t, 100, trend.WeekOverWeekChange)
}

func TestBuildTrend_ChangeRounding(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		current  int
		want     int
	}{
		{name: "flat", previous: 4, current: 4, want: 0},
		{name: "halved", previous: 4, current: 2, want: -50},
		{name: "one third up rounds down", previous: 3, current: 4, want: 33},
		{name: "two thirds down", previous: 3, current: 1, want: -67},
		{name: "negative half rounds toward positive", previous: 8, current: 7, want: -12},
		{name: "positive half rounds up", previous: 8, current: 9, want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tickets []domain.Ticket
			for i := 0; i < tt.previous; i++ {
				tickets = append(tickets, ticketAt(day(1).Add(time.Duration(i)*time.Minute), domain.TicketStatusOpen, domain.TicketCategoryOther))
			}
			for i := 0; i < tt.current; i++ {
				tickets = append(tickets, ticketAt(day(2).Add(time.Duration(i)*time.Minute), domain.TicketStatusOpen, domain.TicketCategoryOther))
			}
			trend := BuildTrend(tickets, 1, time.UTC)
			assert.Equal(t, tt.want, trend.WeekOverWeekChange)
		})
	}
}

func TestBuildTrend_UsesLocationForBuckets(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	tickets := []domain.Ticket{
		ticketAt(time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), domain.TicketStatusOpen, domain.TicketCategoryOther),
	}

	assert.Equal(t, "2024-03-02", BuildTrend(tickets, 7, time.UTC).Series[0].Date)
	assert.Equal(t, "2024-03-01", BuildTrend(tickets, 7, loc).Series[0].Date)
}

func TestAnalyticsService_TrendWindowValidation(t *testing.T) {
	svc := NewAnalyticsService(AnalyticsDependencies{TicketRepo: repository.NewMemoryTicketRepository()})
	ctx := context.Background()

	trend, err := svc.Trend(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrendWindowDays, trend.WindowDays)

	for _, bad := range []int{-1, MaxTrendWindowDays + 1} {
		_, err := svc.Trend(ctx, bad)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument), "window %d", bad)
	}
}

func TestAnalyticsService_ReflectsStoreAfterDelete(t *testing.T) {
	tickets, _, _ := newTestTicketService(t)
	ctx := context.Background()
	analytics := NewAnalyticsService(AnalyticsDependencies{TicketRepo: tickets.tickets})

	keep := createTicket(t, tickets, "login broken")
	drop := createTicket(t, tickets, "invoice wrong")
	_, err := tickets.UpdateStatus(ctx, keep.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	summary, err := analytics.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalTickets)
	assert.Equal(t, 1, summary.OpenTickets)

	require.NoError(t, tickets.DeleteTicket(ctx, drop.ID))

	summary, err = analytics.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalTickets)
	assert.Equal(t, 0, summary.OpenTickets)
	assert.Equal(t, map[domain.TicketCategory]int{domain.TicketCategoryLogin: 1}, summary.TicketsByCategory)

	trend, err := analytics.Trend(ctx, 7)
	require.NoError(t, err)
	require.Len(t, trend.Series, 1)
	assert.Equal(t, 1, trend.Series[0].Count)
}
