package domain

// Summary is the dashboard counter block.
type Summary struct {
	TotalTickets           int                    `json:"total_tickets"`
	OpenTickets            int                    `json:"open_tickets"`
	AvgResolutionTimeHours float64                `json:"avg_resolution_time_hours"`
	TicketsByCategory      map[TicketCategory]int `json:"tickets_by_category"`
	TicketsByStatus        map[TicketStatus]int   `json:"tickets_by_status"`
}

// TrendPoint is the ticket volume of one calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Trend is the day-bucketed volume series with its window-over-window delta.
type Trend struct {
	WindowDays         int          `json:"window_days"`
	Series             []TrendPoint `json:"series"`
	WeekOverWeekChange int          `json:"week_over_week_change"`
}
