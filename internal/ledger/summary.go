package ledger

import (
	"sort"
	"time"
)

// SalesSummary holds the time-bucketed bottle totals for one station.
type SalesSummary struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
	Yearly  int `json:"yearly"`
}

// Summarize buckets events per station relative to the given day.
// Buckets:
//   - daily: events dated exactly today
//   - weekly: events dated today-7d or later (inclusive trailing window)
//   - monthly: events in the same month number regardless of year; the
//     dashboard has always summed months across years
//   - yearly: events in the same calendar year
//
// Every id in stationIDs gets an entry even with no events.
func Summarize(events []DeliveryEvent, today time.Time, stationIDs []string) map[string]SalesSummary {
	today = Day(today)
	weekStart := today.AddDate(0, 0, -7)

	summaries := make(map[string]SalesSummary, len(stationIDs))
	for _, id := range stationIDs {
		summaries[id] = SalesSummary{}
	}
	for _, event := range events {
		summary := summaries[event.Station]
		if event.Date.Equal(today) {
			summary.Daily += event.Bottles
		}
		if !event.Date.Before(weekStart) {
			summary.Weekly += event.Bottles
		}
		if event.Date.Month() == today.Month() {
			summary.Monthly += event.Bottles
		}
		if event.Date.Year() == today.Year() {
			summary.Yearly += event.Bottles
		}
		summaries[event.Station] = summary
	}
	return summaries
}

// SeriesPoint is one (day, station) aggregate of delivered bottles.
type SeriesPoint struct {
	Date    time.Time `json:"date"`
	Station string    `json:"station"`
	Bottles int       `json:"bottles"`
}

// HistorySeries groups events by day and station for charting, sorted by
// day then station. An empty ledger yields ErrNoHistory so callers can show
// a notice instead of an empty chart.
func HistorySeries(events []DeliveryEvent) ([]SeriesPoint, error) {
	if len(events) == 0 {
		return nil, ErrNoHistory
	}

	type key struct {
		day     time.Time
		station string
	}
	totals := make(map[key]int)
	for _, event := range events {
		totals[key{day: event.Date, station: event.Station}] += event.Bottles
	}

	points := make([]SeriesPoint, 0, len(totals))
	for k, bottles := range totals {
		points = append(points, SeriesPoint{Date: k.day, Station: k.station, Bottles: bottles})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Station < points[j].Station
	})
	return points, nil
}
