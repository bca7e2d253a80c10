package domain

import "time"

// Stats summarizes a set of tours.
type Stats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	// ThisWeek counts scheduled tours dated within the ISO week of now.
	ThisWeek int `json:"thisWeek"`
}

// ComputeStats counts tours by status. The week runs Monday through Sunday
// in UTC, whatever now's location.
func ComputeStats(tours []Tour, now time.Time) Stats {
	monday, sunday := isoWeekBounds(now)

	var stats Stats
	for _, t := range tours {
		stats.Total++
		switch t.Status {
		case StatusScheduled:
			stats.Scheduled++
			day := civilDate(t.ScheduledDate)
			if !day.Before(monday) && !day.After(sunday) {
				stats.ThisWeek++
			}
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

func isoWeekBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
