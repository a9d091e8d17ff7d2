package model

import "time"

// PeriodStartFor returns the start of the period containing t for the
// given granularity: the day itself, the Monday of its ISO week, or the
// first of its calendar month. Time-of-day is truncated.
func PeriodStartFor(t time.Time, g Granularity) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case GranularityDaily:
		return day
	case GranularityWeekly:
		// time.Weekday has Sunday=0; ISO weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// NextPeriodStart returns the start of the period following start.
func NextPeriodStart(start time.Time, g Granularity) time.Time {
	switch g {
	case GranularityDaily:
		return start.AddDate(0, 0, 1)
	case GranularityWeekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// PeriodStarts returns the starts of the n consecutive periods beginning
// with the period that contains asOf.
func PeriodStarts(asOf time.Time, g Granularity, n int) []time.Time {
	starts := make([]time.Time, 0, n)
	cur := PeriodStartFor(asOf, g)
	for i := 0; i < n; i++ {
		starts = append(starts, cur)
		cur = NextPeriodStart(cur, g)
	}
	return starts
}
