package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodStartFor(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		g    Granularity
		want time.Time
	}{
		{
			name: "daily truncates time of day",
			t:    time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
			g:    GranularityDaily,
			want: date(2026, 3, 15),
		},
		{
			name: "weekly snaps to Monday",
			t:    date(2026, 3, 15), // a Sunday
			g:    GranularityWeekly,
			want: date(2026, 3, 9),
		},
		{
			name: "weekly on a Monday stays put",
			t:    date(2026, 3, 9),
			g:    GranularityWeekly,
			want: date(2026, 3, 9),
		},
		{
			name: "monthly snaps to the first",
			t:    date(2026, 3, 15),
			g:    GranularityMonthly,
			want: date(2026, 3, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodStartFor(tt.t, tt.g))
		})
	}
}

func TestNextPeriodStart(t *testing.T) {
	assert.Equal(t, date(2026, 3, 16), NextPeriodStart(date(2026, 3, 15), GranularityDaily))
	assert.Equal(t, date(2026, 3, 16), NextPeriodStart(date(2026, 3, 9), GranularityWeekly))
	assert.Equal(t, date(2026, 4, 1), NextPeriodStart(date(2026, 3, 1), GranularityMonthly))
}

func TestPeriodStarts(t *testing.T) {
	starts := PeriodStarts(date(2026, 3, 15), GranularityMonthly, 3)
	require.Len(t, starts, 3)
	assert.Equal(t, date(2026, 3, 1), starts[0])
	assert.Equal(t, date(2026, 4, 1), starts[1])
	assert.Equal(t, date(2026, 5, 1), starts[2])
}

func TestPeriodStartsContainAsOf(t *testing.T) {
	asOf := date(2026, 3, 15)
	for _, g := range []Granularity{GranularityDaily, GranularityWeekly, GranularityMonthly} {
		starts := PeriodStarts(asOf, g, 6)
		require.Len(t, starts, 6)
		assert.False(t, starts[0].After(asOf), "granularity %s: first period must contain the as-of date", g)
		assert.True(t, NextPeriodStart(starts[0], g).After(asOf), "granularity %s", g)
	}
}
