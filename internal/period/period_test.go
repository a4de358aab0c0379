package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		anchor    string
		wantStart string
		wantEnd   string
	}{
		{"daily", Daily, "2024-03-15", "2024-03-15", "2024-03-15"},
		{"weekly midweek", Weekly, "2024-03-13", "2024-03-11", "2024-03-17"},
		{"weekly on monday", Weekly, "2024-03-11", "2024-03-11", "2024-03-17"},
		{"weekly on sunday", Weekly, "2024-03-17", "2024-03-11", "2024-03-17"},
		{"weekly across year", Weekly, "2025-01-01", "2024-12-30", "2025-01-05"},
		{"monthly", Monthly, "2024-02-10", "2024-02-01", "2024-02-29"},
		{"quarterly Q1", Quarterly, "2024-02-10", "2024-01-01", "2024-03-31"},
		{"quarterly Q4", Quarterly, "2024-11-30", "2024-10-01", "2024-12-31"},
		{"yearly", Yearly, "2024-07-04", "2024-01-01", "2024-12-31"},
		{"unknown falls back to monthly", Kind("fortnightly"), "2024-04-20", "2024-04-01", "2024-04-30"},
		{"empty falls back to monthly", Kind(""), "2024-04-20", "2024-04-01", "2024-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(tt.kind, mustDate(t, tt.anchor))
			assert.Equal(t, tt.wantStart, r.StartDate())
			assert.Equal(t, tt.wantEnd, r.EndDate())
			assert.Equal(t, 0, r.Start.Hour())
			assert.Equal(t, 23, r.End.Hour())
			assert.Equal(t, 59, r.End.Second())
		})
	}
}

func TestResolveContainsAnchor(t *testing.T) {
	start := mustDate(t, "2023-12-25")
	for i := 0; i < 500; i++ {
		anchor := start.AddDate(0, 0, i)
		for _, k := range Kinds {
			r := Resolve(k, anchor)
			assert.Truef(t, r.Contains(anchor), "%s range %s..%s does not contain %s", k, r.StartDate(), r.EndDate(), FormatDate(anchor))
			assert.False(t, r.End.Before(r.Start))
		}
	}
}

func TestPreviousIsAdjacent(t *testing.T) {
	anchors := []string{"2024-01-01", "2024-03-31", "2024-05-31", "2024-12-31", "2023-03-01", "2024-02-29"}
	for _, a := range anchors {
		anchor := mustDate(t, a)
		for _, k := range Kinds {
			current := Resolve(k, anchor)
			prev := Previous(k, anchor)
			assert.Equalf(t, current.Start, prev.End.Add(time.Nanosecond), "%s/%s: previous period must end right before current", k, a)
			assert.Truef(t, prev.Start.Before(prev.End), "%s/%s: previous range is empty", k, a)
		}
	}
}

func TestPreviousMonthFromMonthEnd(t *testing.T) {
	prev := Previous(Monthly, mustDate(t, "2024-03-31"))
	assert.Equal(t, "2024-02-01", prev.StartDate())
	assert.Equal(t, "2024-02-29", prev.EndDate())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Monthly, k)

	for _, want := range Kinds {
		got, err := ParseKind(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = ParseKind("hourly")
	assert.Error(t, err)
}

func TestMonthMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0/30.0, Daily.MonthMultiplier(), 1e-9)
	assert.InDelta(t, 0.25, Weekly.MonthMultiplier(), 1e-9)
	assert.Equal(t, 1.0, Monthly.MonthMultiplier())
	assert.Equal(t, 3.0, Quarterly.MonthMultiplier())
	assert.Equal(t, 12.0, Yearly.MonthMultiplier())
	assert.Equal(t, 1.0, Kind("bogus").MonthMultiplier())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("06/01/2024")
	assert.Error(t, err)
}
