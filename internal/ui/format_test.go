package ui

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

func salary(t *testing.T, raw string) *rapidapi.SalaryRaw {
	t.Helper()
	var s rapidapi.SalaryRaw
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

func TestFormatSalary(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"range", `{"value":{"minValue":70000,"maxValue":90000},"currency":"USD"}`, "$70,000 - $90,000"},
		{"min only", `{"value":{"minValue":70000},"currency":"USD"}`, "$70,000+"},
		{"unit suffix", `{"value":{"minValue":50,"maxValue":65.5,"unitText":"HOUR"},"currency":"EUR"}`, "€50 - €66/hour"},
		{"default currency", `{"value":{"minValue":1234567}}`, "$1,234,567+"},
		{"unknown symbol", `{"value":{"minValue":5000},"currency":"CHF"}`, "CHF 5,000+"},
		{"no value", `{"currency":"USD"}`, ""},
		{"zero min", `{"value":{"minValue":0,"maxValue":10},"currency":"USD"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatSalary(salary(t, tc.raw)))
		})
	}

	assert.Equal(t, "", FormatSalary(nil))
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) string { return now.Add(-d).Format(time.RFC3339) }
	day := 24 * time.Hour

	cases := []struct {
		in   string
		want string
	}{
		{"", "Recently"},
		{"not a date", "Recently"},
		{ago(time.Hour), "Today"},
		{ago(day + time.Hour), "Yesterday"},
		{ago(2 * day), "2 days ago"},
		{ago(8 * day), "1 week ago"},
		{ago(20 * day), "2 weeks ago"},
		{ago(31 * day), "1 month ago"},
		{ago(200 * day), "6 months ago"},
		{"2024-03-05T10:00:00", "Mar 5, 2024"},
		{"2025-01-02", "Jan 2, 2025"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDate(tc.in, now), tc.in)
	}
}

func TestLocationText(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"remote wins", `{"remote_derived":true,"locations_derived":["Berlin"]}`, "Remote"},
		{"derived", `{"locations_derived":["Berlin, Germany"]}`, "Berlin, Germany"},
		{"alt raw", `{"locations_alt_raw":["Austin, TX"]}`, "Austin, TX"},
		{"address parts", `{"locations_raw":[{"address":{"addressLocality":"Paris","addressCountry":"FR"}}]}`, "Paris, FR"},
		{"empty address", `{"locations_raw":[{"address":{}}]}`, "Location not specified"},
		{"normalized", `{"location":"Lisbon"}`, "Lisbon"},
		{"nothing", `{}`, "Location not specified"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v JobView
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &v))
			assert.Equal(t, tc.want, LocationText(v))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("hééllo", 3))
	assert.Equal(t, "", Truncate("", 3))
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 10))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, PageWindow(5, 10))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, PageWindow(10, 10))
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3))
	assert.Nil(t, PageWindow(1, 0))

	for total := 1; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			pages := PageWindow(current, total)
			assert.Len(t, pages, min(total, 5))
			assert.Contains(t, pages, current)
		}
	}
}
