package ui

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

const (
	maxVisiblePages = 5

	noLocation = "Location not specified"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// en-US currency symbols; other ISO codes are prefixed with the code itself
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"MXN": "MX$",
	"BRL": "R$",
	"CNY": "CN¥",
	"KRW": "₩",
	"ILS": "₪",
	"VND": "₫",
	"PHP": "₱",
}

// FormatDate describes how long ago s was relative to now
func FormatDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Recently"
	}

	t, ok := parseDate(s)
	if !ok {
		return "Recently"
	}

	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week") + " ago"
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatSalary renders a salary range with whole currency units, or "" when
// there is no minimum value.
func FormatSalary(s *rapidapi.SalaryRaw) string {
	if s == nil || s.Value == nil {
		return ""
	}

	minV, maxV := s.Value.MinValue, s.Value.MaxValue
	if minV == nil || *minV == 0 {
		return ""
	}

	suffix := ""
	if s.Value.UnitText != "" {
		suffix = "/" + strings.ToLower(s.Value.UnitText)
	}

	if maxV != nil && *maxV != 0 {
		return formatAmount(*minV, s.Currency) + " - " + formatAmount(*maxV, s.Currency) + suffix
	}
	return formatAmount(*minV, s.Currency) + "+" + suffix
}

func formatAmount(v float64, code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.USD
	}

	iso := unit.String()
	amount := printer.Sprintf("%d", int64(math.Round(math.Abs(v))))

	sign := ""
	if v < 0 {
		sign = "-"
	}

	if sym, ok := currencySymbols[iso]; ok {
		return sign + sym + amount
	}
	return sign + iso + " " + amount
}

// LocationText picks the most specific location label available
func LocationText(v JobView) string {
	if v.RemoteDerived {
		return "Remote"
	}
	if len(v.LocationsDerived) > 0 && v.LocationsDerived[0] != "" {
		return v.LocationsDerived[0]
	}
	if len(v.LocationsAltRaw) > 0 && v.LocationsAltRaw[0] != "" {
		return v.LocationsAltRaw[0]
	}
	if len(v.LocationsRaw) > 0 && v.LocationsRaw[0].Address != nil {
		a := v.LocationsRaw[0].Address
		var parts []string
		for _, p := range []string{a.Locality, a.Region, a.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
		return noLocation
	}
	if v.Location != "" {
		return v.Location
	}
	return noLocation
}

// Truncate cuts s to n runes and appends "..." when it was longer
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// PageWindow lists up to five page numbers around current
func PageWindow(current, total int) []int {
	if total < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := max(1, current-maxVisiblePages/2)
	end := min(total, start+maxVisiblePages-1)
	if end-start < maxVisiblePages-1 {
		start = max(1, end-maxVisiblePages+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
