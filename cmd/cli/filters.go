package main

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/report"
)

type filters struct {
	startDate string
	endDate   string
	minAmount float64
	maxAmount float64
	history   string
}

// dateLayouts covers both shapes parsers emit: DD/MM/YYYY and YYYY-MM-DD.
var dateLayouts = []string{"02/01/2006", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toFilterFunc returns nil when no filter flag is set.
func (f *filters) toFilterFunc() report.FilterFunc {
	if *f == (filters{}) {
		return nil
	}
	start, hasStart := parseDate(f.startDate)
	end, hasEnd := parseDate(f.endDate)
	minAmount := decimal.NewFromFloat(f.minAmount)
	maxAmount := decimal.NewFromFloat(f.maxAmount)

	return func(t models.CanonicalTransaction) bool {
		if hasStart || hasEnd {
			date, ok := parseDate(t.Date)
			if !ok {
				return false
			}
			if hasStart && date.Before(start) {
				return false
			}
			if hasEnd && date.After(end) {
				return false
			}
		}
		if f.minAmount != 0 && t.Value.Abs().LessThan(minAmount) {
			return false
		}
		if f.maxAmount != 0 && t.Value.Abs().GreaterThan(maxAmount) {
			return false
		}
		if f.history != "" && !strings.Contains(strings.ToLower(t.History), strings.ToLower(f.history)) {
			return false
		}
		return true
	}
}
