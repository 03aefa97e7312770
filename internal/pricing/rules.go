package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dayName returns the lowercase weekday name used by rule day lists
func dayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// minutesOfDay parses an "HH:MM" string into minutes since midnight
func minutesOfDay(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day: %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hours*60 + minutes, nil
}

// inWindow reports whether a time of day falls inside [start, end], both
// inclusive. Windows where start > end wrap past midnight, so 22:00-06:00
// matches times at or after 22:00 and times at or before 06:00.
func inWindow(minutes, start, end int) bool {
	if start > end {
		return minutes >= start || minutes <= end
	}
	return minutes >= start && minutes <= end
}

// ruleMatches reports whether a rule applies to the given pickup day/time and
// booking scope. Unset rule fields match everything; a category-scoped rule
// only matches vehicles that carry that exact category, so it never applies
// to an uncategorized vehicle.
func ruleMatches(rule *TimeBasedRule, day string, minutes int, categoryID *string, serviceTypeID string) bool {
	if rule.CategoryID != nil {
		if categoryID == nil || *rule.CategoryID != *categoryID {
			return false
		}
	}
	if rule.ServiceTypeID != nil && *rule.ServiceTypeID != serviceTypeID {
		return false
	}

	if len(rule.DaysOfWeek) > 0 {
		found := false
		for _, d := range rule.DaysOfWeek {
			if strings.EqualFold(strings.TrimSpace(d), day) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if rule.StartTime != nil && rule.EndTime != nil {
		start, err := minutesOfDay(*rule.StartTime)
		if err != nil {
			return false
		}
		end, err := minutesOfDay(*rule.EndTime)
		if err != nil {
			return false
		}
		if !inWindow(minutes, start, end) {
			return false
		}
	}

	return true
}

// selectRule returns the first matching rule, or nil. Rules must already be
// ordered highest priority first; at most one rule ever applies to a quote.
func selectRule(rules []*TimeBasedRule, pickup time.Time, categoryID *string, serviceTypeID string) *TimeBasedRule {
	day := dayName(pickup)
	minutes := pickup.Hour()*60 + pickup.Minute()

	for _, rule := range rules {
		if ruleMatches(rule, day, minutes, categoryID, serviceTypeID) {
			return rule
		}
	}
	return nil
}

// Applied returns the response-facing summary of the rule
func (r *TimeBasedRule) Applied() *AppliedRule {
	return &AppliedRule{
		Name:                 r.Name,
		AdjustmentPercentage: r.AdjustmentPercentage,
		Description:          r.Description,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		DaysOfWeek:           r.DaysOfWeek,
	}
}

// parsePickupTime combines the request's pickup date and time fields into a
// single timestamp. It returns ok=false when the request carries no usable
// pickup information, which simply disables time-based adjustment.
func parsePickupTime(req QuoteRequest) (time.Time, bool) {
	if req.PickupDate != nil && req.PickupTime != nil {
		combined := strings.TrimSpace(*req.PickupDate) + "T" + strings.TrimSpace(*req.PickupTime)
		if t, err := time.Parse("2006-01-02T15:04", combined); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	// Legacy clients send a combined date_time instead
	if req.DateTime != nil {
		s := strings.TrimSpace(*req.DateTime)
		for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
