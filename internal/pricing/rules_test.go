package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"midnight", "00:00", 0, false},
		{"morning", "09:30", 570, false},
		{"last minute", "23:59", 1439, false},
		{"with surrounding space", " 08:15 ", 495, false},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "10:60", 0, true},
		{"missing colon", "0930", 0, true},
		{"empty", "", 0, true},
		{"garbage", "ab:cd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := minutesOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name               string
		minutes, start, end int
		want               bool
	}{
		{"inside simple window", 600, 540, 1020, true},
		{"at start inclusive", 540, 540, 1020, true},
		{"at end inclusive", 1020, 540, 1020, true},
		{"before window", 500, 540, 1020, false},
		{"after window", 1100, 540, 1020, false},
		{"overnight late evening", 23 * 60, 22 * 60, 6 * 60, true},
		{"overnight early morning", 5 * 60, 22 * 60, 6 * 60, true},
		{"overnight at wrap start", 22 * 60, 22 * 60, 6 * 60, true},
		{"overnight at wrap end", 6 * 60, 22 * 60, 6 * 60, true},
		{"overnight midday excluded", 12 * 60, 22 * 60, 6 * 60, false},
		{"degenerate single minute", 300, 300, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inWindow(tt.minutes, tt.start, tt.end))
		})
	}
}

func TestRuleMatches(t *testing.T) {
	categoryID := "cat-luxury"
	base := TimeBasedRule{
		Name:                 "Night surcharge",
		StartTime:            strPtr("22:00"),
		EndTime:              strPtr("06:00"),
		AdjustmentPercentage: 15,
	}

	t.Run("matches inside overnight window", func(t *testing.T) {
		rule := base
		assert.True(t, ruleMatches(&rule, "friday", 23*60, nil, "svc-1"))
	})

	t.Run("rejects outside window", func(t *testing.T) {
		rule := base
		assert.False(t, ruleMatches(&rule, "friday", 12*60, nil, "svc-1"))
	})

	t.Run("empty day list matches every day", func(t *testing.T) {
		rule := base
		assert.True(t, ruleMatches(&rule, "sunday", 23*60, nil, "svc-1"))
	})

	t.Run("day list restricts matching", func(t *testing.T) {
		rule := base
		rule.DaysOfWeek = []string{"saturday", "sunday"}
		assert.True(t, ruleMatches(&rule, "saturday", 23*60, nil, "svc-1"))
		assert.False(t, ruleMatches(&rule, "monday", 23*60, nil, "svc-1"))
	})

	t.Run("day comparison ignores case and spacing", func(t *testing.T) {
		rule := base
		rule.DaysOfWeek = []string{" Saturday "}
		assert.True(t, ruleMatches(&rule, "saturday", 23*60, nil, "svc-1"))
	})

	t.Run("category filter applies when vehicle category known", func(t *testing.T) {
		rule := base
		rule.CategoryID = strPtr("cat-economy")
		assert.False(t, ruleMatches(&rule, "friday", 23*60, &categoryID, "svc-1"))
		rule.CategoryID = strPtr(categoryID)
		assert.True(t, ruleMatches(&rule, "friday", 23*60, &categoryID, "svc-1"))
	})

	t.Run("category-scoped rule never matches uncategorized vehicle", func(t *testing.T) {
		rule := base
		rule.CategoryID = strPtr("cat-economy")
		assert.False(t, ruleMatches(&rule, "friday", 23*60, nil, "svc-1"))
	})

	t.Run("service type filter", func(t *testing.T) {
		rule := base
		rule.ServiceTypeID = strPtr("svc-2")
		assert.False(t, ruleMatches(&rule, "friday", 23*60, nil, "svc-1"))
		assert.True(t, ruleMatches(&rule, "friday", 23*60, nil, "svc-2"))
	})

	t.Run("no time window matches any time", func(t *testing.T) {
		rule := base
		rule.StartTime = nil
		rule.EndTime = nil
		assert.True(t, ruleMatches(&rule, "friday", 12*60, nil, "svc-1"))
	})

	t.Run("unparseable window never matches", func(t *testing.T) {
		rule := base
		rule.StartTime = strPtr("25:99")
		assert.False(t, ruleMatches(&rule, "friday", 23*60, nil, "svc-1"))
	})
}

func TestSelectRulePicksHighestPriority(t *testing.T) {
	low := &TimeBasedRule{Name: "All day", AdjustmentPercentage: 5, Priority: 1}
	high := &TimeBasedRule{
		Name:                 "Night",
		StartTime:            strPtr("22:00"),
		EndTime:              strPtr("06:00"),
		AdjustmentPercentage: 15,
		Priority:             10,
	}

	// Rules arrive ordered highest priority first
	pickup := time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)
	selected := selectRule([]*TimeBasedRule{high, low}, pickup, nil, "svc-1")
	require.NotNil(t, selected)
	assert.Equal(t, "Night", selected.Name)

	// Outside the night window only the all-day rule applies
	noon := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	selected = selectRule([]*TimeBasedRule{high, low}, noon, nil, "svc-1")
	require.NotNil(t, selected)
	assert.Equal(t, "All day", selected.Name)
}

func TestSelectRuleNoMatch(t *testing.T) {
	rule := &TimeBasedRule{
		Name:      "Weekend",
		DaysOfWeek: []string{"saturday", "sunday"},
	}

	// 2026-08-28 is a Friday
	pickup := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, selectRule([]*TimeBasedRule{rule}, pickup, nil, "svc-1"))
}

func TestSelectRuleSkipsCategoryRuleForUncategorizedVehicle(t *testing.T) {
	luxuryOnly := &TimeBasedRule{
		Name:                 "Luxury surcharge",
		CategoryID:           strPtr("cat-luxury"),
		AdjustmentPercentage: 25,
		Priority:             10,
	}

	pickup := time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)
	assert.Nil(t, selectRule([]*TimeBasedRule{luxuryOnly}, pickup, nil, "svc-1"))

	categoryID := "cat-luxury"
	selected := selectRule([]*TimeBasedRule{luxuryOnly}, pickup, &categoryID, "svc-1")
	require.NotNil(t, selected)
	assert.Equal(t, "Luxury surcharge", selected.Name)
}

func TestParsePickupTime(t *testing.T) {
	t.Run("date and time fields", func(t *testing.T) {
		req := QuoteRequest{PickupDate: strPtr("2026-08-28"), PickupTime: strPtr("23:00")}
		got, ok := parsePickupTime(req)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC), got)
	})

	t.Run("combined date_time fallback", func(t *testing.T) {
		req := QuoteRequest{DateTime: strPtr("2026-08-28T09:30")}
		got, ok := parsePickupTime(req)
		require.True(t, ok)
		assert.Equal(t, 9, got.Hour())
	})

	t.Run("missing time disables adjustment", func(t *testing.T) {
		req := QuoteRequest{PickupDate: strPtr("2026-08-28")}
		_, ok := parsePickupTime(req)
		assert.False(t, ok)
	})

	t.Run("unparseable input", func(t *testing.T) {
		req := QuoteRequest{PickupDate: strPtr("28/08/2026"), PickupTime: strPtr("23:00")}
		_, ok := parsePickupTime(req)
		assert.False(t, ok)
	})

	t.Run("empty request", func(t *testing.T) {
		_, ok := parsePickupTime(QuoteRequest{})
		assert.False(t, ok)
	})
}
