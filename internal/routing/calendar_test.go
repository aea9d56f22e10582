package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func weekdayService() *Service {
	return &Service{
		ID:          "weekday",
		StartDate:   20250101,
		EndDate:     20251231,
		WeekdayMask: [7]bool{false, true, true, true, true, true, false},
	}
}

func TestServiceRunsOnWeekdayRange(t *testing.T) {
	svc := weekdayService()
	// 2025-01-01 is a Wednesday.
	require.True(t, svc.RunsOn(20250101, 3))
	// Sunday in range: weekday mask excludes it.
	require.False(t, svc.RunsOn(20250105, 0))
}

func TestServiceRunsOnOutsideRange(t *testing.T) {
	svc := weekdayService()
	require.False(t, svc.RunsOn(20241231, 2))
	require.False(t, svc.RunsOn(20260101, 4))
}

func TestServiceRunsOnRemovedException(t *testing.T) {
	svc := weekdayService()
	svc.Removed = map[Date]bool{20250102: true}
	require.False(t, svc.RunsOn(20250102, 4))
}

func TestServiceRunsOnAddedException(t *testing.T) {
	svc := weekdayService()
	svc.Added = map[Date]bool{20250104: true} // a Saturday, outside the mask
	require.True(t, svc.RunsOn(20250104, 6))
}

func TestDateAddDaysCrossesMonthBoundary(t *testing.T) {
	d := Date(20250131)
	require.Equal(t, Date(20250201), d.AddDays(1))
}

func TestDateWeekday(t *testing.T) {
	require.Equal(t, 3, Date(20250101).Weekday())
}
