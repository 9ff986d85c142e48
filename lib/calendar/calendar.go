package calendar

import (
	"time"
)

// HolidayProvider внешний производственный календарь праздников.
// Не задан — учитываются только выходные.
type HolidayProvider interface {
	IsHoliday(day time.Time) bool
}

var Holidays HolidayProvider

// AddWorkingDays прибавляет рабочие дни (пн-пт, минус праздники календаря)
func AddWorkingDays(start time.Time, days int) time.Time {
	result := start
	for added := 0; added < days; {
		result = result.AddDate(0, 0, 1)
		if IsWorkingDay(result) {
			added++
		}
	}
	return result
}

func IsWorkingDay(day time.Time) bool {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return false
	}
	if Holidays != nil && Holidays.IsHoliday(day) {
		return false
	}
	return true
}
