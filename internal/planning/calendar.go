package planning

import "time"

// WeeksPerYear is the fixed width of the planning grid. The model never emits
// a 53rd partial week: week i starts exactly 7*i days after January 1st.
const WeeksPerYear = 52

// WeekStarts returns the ordered calendar dates that open each of the 52
// planning weeks of the year. Dates are at midnight UTC.
func WeekStarts(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	weeks := make([]time.Time, WeeksPerYear)
	for i := range weeks {
		weeks[i] = start.AddDate(0, 0, i*7)
	}
	return weeks
}

// WeekIndexOf maps a date to the week index whose start date equals it
// exactly (day precision). It reports false for dates between week starts,
// outside the year, or past week 51.
func WeekIndexOf(year int, date time.Time) (int, bool) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	days := int(day.Sub(start).Hours() / 24)
	if days < 0 || days%7 != 0 {
		return 0, false
	}
	idx := days / 7
	if idx >= WeeksPerYear {
		return 0, false
	}
	return idx, true
}
