package contracts

import "time"

// Window is a half-open reporting interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthKey formats the window's starting month as YYYY-MM.
func (w Window) MonthKey() string {
	return w.Start.Format("2006-01")
}

// CurrentMonthWindow returns the calendar month containing now in loc.
func CurrentMonthWindow(now time.Time, loc *time.Location) Window {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// MonthWindow returns the calendar month containing t in loc.
func MonthWindow(t time.Time, loc *time.Location) Window {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// TrailingMonths returns the n calendar months ending with the month that
// contains anchor, oldest first.
func TrailingMonths(anchor time.Time, n int, loc *time.Location) []Window {
	if n <= 0 {
		return nil
	}
	windows := make([]Window, 0, n)
	current := MonthWindow(anchor, loc)
	for i := n - 1; i >= 0; i-- {
		start := current.Start.AddDate(0, -i, 0)
		windows = append(windows, Window{Start: start, End: start.AddDate(0, 1, 0)})
	}
	return windows
}
