package entity

import (
	"sort"
	"time"
)

// TimeWindow is a bounded start-end interval during which a professional can
// meet a client. End is exclusive.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps checks the open-interval overlap (StartA < EndB) && (EndA > StartB)
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// ExpandInterval materializes the bookable slots a template interval yields
// on a concrete date. Slots are SlotMinutes long; a trailing remainder
// shorter than one slot is dropped. Malformed interval times yield nothing.
func ExpandInterval(date time.Time, iv TemplateInterval) []TimeWindow {
	start, err := combineDateTime(date, iv.StartTime)
	if err != nil {
		return nil
	}
	end, err := combineDateTime(date, iv.EndTime)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return nil
	}

	slotLen := time.Duration(iv.SlotMinutes) * time.Minute
	if slotLen <= 0 {
		slotLen = 30 * time.Minute
	}

	var windows []TimeWindow
	for cur := start; !cur.Add(slotLen).After(end); cur = cur.Add(slotLen) {
		windows = append(windows, TimeWindow{Start: cur, End: cur.Add(slotLen)})
	}
	return windows
}

// FilterBusy removes windows that overlap any busy window
func FilterBusy(windows, busy []TimeWindow) []TimeWindow {
	if len(busy) == 0 {
		return windows
	}
	result := windows[:0:0]
	for _, w := range windows {
		blocked := false
		for _, b := range busy {
			if w.Overlaps(b) {
				blocked = true
				break
			}
		}
		if !blocked {
			result = append(result, w)
		}
	}
	return result
}

// SortWindows orders windows chronologically in place
func SortWindows(windows []TimeWindow) {
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
}

// combineDateTime anchors an HH:MM clock time on a calendar date
func combineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
