package booking

import (
	"strings"
	"time"

	"roamly/models"
)

// calendarCells is the fixed grid size: six full weeks starting on Sunday.
const calendarCells = 42

const dateLayout = "2006-01-02"

// weekdaySet normalizes a provider's weekday names into a lookup set.
// Unknown names are ignored.
func weekdaySet(names []string) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(name, wd.String()) {
				set[wd] = true
				break
			}
		}
	}
	return set
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// BuildCalendarMonth turns a provider's weekly availability pattern into the
// 42-cell grid for the given visible month.
//
// Selectability rules:
//   - dates before tomorrow are never selectable (today included);
//   - when availabilityError is set, every cell is unavailable, no exceptions;
//   - otherwise a date is provider-available when the weekday set is empty or
//     contains the date's weekday;
//   - normally only cells of the visible month are selectable; when the actual
//     current month holds no future provider-available date, cells of the
//     month after today become selectable as well.
//
// The function never fails; bad inputs degrade to non-selectable cells.
func BuildCalendarMonth(
	year int,
	month time.Month,
	today time.Time,
	selectedDate string,
	avail models.ProviderAvailability,
	availabilityError bool,
) models.CalendarMonth {
	today = dateOnly(today)
	tomorrow := today.AddDate(0, 0, 1)
	set := weekdaySet(avail.Weekdays)

	providerAvailable := func(d time.Time) bool {
		if availabilityError {
			return false
		}
		if avail.Unrestricted() {
			return true
		}
		return set[d.Weekday()]
	}

	// Cross-month fallback: when the current month has no future
	// provider-available date left, the next month opens up.
	fallbackToNext := false
	if !availabilityError {
		fallbackToNext = true
		for d := tomorrow; sameMonth(d, today); d = d.AddDate(0, 0, 1) {
			if providerAvailable(d) {
				fallbackToNext = false
				break
			}
		}
	}
	nextMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 1, 0)

	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]models.CalendarDay, 0, calendarCells)
	for i := 0; i < calendarCells; i++ {
		d := gridStart.AddDate(0, 0, i)
		dateStr := d.Format(dateLayout)

		inMonth := sameMonth(d, first)
		past := d.Before(tomorrow)
		pAvail := providerAvailable(d)

		eligible := inMonth
		if fallbackToNext && sameMonth(d, nextMonth) {
			eligible = true
		}

		days = append(days, models.CalendarDay{
			Date:                dateStr,
			IsPast:              past,
			IsCurrentMonth:      inMonth,
			IsProviderAvailable: pAvail,
			IsSelectable:        !past && pAvail && eligible,
			IsSelected:          selectedDate != "" && selectedDate == dateStr,
		})
	}

	return models.CalendarMonth{Year: year, Month: month, Days: days}
}
