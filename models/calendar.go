package models

import "time"

// CalendarDay is one cell of the booking calendar grid. Cells are recomputed
// per request and never persisted.
type CalendarDay struct {
	Date                string `json:"date"` // "2006-01-02"
	IsPast              bool   `json:"isPast"`
	IsCurrentMonth      bool   `json:"isCurrentMonth"`
	IsProviderAvailable bool   `json:"isProviderAvailable"`
	IsSelectable        bool   `json:"isSelectable"`
	IsSelected          bool   `json:"isSelected"`
}

// CalendarMonth is a 6-week, Sunday-first grid spanning the visible month
// plus its bordering days.
type CalendarMonth struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []CalendarDay `json:"days"`
}
