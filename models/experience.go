package models

// Experience represents a bookable travel experience listing.
// The catalog is read-only from the booking engine's point of view.
type Experience struct {
	ID        string   `bson:"id" json:"id"`
	Title     string   `bson:"title" json:"title"`
	UnitPrice float64  `bson:"unit_price" json:"unitPrice"` // price per participant
	MRP       float64  `bson:"mrp" json:"mrp"`              // listed price before markdown
	Rating    float64  `bson:"rating" json:"rating"`
	City      string   `bson:"city" json:"city"`
	State     string   `bson:"state" json:"state"`
	Images    []string `bson:"images" json:"images"`
}

// ProviderAvailability is the weekday pattern on which a provider accepts
// bookings for an experience. An empty weekday set means unrestricted.
type ProviderAvailability struct {
	ExperienceID string   `bson:"experience_id" json:"experienceId"`
	Weekdays     []string `bson:"available_days" json:"availableDays"`
}

// Unrestricted reports whether every weekday is accepted.
func (pa ProviderAvailability) Unrestricted() bool {
	return len(pa.Weekdays) == 0
}
