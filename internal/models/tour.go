package models

// TourRequest is the input to the planning engine. Pointer fields are
// optional inputs that the Similarity Engine may need to impute before
// candidate selection — nil, not a sentinel zero, marks "absent".
type TourRequest struct {
	UserID            string
	DestinationCityID int
	StartCityID       *int
	GuestCount        *int
	DurationDays      *int
	TargetBudget      *float64

	HotelIDs      []string
	ActivityIDs   []string
	RestaurantIDs []string
	TransportIDs  []string

	RawPreferences RawPreferences
}

// HistoricalTourOption is a previously planned tour returned by the
// Catalog Gateway's tour_options_for_destination operation, used by the
// Similarity Engine for neighbor scoring and imputation.
type HistoricalTourOption struct {
	UserID             string
	DestinationCityID  int
	GuestCount         int
	DurationDays       int
	TargetBudget       float64
	Rating             float64
	HotelIDs           []string
	ActivityIDs        []string
	RestaurantIDs      []string
	TransportIDs       []string
}

// ScheduleItemType enumerates the kinds of schedule atoms.
type ScheduleItemType string

const (
	ItemActivity ScheduleItemType = "activity"
	ItemMeal     ScheduleItemType = "meal"
	ItemHotel    ScheduleItemType = "hotel"
	ItemTransfer ScheduleItemType = "transfer"
)

// ScheduleItem is a time-slotted atom of a day's schedule. StartTime and
// EndTime are 24-hour "HH:MM" strings (see glossary and §3 invariants).
type ScheduleItem struct {
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	Type           ScheduleItemType `json:"type"`
	PlaceID        string           `json:"place_id,omitempty"`
	PlaceName      string           `json:"place_name"`
	Description    string           `json:"description,omitempty"`
	TransportMode  string           `json:"transport_mode,omitempty"`
	DistanceKm     *float64         `json:"distance_km,omitempty"`
	TravelTimeMin  *float64         `json:"travel_time_min,omitempty"`
	Cost           float64          `json:"cost"`
}

// DaySchedule is one day's ordered sequence of ScheduleItems.
type DaySchedule struct {
	Day        int            `json:"day"`
	Activities []ScheduleItem `json:"activities"`
}

// CostBreakdown reports total spend by category.
type CostBreakdown struct {
	Hotels            float64 `json:"hotels"`
	Activities        float64 `json:"activities"`
	Meals             float64 `json:"meals"`
	TransportEstimate float64 `json:"transport_estimate"`
}

// Tour is the engine's final output for one planning call.
type Tour struct {
	TourID             string        `json:"tour_id"`
	UserID             string        `json:"user_id"`
	StartCity          string        `json:"start_city"`
	DestinationCity    string        `json:"destination_city"`
	DurationDays       int           `json:"duration_days"`
	GuestCount         int           `json:"guest_count"`
	Budget             float64       `json:"budget"`
	TotalEstimatedCost float64       `json:"total_estimated_cost"`
	WithinBudget       bool          `json:"within_budget"`
	CostBreakdown      CostBreakdown `json:"cost_breakdown"`
	Days               []DaySchedule `json:"schedule"`

	// CostPerPerson and BudgetUtilizedPct are derived reporting fields
	// (SPEC_FULL §12.3), not stored invariants of the Tour itself.
	CostPerPerson     float64 `json:"cost_per_person"`
	BudgetUtilizedPct float64 `json:"budget_utilized_pct"`

	// Error carries a non-fatal note when the schedule came from a
	// fallback draft (oracle timeout, non-2xx, or malformed text, or a
	// non-fatal preference-resolution or candidate-pool failure).
	Error string `json:"error,omitempty"`
}
