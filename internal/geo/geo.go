// Package geo implements the deterministic cost/time layer (the Geo Kernel).
// Every function here is pure: no I/O, no shared state. The LLM's own
// distance or time guesses never override what this package computes (see
// SPEC_FULL §9 design notes).
package geo

import "math"

// EarthRadiusKm is the radius used for haversine distance.
const EarthRadiusKm = 6371.0

// baseSpeedKmh holds the uncongested speed, by canonical transport mode.
var baseSpeedKmh = map[string]float64{
	"walk":    4,
	"bike":    12,
	"scooter": 25,
	"taxi":    30,
	"bus":     25,
	"metro":   35,
	"car":     30,
}

var motorizedModes = map[string]struct{}{
	"scooter": {},
	"taxi":    {},
	"car":     {},
}

// rushHours are local hours (24h clock) during which motorized modes slow
// to 0.8x their base speed.
var rushHours = map[int]struct{}{
	7: {}, 8: {}, 17: {}, 18: {}, 19: {},
}

// perKmCost holds metered per-kilometer rates for modes billed that way.
var perKmCost = map[string]float64{
	"scooter": 0.5,
	"taxi":    1.2,
	"bus":     0.3,
	"metro":   0.4,
	"car":     1.0,
}

// defaultDistanceKm gives a mode-based fallback distance (C7 Step C) when
// one or both endpoint coordinates are missing.
var defaultDistanceKm = map[string]float64{
	"walk":    1,
	"bike":    3,
	"scooter": 5,
	"taxi":    5,
	"bus":     8,
	"metro":   8,
}

// normalizeMode maps an unknown mode to the taxi profile, per §4.2.
func normalizeMode(mode string) string {
	if _, ok := baseSpeedKmh[mode]; ok {
		return mode
	}
	return "taxi"
}

// Haversine returns the great-circle distance in kilometers between two
// lat/lon points. Non-negative, zero iff the points coincide, bounded by
// π·EarthRadiusKm (§8 property 10).
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// TravelTimeMin returns the travel time in minutes for covering distanceKm
// by mode, honoring the rush-hour speed penalty and the fixed buffer.
// Always returns at least 5 minutes (§4.2).
func TravelTimeMin(distanceKm float64, mode string, rushHour bool) float64 {
	mode = normalizeMode(mode)
	speed := baseSpeedKmh[mode]

	_, motorized := motorizedModes[mode]
	if rushHour && motorized {
		speed *= 0.8
	}

	minutes := distanceKm / speed * 60

	buffer := 10.0
	if motorized {
		buffer += 5
	}
	if distanceKm > 20 {
		buffer += 10
	}
	minutes += buffer

	minutes = math.Ceil(minutes)
	if minutes < 5 {
		minutes = 5
	}
	return minutes
}

// IsRushHour reports whether the given local hour (0-23) falls in a rush
// window.
func IsRushHour(hour int) bool {
	_, ok := rushHours[hour]
	return ok
}

// TransportCost returns the USD cost of covering distanceKm by mode. Walk
// is free, bike is a flat $2, other modes are metered per-km with a $1
// floor, rounded to 1 decimal (§4.2).
func TransportCost(distanceKm float64, mode string) float64 {
	mode = normalizeMode(mode)

	switch mode {
	case "walk":
		return 0
	case "bike":
		return 2
	}

	rate, ok := perKmCost[mode]
	if !ok {
		rate = perKmCost["taxi"]
	}

	cost := distanceKm * rate
	if cost < 1 {
		cost = 1
	}
	return math.Round(cost*10) / 10
}

// DefaultDistanceKm returns the mode-based fallback distance used by C7
// Step C.3 when endpoint coordinates are unavailable.
func DefaultDistanceKm(mode string) float64 {
	if d, ok := defaultDistanceKm[mode]; ok {
		return d
	}
	return defaultDistanceKm["taxi"]
}
