package models

// PlaceVariant tags which of the four catalog entities a Place represents.
// Components dispatch on this tag rather than on ad-hoc string matching.
type PlaceVariant string

const (
	VariantHotel      PlaceVariant = "hotel"
	VariantRestaurant PlaceVariant = "restaurant"
	VariantActivity   PlaceVariant = "activity"
	VariantTransport  PlaceVariant = "transport"
)

// HotelDetails carries fields specific to the Hotel variant.
type HotelDetails struct {
	PricePerNight float64 `json:"price_per_night"`
}

// RestaurantDetails carries fields specific to the Restaurant variant.
type RestaurantDetails struct {
	PriceAvg    float64 `json:"price_avg"`
	CuisineType string  `json:"cuisine_type"`
}

// ActivityDetails carries fields specific to the Activity variant.
type ActivityDetails struct {
	Price      float64 `json:"price"`
	DurationHr float64 `json:"duration_hr"`
	Type       string  `json:"type"`
}

// TransportDetails carries fields specific to the Transport variant. ModeTag
// is the catalog mode tag (glossary: "catalog mode tag"), accepted as-is
// after lookup.
type TransportDetails struct {
	AvgPricePerKm float64 `json:"avg_price_per_km"`
	MinPrice      float64 `json:"min_price"`
	MaxCapacity   int     `json:"max_capacity"`
	ModeTag       string  `json:"mode_tag"`
}

// Place is a polymorphic catalog entity, tagged by Variant. Exactly one of
// Hotel, Restaurant, Activity, Transport is non-nil, matching Variant.
type Place struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	CityID      int          `json:"city_id" db:"city_id"`
	Rating      float64      `json:"rating" db:"rating"`
	Lat         *float64     `json:"lat,omitempty" db:"lat"`
	Lon         *float64     `json:"lon,omitempty" db:"lon"`
	Description string       `json:"description,omitempty" db:"description"`
	Variant     PlaceVariant `json:"variant" db:"variant"`

	Hotel      *HotelDetails      `json:"hotel,omitempty"`
	Restaurant *RestaurantDetails `json:"restaurant,omitempty"`
	Activity   *ActivityDetails   `json:"activity,omitempty"`
	Transport  *TransportDetails  `json:"transport,omitempty"`
}

// NewHotelPlace constructs a Place of the Hotel variant.
func NewHotelPlace(id, name string, cityID int, rating float64, lat, lon *float64, pricePerNight float64, description string) *Place {
	return &Place{
		ID: id, Name: name, CityID: cityID, Rating: rating, Lat: lat, Lon: lon,
		Description: description,
		Variant:     VariantHotel,
		Hotel:       &HotelDetails{PricePerNight: pricePerNight},
	}
}

// NewRestaurantPlace constructs a Place of the Restaurant variant.
func NewRestaurantPlace(id, name string, cityID int, rating float64, lat, lon *float64, priceAvg float64, cuisineType, description string) *Place {
	return &Place{
		ID: id, Name: name, CityID: cityID, Rating: rating, Lat: lat, Lon: lon,
		Description: description,
		Variant:     VariantRestaurant,
		Restaurant:  &RestaurantDetails{PriceAvg: priceAvg, CuisineType: cuisineType},
	}
}

// NewActivityPlace constructs a Place of the Activity variant.
func NewActivityPlace(id, name string, cityID int, rating float64, lat, lon *float64, price, durationHr float64, activityType, description string) *Place {
	return &Place{
		ID: id, Name: name, CityID: cityID, Rating: rating, Lat: lat, Lon: lon,
		Description: description,
		Variant:     VariantActivity,
		Activity:    &ActivityDetails{Price: price, DurationHr: durationHr, Type: activityType},
	}
}

// NewTransportPlace constructs a Place of the Transport variant.
func NewTransportPlace(id, name string, cityID int, rating float64, lat, lon *float64, avgPricePerKm, minPrice float64, maxCapacity int, modeTag, description string) *Place {
	return &Place{
		ID: id, Name: name, CityID: cityID, Rating: rating, Lat: lat, Lon: lon,
		Description: description,
		Variant:     VariantTransport,
		Transport:   &TransportDetails{AvgPricePerKm: avgPricePerKm, MinPrice: minPrice, MaxCapacity: maxCapacity, ModeTag: modeTag},
	}
}

// HasCoords reports whether both latitude and longitude are known.
func (p *Place) HasCoords() bool {
	return p.Lat != nil && p.Lon != nil
}

// NominalPrice returns the representative per-unit price for the place's
// variant, dispatching on the tag. Used by the Candidate Selector for
// budget bookkeeping; transports have no single "price" so callers compute
// their own per-trip cost from AvgPricePerKm/MinPrice instead.
func (p *Place) NominalPrice() float64 {
	switch p.Variant {
	case VariantHotel:
		if p.Hotel != nil {
			return p.Hotel.PricePerNight
		}
	case VariantRestaurant:
		if p.Restaurant != nil {
			return p.Restaurant.PriceAvg
		}
	case VariantActivity:
		if p.Activity != nil {
			return p.Activity.Price
		}
	}
	return 0
}
