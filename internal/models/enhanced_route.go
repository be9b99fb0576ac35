package models

import (
	"hash/fnv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BusTypeEconomy = "economy"
	BusTypeComfort = "comfort"
	BusTypeVIP     = "vip"
	BusTypePremium = "premium"

	// DefaultEstimatedDuration stands in when no duration is known for a trip.
	DefaultEstimatedDuration = "5-6 heures"

	defaultRating = 4.5
)

// DepartureStation groups the departure times offered from one station.
type DepartureStation struct {
	Name           string   `bson:"name" json:"name"`
	DepartureTimes []string `bson:"departureTimes" json:"departureTimes"`
}

// PriceRange bounds the fares of a city pair offering, in FCFA.
type PriceRange struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

// EnhancedRoute is the denormalized, comparison-optimized projection of the
// routes one company operates on a city pair. It is keyed by RouteKey and is
// maintained best-effort from the normalized Route records.
type EnhancedRoute struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RouteKey          string             `bson:"routeKey" json:"routeKey"`
	DepartureCity     string             `bson:"departureCity" json:"departureCity"`
	ArrivalCity       string             `bson:"arrivalCity" json:"arrivalCity"`
	CompanyID         primitive.ObjectID `bson:"companyId" json:"companyId"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	DepartureStations []DepartureStation `bson:"departureStations" json:"departureStations"`
	PriceRange        PriceRange         `bson:"priceRange" json:"priceRange"`
	EstimatedDuration string             `bson:"estimatedDuration" json:"estimatedDuration"`
	BusType           string             `bson:"busType" json:"busType"`
	Amenities         []string           `bson:"amenities" json:"amenities"`
	ContactPhone      string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	WhatsappNumber    string             `bson:"whatsappNumber,omitempty" json:"whatsappNumber,omitempty"`
	CanBookOnline     bool               `bson:"canBookOnline" json:"canBookOnline"`
	BookingURL        string             `bson:"bookingUrl,omitempty" json:"bookingUrl,omitempty"`
	Rating            float64            `bson:"rating" json:"rating"`
	ReviewCount       int                `bson:"reviewCount" json:"reviewCount"`
	Status            string             `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidBusType(t string) bool {
	switch t {
	case BusTypeEconomy, BusTypeComfort, BusTypeVIP, BusTypePremium:
		return true
	}
	return false
}

// BusTypeForRoute maps a normalized route type onto the comparison bus type.
func BusTypeForRoute(routeType string) string {
	if routeType == RouteTypeVIP {
		return BusTypeVIP
	}
	return BusTypeComfort
}

// ProjectionFromRoute builds the comparison projection of a freshly created
// route. The projection worker merges it into any existing document for the
// same company and city pair.
func ProjectionFromRoute(r Route, companyName string) EnhancedRoute {
	return EnhancedRoute{
		RouteKey:      RouteKey(r.DepartureCity, r.ArrivalCity),
		DepartureCity: r.DepartureCity,
		ArrivalCity:   r.ArrivalCity,
		CompanyID:     r.CompanyID,
		CompanyName:   companyName,
		DepartureStations: []DepartureStation{
			{Name: r.DepartureStation, DepartureTimes: []string{r.DepartureTime}},
		},
		PriceRange:        PriceRange{Min: r.Price, Max: r.Price},
		EstimatedDuration: DefaultEstimatedDuration,
		BusType:           BusTypeForRoute(r.RouteType),
		Amenities:         r.Features.Amenities(),
		Rating:            defaultRating,
		Status:            StatusActive,
	}
}

// MergeProjection folds a new per-route projection into the existing document
// for the same routeKey and company: the price range widens and the departure
// times join under their station.
func MergeProjection(existing, incoming EnhancedRoute) EnhancedRoute {
	if incoming.PriceRange.Min < existing.PriceRange.Min || existing.PriceRange.Min == 0 {
		existing.PriceRange.Min = incoming.PriceRange.Min
	}
	if incoming.PriceRange.Max > existing.PriceRange.Max {
		existing.PriceRange.Max = incoming.PriceRange.Max
	}
	for _, station := range incoming.DepartureStations {
		existing.DepartureStations = mergeStation(existing.DepartureStations, station)
	}
	existing.Amenities = mergeAmenities(existing.Amenities, incoming.Amenities)
	if existing.BusType != BusTypeVIP && incoming.BusType == BusTypeVIP {
		existing.BusType = BusTypeVIP
	}
	return existing
}

func mergeStation(stations []DepartureStation, incoming DepartureStation) []DepartureStation {
	for i, s := range stations {
		if s.Name != incoming.Name {
			continue
		}
		for _, t := range incoming.DepartureTimes {
			if !containsString(s.DepartureTimes, t) {
				stations[i].DepartureTimes = append(stations[i].DepartureTimes, t)
			}
		}
		return stations
	}
	return append(stations, incoming)
}

func mergeAmenities(existing, incoming []string) []string {
	for _, a := range incoming {
		if !containsString(existing, a) {
			existing = append(existing, a)
		}
	}
	return existing
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ComparisonFromRoute maps a normalized route into the unified comparison
// view-model when no projection document exists for the city pair. Missing
// optional fields get display-only placeholders; the rating and review count
// are derived from a stable hash so repeated requests render the same card.
func ComparisonFromRoute(r Route) EnhancedRoute {
	key := RouteKey(r.DepartureCity, r.ArrivalCity)
	seed := placeholderSeed(key + r.CompanyID.Hex())
	return EnhancedRoute{
		ID:            r.ID,
		RouteKey:      key,
		DepartureCity: r.DepartureCity,
		ArrivalCity:   r.ArrivalCity,
		CompanyID:     r.CompanyID,
		DepartureStations: []DepartureStation{
			{Name: r.DepartureStation, DepartureTimes: []string{r.DepartureTime}},
		},
		PriceRange:        PriceRange{Min: r.Price, Max: r.Price + 1000},
		EstimatedDuration: DefaultEstimatedDuration,
		BusType:           BusTypeForRoute(r.RouteType),
		Amenities:         r.Features.Amenities(),
		Rating:            4.0 + float64(seed%10)/10.0,
		ReviewCount:       10 + int(seed%50),
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func placeholderSeed(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
