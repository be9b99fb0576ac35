package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RouteTypeStandard = "standard"
	RouteTypeVIP      = "vip"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// RouteFeatures carries the onboard feature flags of a scheduled trip.
type RouteFeatures struct {
	Wifi            bool `bson:"wifi" json:"wifi"`
	AirConditioning bool `bson:"airConditioning" json:"airConditioning"`
	Snack           bool `bson:"snack" json:"snack"`
	Toilet          bool `bson:"toilet" json:"toilet"`
}

// Route is a single scheduled trip offering between two cities by one company.
type Route struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	DepartureCity    string             `bson:"departureCity" json:"departureCity"`
	ArrivalCity      string             `bson:"arrivalCity" json:"arrivalCity"`
	DepartureStation string             `bson:"departureStation" json:"departureStation"`
	ArrivalStation   string             `bson:"arrivalStation" json:"arrivalStation"`
	Price            int                `bson:"price" json:"price"` // FCFA
	RouteType        string             `bson:"routeType" json:"routeType"`
	DepartureTime    string             `bson:"departureTime" json:"departureTime"` // "HH:MM"
	CompanyID        primitive.ObjectID `bson:"companyId" json:"companyId"`
	Status           string             `bson:"status" json:"status"`
	Distance         float64            `bson:"distance" json:"distance"` // legacy, defaults to 0
	Duration         float64            `bson:"duration" json:"duration"` // legacy, defaults to 0
	Features         RouteFeatures      `bson:"features" json:"features"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VIPFeatures returns the feature set force-applied to VIP routes,
// regardless of what the client submitted.
func VIPFeatures() RouteFeatures {
	return RouteFeatures{Wifi: true, AirConditioning: true, Snack: true, Toilet: true}
}

// Amenities converts feature flags into the amenity labels used by the
// comparison view.
func (f RouteFeatures) Amenities() []string {
	amenities := []string{}
	if f.Wifi {
		amenities = append(amenities, "wifi")
	}
	if f.AirConditioning {
		amenities = append(amenities, "ac")
	}
	if f.Snack {
		amenities = append(amenities, "snack")
	}
	if f.Toilet {
		amenities = append(amenities, "toilet")
	}
	return amenities
}

// RouteKey derives the lowercase "<departure>-<arrival>" key that groups
// comparison documents for a city pair. Input case is irrelevant.
func RouteKey(departureCity, arrivalCity string) string {
	return strings.ToLower(strings.TrimSpace(departureCity)) + "-" + strings.ToLower(strings.TrimSpace(arrivalCity))
}

func ValidRouteType(t string) bool {
	return t == RouteTypeStandard || t == RouteTypeVIP
}
