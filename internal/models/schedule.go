package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScheduleStatusActive    = "active"
	ScheduleStatusCancelled = "cancelled"
	ScheduleStatusCompleted = "completed"
)

// DaysOfWeek enumerates the valid weekday labels of a recurring schedule.
var DaysOfWeek = []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"}

// Schedule binds a route to a recurring departure: specific times, weekdays,
// an optional vehicle and a seat count.
type Schedule struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RouteID        primitive.ObjectID `bson:"routeId" json:"routeId"`
	CompanyID      primitive.ObjectID `bson:"companyId" json:"companyId"`
	DepartureTime  string             `bson:"departureTime" json:"departureTime"` // "HH:MM"
	ArrivalTime    string             `bson:"arrivalTime" json:"arrivalTime"`     // "HH:MM"
	DaysOfWeek     []string           `bson:"daysOfWeek" json:"daysOfWeek"`
	VehicleID      primitive.ObjectID `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	AvailableSeats int                `bson:"availableSeats" json:"availableSeats"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidDay(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// ValidDays reports whether every entry is a known weekday label and the
// list is non-empty.
func ValidDays(days []string) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if !ValidDay(d) {
			return false
		}
	}
	return true
}

func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleStatusActive, ScheduleStatusCancelled, ScheduleStatusCompleted:
		return true
	}
	return false
}
