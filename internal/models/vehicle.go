package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VehicleTypeBus     = "bus"
	VehicleTypeMinicar = "minicar"
	VehicleTypeVan     = "van"
	VehicleTypeOther   = "other"

	VehicleStatusActive      = "active"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusInactive    = "inactive"

	// Registration year bounds accepted for a vehicle.
	MinVehicleYear = 1990
	MaxVehicleYear = 2024
)

// Vehicle is a physical asset owned by one company. Plate numbers are unique
// across the whole marketplace.
type Vehicle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlateNumber string             `bson:"plateNumber" json:"plateNumber"`
	Brand       string             `bson:"brand" json:"brand"`
	Model       string             `bson:"model" json:"model"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	VehicleType string             `bson:"vehicleType" json:"vehicleType"`
	Year        int                `bson:"year,omitempty" json:"year,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	CompanyID   primitive.ObjectID `bson:"companyId" json:"companyId"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizePlate uppercases and trims a plate number before storage so the
// unique index compares like with like.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeBus, VehicleTypeMinicar, VehicleTypeVan, VehicleTypeOther:
		return true
	}
	return false
}

func ValidVehicleStatus(s string) bool {
	switch s {
	case VehicleStatusActive, VehicleStatusMaintenance, VehicleStatusInactive:
		return true
	}
	return false
}
