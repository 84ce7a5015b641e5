package model

import (
	"rentkit/shared/model"
	"time"
)

const (
	TableName  = "machines"
	EntityName = "machine"

	FieldID            = "id"
	FieldModel         = "model"
	FieldManufacturer  = "manufacturer"
	FieldVehicleNumber = "vehicle_number"
	FieldUsageHours    = "usage_hours"
	FieldRentalRate    = "rental_rate"
	FieldServiceLimit  = "service_limit_hours"
	FieldLastService   = "last_service_date"
	FieldCreatedBy     = "created_by"
)

type Machine struct {
	ID            string     `db:"id"`
	Model         string     `db:"model"`
	Manufacturer  string     `db:"manufacturer"`
	VehicleNumber string     `db:"vehicle_number"`
	UsageHours    float64    `db:"usage_hours"`
	RentalRate    float64    `db:"rental_rate"`
	ServiceLimit  float64    `db:"service_limit_hours"`
	LastService   *time.Time `db:"last_service_date"`
	model.Metadata
}
