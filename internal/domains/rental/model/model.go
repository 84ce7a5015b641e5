package model

import (
	"rentkit/shared/model"
	"time"
)

const (
	TableName  = "rentals"
	EntityName = "rental"

	FieldID     = "id"
	FieldStatus = "status"

	StatusPending   = "Pending"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

var allowedTransitions = map[string][]string{
	StatusPending:   {StatusOngoing, StatusCancelled},
	StatusOngoing:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Rental struct {
	ID          string     `db:"id"`
	ClientID    string     `db:"client_id"`
	MachineID   string     `db:"machine_id"`
	DriverID    string     `db:"driver_id"`
	QuotationID *string    `db:"quotation_id"`
	StartDate   *time.Time `db:"start_date"`
	StartTime   string     `db:"start_time"`
	Hours       float64    `db:"hours"`
	Fuel        string     `db:"fuel"`
	Site        string     `db:"site"`
	Status      string     `db:"status"`
	model.Metadata
}
