package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"rentkit/shared/model"
	"time"
)

const (
	TableName  = "quotations"
	EntityName = "quotation"

	FieldID     = "id"
	FieldNumber = "number"
	FieldStatus = "status"

	StatusPending   = "Pending"
	StatusConverted = "Converted"
	StatusCancelled = "Cancelled"
)

// allowedTransitions holds the reachable statuses per current status.
// Converted is only ever set by rental creation; it is not reachable
// through the status endpoint.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusCancelled},
	StatusConverted: {},
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

type Item struct {
	MachineName string `json:"machine_name"`
	Hours       string `json:"hours"`
	Rate        string `json:"rate"`
}

type Items []Item

func (i Items) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *Items) Scan(src any) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for quotation items", src)
	}

	return json.Unmarshal(data, i)
}

type Quotation struct {
	ID          string     `db:"id"`
	ClientID    string     `db:"client_id"`
	ClientName  string     `db:"client_name"`
	ClientPhone string     `db:"client_phone"`
	ClientEmail string     `db:"client_email"`
	ClientTaxID string     `db:"client_tax_id"`
	Site        string     `db:"site"`
	RentalDate  *time.Time `db:"rental_date"`
	Items       Items      `db:"items"`
	Total       float64    `db:"total"`
	Sequence    string     `db:"sequence"`
	Number      string     `db:"number"`
	Status      string     `db:"status"`
	model.Metadata
}
