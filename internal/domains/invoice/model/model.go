package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"rentkit/shared/model"
	"time"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID       = "id"
	FieldNumber   = "number"
	FieldStatus   = "status"
	FieldPayments = "payments"

	StatusPending = "Pending"
	StatusSuccess = "Success"
	StatusPaid    = "Paid"
)

// Paid is terminal; Pending and Success move freely between each
// other and into Paid.
var allowedTransitions = map[string][]string{
	StatusPending: {StatusSuccess, StatusPaid},
	StatusSuccess: {StatusPending, StatusPaid},
	StatusPaid:    {},
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
		return fmt.Errorf("unsupported scan type %T for invoice items", src)
	}

	return json.Unmarshal(data, i)
}

type Payment struct {
	Date   string  `json:"date"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

type Payments []Payment

func (p Payments) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payments) Scan(src any) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for payments", src)
	}

	return json.Unmarshal(data, p)
}

// AmountPaid sums the recorded payments. Balance may go negative when
// payments exceed the grand total; overpayment is accepted as-is.
func (p Payments) AmountPaid() float64 {
	var total float64
	for _, payment := range p {
		total += payment.Amount
	}

	return total
}

type Invoice struct {
	ID              string     `db:"id"`
	ClientID        string     `db:"client_id"`
	ClientName      string     `db:"client_name"`
	ClientPhone     string     `db:"client_phone"`
	ClientEmail     string     `db:"client_email"`
	ClientTaxID     string     `db:"client_tax_id"`
	BillingAddress  string     `db:"billing_address"`
	ShippingAddress string     `db:"shipping_address"`
	InvoiceDate     *time.Time `db:"invoice_date"`
	Items           Items      `db:"items"`
	Subtotal        float64    `db:"subtotal"`
	Tax             float64    `db:"tax"`
	Discount        float64    `db:"discount"`
	GrandTotal      float64    `db:"grand_total"`
	Payments        Payments   `db:"payments"`
	Sequence        string     `db:"sequence"`
	Number          string     `db:"number"`
	Status          string     `db:"status"`
	model.Metadata
}
