package model

import (
	"rentkit/shared/model"
)

const (
	TableName  = "clients"
	EntityName = "client"

	FieldID    = "id"
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

type Client struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Phone           string `db:"phone"`
	Email           string `db:"email"`
	BillingAddress  string `db:"billing_address"`
	ShippingAddress string `db:"shipping_address"`
	TaxID           string `db:"tax_id"`
	model.Metadata
}
