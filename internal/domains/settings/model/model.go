package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"rentkit/shared/model"
)

const (
	TableName  = "settings"
	EntityName = "settings"

	FieldID = "id"
)

type BankDetail struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

type BankDetails []BankDetail

func (b BankDetails) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BankDetails) Scan(src any) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for bank details", src)
	}

	return json.Unmarshal(data, b)
}

type Term struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Terms []Term

func (t Terms) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Terms) Scan(src any) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for terms", src)
	}

	return json.Unmarshal(data, t)
}

type Settings struct {
	ID              string      `db:"id"`
	CompanyName     string      `db:"company_name"`
	CompanyAddress  string      `db:"company_address"`
	CompanyPhone    string      `db:"company_phone"`
	CompanyEmail    string      `db:"company_email"`
	CompanyTaxID    string      `db:"company_tax_id"`
	QuotationPrefix string      `db:"quotation_prefix"`
	QuotationSuffix string      `db:"quotation_suffix"`
	InvoicePrefix   string      `db:"invoice_prefix"`
	InvoiceSuffix   string      `db:"invoice_suffix"`
	BankDetails     BankDetails `db:"bank_details"`
	Terms           Terms       `db:"terms"`
	model.Metadata
}
