package dto

import (
	"rentkit/internal/domains/invoice/model"
	"rentkit/shared"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type ItemRequest struct {
	MachineName string `json:"machine_name" validate:"required,max=150"`
	Hours       string `json:"hours"        validate:"omitempty,max=20"`
	Rate        string `json:"rate"         validate:"omitempty,max=20"`
}

type CreateInvoiceRequest struct {
	ClientID        string        `json:"client_id"        validate:"omitempty,uuid"`
	ClientName      string        `json:"client_name"      validate:"required,max=150"`
	ClientPhone     string        `json:"client_phone"     validate:"omitempty,max=30"`
	ClientEmail     string        `json:"client_email"     validate:"omitempty,email,max=150"`
	ClientTaxID     string        `json:"client_tax_id"    validate:"omitempty,max=50"`
	BillingAddress  string        `json:"billing_address"  validate:"omitempty,max=500"`
	ShippingAddress string        `json:"shipping_address" validate:"omitempty,max=500"`
	InvoiceDate     string        `json:"invoice_date"     validate:"omitempty,datetime=2006-01-02"`
	Items           []ItemRequest `json:"items"            validate:"required,min=1,dive"`
	Tax             float64       `json:"tax"              validate:"omitempty,gte=0"`
	Discount        float64       `json:"discount"         validate:"omitempty,gte=0"`
	// Number comes from the next-number preview when the caller wants
	// to pin it; left empty the service derives it.
	Number   string `json:"number"   validate:"omitempty,max=100"`
	Sequence string `json:"sequence" validate:"omitempty,max=20"`
}

// ToModel builds the invoice row. Totals, sequence and number are
// finalized by the service before insert.
func (c *CreateInvoiceRequest) ToModel(user string) model.Invoice {
	var invoiceDate *time.Time

	if c.InvoiceDate != "" {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.InvoiceDate); err == nil {
			invoiceDate = &parsed
		}
	}

	items := make(model.Items, len(c.Items))
	for i, item := range c.Items {
		items[i] = model.Item(item)
	}

	return model.Invoice{
		ID:              uuid.NewString(),
		ClientID:        c.ClientID,
		ClientName:      c.ClientName,
		ClientPhone:     c.ClientPhone,
		ClientEmail:     c.ClientEmail,
		ClientTaxID:     c.ClientTaxID,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		InvoiceDate:     invoiceDate,
		Items:           items,
		Tax:             c.Tax,
		Discount:        c.Discount,
		Payments:        model.Payments{},
		Sequence:        c.Sequence,
		Number:          c.Number,
		Status:          model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateInvoiceRequest struct {
	ClientName      string         `db:"client_name"      json:"client_name"      validate:"omitempty,max=150"`
	ClientPhone     string         `db:"client_phone"     json:"client_phone"     validate:"omitempty,max=30"`
	ClientEmail     string         `db:"client_email"     json:"client_email"     validate:"omitempty,email,max=150"`
	ClientTaxID     string         `db:"client_tax_id"    json:"client_tax_id"    validate:"omitempty,max=50"`
	BillingAddress  string         `db:"billing_address"  json:"billing_address"  validate:"omitempty,max=500"`
	ShippingAddress string         `db:"shipping_address" json:"shipping_address" validate:"omitempty,max=500"`
	InvoiceDate     string         `db:"invoice_date"     json:"invoice_date"     validate:"omitempty,datetime=2006-01-02"`
	Items           *[]ItemRequest `db:"items"            json:"items"            validate:"omitempty,min=1,dive"`
	Tax             *float64       `db:"tax"              json:"tax"              validate:"omitempty,gte=0"`
	Discount        *float64       `db:"discount"         json:"discount"         validate:"omitempty,gte=0"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Success Paid"`
}

type AddPaymentRequest struct {
	Date   string  `json:"date"   validate:"required,datetime=2006-01-02"`
	Method string  `json:"method" validate:"omitempty,max=50"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   string  `json:"note"   validate:"omitempty,max=300"`
}

type InvoiceResponse struct {
	ID              string         `json:"id"`
	ClientID        string         `json:"client_id,omitempty"`
	ClientName      string         `json:"client_name"`
	ClientPhone     string         `json:"client_phone"`
	ClientEmail     string         `json:"client_email"`
	ClientTaxID     string         `json:"client_tax_id"`
	BillingAddress  string         `json:"billing_address"`
	ShippingAddress string         `json:"shipping_address"`
	InvoiceDate     string         `json:"invoice_date,omitempty"`
	Items           model.Items    `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	Discount        float64        `json:"discount"`
	GrandTotal      float64        `json:"grand_total"`
	Payments        model.Payments `json:"payments"`
	AmountPaid      float64        `json:"amount_paid"`
	Balance         float64        `json:"balance"`
	Sequence        string         `json:"sequence"`
	Number          string         `json:"number"`
	Status          string         `json:"status"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(mod model.Invoice) {
	r.ID = mod.ID
	r.ClientID = mod.ClientID
	r.ClientName = mod.ClientName
	r.ClientPhone = mod.ClientPhone
	r.ClientEmail = mod.ClientEmail
	r.ClientTaxID = mod.ClientTaxID
	r.BillingAddress = mod.BillingAddress
	r.ShippingAddress = mod.ShippingAddress
	r.Items = mod.Items
	r.Subtotal = mod.Subtotal
	r.Tax = mod.Tax
	r.Discount = mod.Discount
	r.GrandTotal = mod.GrandTotal
	r.Payments = mod.Payments
	r.AmountPaid = mod.Payments.AmountPaid()
	r.Balance = mod.GrandTotal - r.AmountPaid
	r.Sequence = mod.Sequence
	r.Number = mod.Number
	r.Status = mod.Status

	if mod.InvoiceDate != nil {
		r.InvoiceDate = mod.InvoiceDate.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type NextNumberResponse struct {
	Sequence string `json:"sequence"`
	Number   string `json:"number"`
}

type GetInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetInvoicesResponse) FromModels(models []model.Invoice, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invoices = make([]InvoiceResponse, len(models))
	for i, mod := range models {
		r.Invoices[i].FromModel(mod)
	}
}
