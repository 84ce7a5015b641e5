package dto

import (
	"rentkit/internal/domains/quotation/model"
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

type CreateQuotationRequest struct {
	ClientID    string        `json:"client_id"     validate:"omitempty,uuid"`
	ClientName  string        `json:"client_name"   validate:"required,max=150"`
	ClientPhone string        `json:"client_phone"  validate:"omitempty,max=30"`
	ClientEmail string        `json:"client_email"  validate:"omitempty,email,max=150"`
	ClientTaxID string        `json:"client_tax_id" validate:"omitempty,max=50"`
	Site        string        `json:"site"          validate:"omitempty,max=300"`
	RentalDate  string        `json:"rental_date"   validate:"omitempty,datetime=2006-01-02"`
	Items       []ItemRequest `json:"items"         validate:"required,min=1,dive"`
	// Number comes from the next-number preview when the caller wants
	// to pin it; left empty, the service derives the next one. The
	// submitted value is stored verbatim.
	Number   string `json:"number"   validate:"omitempty,max=100"`
	Sequence string `json:"sequence" validate:"omitempty,max=20"`
}

// ToModel builds the quotation row. Total is computed by the service
// before insert; sequence and number are derived there too when the
// request leaves them empty.
func (c *CreateQuotationRequest) ToModel(user string) model.Quotation {
	var rentalDate *time.Time

	if c.RentalDate != "" {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.RentalDate); err == nil {
			rentalDate = &parsed
		}
	}

	items := make(model.Items, len(c.Items))
	for i, item := range c.Items {
		items[i] = model.Item(item)
	}

	return model.Quotation{
		ID:          uuid.NewString(),
		ClientID:    c.ClientID,
		ClientName:  c.ClientName,
		ClientPhone: c.ClientPhone,
		ClientEmail: c.ClientEmail,
		ClientTaxID: c.ClientTaxID,
		Site:        c.Site,
		RentalDate:  rentalDate,
		Items:       items,
		Sequence:    c.Sequence,
		Number:      c.Number,
		Status:      model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateQuotationRequest struct {
	ClientName  string         `db:"client_name"   json:"client_name"   validate:"omitempty,max=150"`
	ClientPhone string         `db:"client_phone"  json:"client_phone"  validate:"omitempty,max=30"`
	ClientEmail string         `db:"client_email"  json:"client_email"  validate:"omitempty,email,max=150"`
	ClientTaxID string         `db:"client_tax_id" json:"client_tax_id" validate:"omitempty,max=50"`
	Site        string         `db:"site"          json:"site"          validate:"omitempty,max=300"`
	RentalDate  string         `db:"rental_date"   json:"rental_date"   validate:"omitempty,datetime=2006-01-02"`
	Items       *[]ItemRequest `db:"items"         json:"items"         validate:"omitempty,min=1,dive"`
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Converted Cancelled"`
}

type QuotationResponse struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"client_id,omitempty"`
	ClientName  string      `json:"client_name"`
	ClientPhone string      `json:"client_phone"`
	ClientEmail string      `json:"client_email"`
	ClientTaxID string      `json:"client_tax_id"`
	Site        string      `json:"site"`
	RentalDate  string      `json:"rental_date,omitempty"`
	Items       model.Items `json:"items"`
	Total       float64     `json:"total"`
	Sequence    string      `json:"sequence"`
	Number      string      `json:"number"`
	Status      string      `json:"status"`
	gDto.Metadata
}

func (r *QuotationResponse) FromModel(mod model.Quotation) {
	r.ID = mod.ID
	r.ClientID = mod.ClientID
	r.ClientName = mod.ClientName
	r.ClientPhone = mod.ClientPhone
	r.ClientEmail = mod.ClientEmail
	r.ClientTaxID = mod.ClientTaxID
	r.Site = mod.Site
	r.Items = mod.Items
	r.Total = mod.Total
	r.Sequence = mod.Sequence
	r.Number = mod.Number
	r.Status = mod.Status

	if mod.RentalDate != nil {
		r.RentalDate = mod.RentalDate.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type NextNumberResponse struct {
	Sequence string `json:"sequence"`
	Number   string `json:"number"`
}

type GetQuotationsResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetQuotationsResponse) FromModels(models []model.Quotation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Quotations = make([]QuotationResponse, len(models))
	for i, mod := range models {
		r.Quotations[i].FromModel(mod)
	}
}
