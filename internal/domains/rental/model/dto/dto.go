package dto

import (
	"rentkit/internal/domains/rental/model"
	"rentkit/shared"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateRentalRequest struct {
	ClientID    string  `json:"client_id"    validate:"required,uuid"`
	MachineID   string  `json:"machine_id"   validate:"required,uuid"`
	DriverID    string  `json:"driver_id"    validate:"required,uuid"`
	QuotationID string  `json:"quotation_id" validate:"omitempty,uuid"`
	StartDate   string  `json:"start_date"   validate:"omitempty,datetime=2006-01-02"`
	StartTime   string  `json:"start_time"   validate:"omitempty,datetime=15:04"`
	Hours       float64 `json:"hours"        validate:"omitempty,gte=0"`
	Fuel        string  `json:"fuel"         validate:"omitempty,max=100"`
	Site        string  `json:"site"         validate:"omitempty,max=300"`
	Status      string  `json:"status"       validate:"omitempty,oneof=Pending Ongoing Completed Cancelled"`
}

func (c *CreateRentalRequest) ToModel(user string) model.Rental {
	var startDate *time.Time

	if c.StartDate != "" {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.StartDate); err == nil {
			startDate = &parsed
		}
	}

	var quotationID *string
	if c.QuotationID != "" {
		quotationID = &c.QuotationID
	}

	status := c.Status
	if status == "" {
		status = model.StatusOngoing
	}

	return model.Rental{
		ID:          uuid.NewString(),
		ClientID:    c.ClientID,
		MachineID:   c.MachineID,
		DriverID:    c.DriverID,
		QuotationID: quotationID,
		StartDate:   startDate,
		StartTime:   c.StartTime,
		Hours:       c.Hours,
		Fuel:        c.Fuel,
		Site:        c.Site,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRentalRequest struct {
	StartDate string   `db:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime string   `db:"start_time" json:"start_time" validate:"omitempty,datetime=15:04"`
	Hours     *float64 `db:"hours"      json:"hours"      validate:"omitempty,gte=0"`
	Fuel      string   `db:"fuel"       json:"fuel"       validate:"omitempty,max=100"`
	Site      string   `db:"site"       json:"site"       validate:"omitempty,max=300"`
}

type UpdateRentalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Ongoing Completed Cancelled"`
}

type RentalResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	MachineID   string  `json:"machine_id"`
	DriverID    string  `json:"driver_id"`
	QuotationID string  `json:"quotation_id,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	StartTime   string  `json:"start_time,omitempty"`
	Hours       float64 `json:"hours"`
	Fuel        string  `json:"fuel"`
	Site        string  `json:"site"`
	Status      string  `json:"status"`
	gDto.Metadata
}

func (r *RentalResponse) FromModel(mod model.Rental) {
	r.ID = mod.ID
	r.ClientID = mod.ClientID
	r.MachineID = mod.MachineID
	r.DriverID = mod.DriverID
	r.StartTime = mod.StartTime
	r.Hours = mod.Hours
	r.Fuel = mod.Fuel
	r.Site = mod.Site
	r.Status = mod.Status

	if mod.QuotationID != nil {
		r.QuotationID = *mod.QuotationID
	}

	if mod.StartDate != nil {
		r.StartDate = mod.StartDate.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetRentalsResponse struct {
	Rentals   []RentalResponse `json:"rentals"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetRentalsResponse) FromModels(models []model.Rental, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rentals = make([]RentalResponse, len(models))
	for i, mod := range models {
		r.Rentals[i].FromModel(mod)
	}
}
