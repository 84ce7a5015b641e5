package dto

import (
	"rentkit/internal/domains/machine/model"
	"rentkit/shared"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateMachineRequest struct {
	Model         string  `json:"model"               validate:"required,max=100"`
	Manufacturer  string  `json:"manufacturer"        validate:"omitempty,max=100"`
	VehicleNumber string  `json:"vehicle_number"      validate:"required,max=50"`
	UsageHours    float64 `json:"usage_hours"         validate:"omitempty,gte=0"`
	RentalRate    float64 `json:"rental_rate"         validate:"omitempty,gte=0"`
	ServiceLimit  float64 `json:"service_limit_hours" validate:"omitempty,gte=0"`
	LastService   string  `json:"last_service_date"   validate:"omitempty,datetime=2006-01-02"`
}

func (c *CreateMachineRequest) ToModel(user string) model.Machine {
	var lastService *time.Time

	if c.LastService != "" {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.LastService); err == nil {
			lastService = &parsed
		}
	}

	return model.Machine{
		ID:            uuid.NewString(),
		Model:         c.Model,
		Manufacturer:  c.Manufacturer,
		VehicleNumber: c.VehicleNumber,
		UsageHours:    c.UsageHours,
		RentalRate:    c.RentalRate,
		ServiceLimit:  c.ServiceLimit,
		LastService:   lastService,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMachineRequest struct {
	Model         string   `db:"model"               json:"model"               validate:"omitempty,max=100"`
	Manufacturer  string   `db:"manufacturer"        json:"manufacturer"        validate:"omitempty,max=100"`
	VehicleNumber string   `db:"vehicle_number"      json:"vehicle_number"      validate:"omitempty,max=50"`
	UsageHours    *float64 `db:"usage_hours"         json:"usage_hours"         validate:"omitempty,gte=0"`
	RentalRate    *float64 `db:"rental_rate"         json:"rental_rate"         validate:"omitempty,gte=0"`
	ServiceLimit  *float64 `db:"service_limit_hours" json:"service_limit_hours" validate:"omitempty,gte=0"`
	LastService   string   `db:"last_service_date"   json:"last_service_date"   validate:"omitempty,datetime=2006-01-02"`
}

type MachineResponse struct {
	ID            string  `json:"id"`
	Model         string  `json:"model"`
	Manufacturer  string  `json:"manufacturer"`
	VehicleNumber string  `json:"vehicle_number"`
	UsageHours    float64 `json:"usage_hours"`
	RentalRate    float64 `json:"rental_rate"`
	ServiceLimit  float64 `json:"service_limit_hours"`
	LastService   string  `json:"last_service_date,omitempty"`
	gDto.Metadata
}

func (r *MachineResponse) FromModel(mod model.Machine) {
	r.ID = mod.ID
	r.Model = mod.Model
	r.Manufacturer = mod.Manufacturer
	r.VehicleNumber = mod.VehicleNumber
	r.UsageHours = mod.UsageHours
	r.RentalRate = mod.RentalRate
	r.ServiceLimit = mod.ServiceLimit

	if mod.LastService != nil {
		r.LastService = mod.LastService.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetMachinesResponse struct {
	Machines  []MachineResponse `json:"machines"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMachinesResponse) FromModels(models []model.Machine, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Machines = make([]MachineResponse, len(models))
	for i, mod := range models {
		r.Machines[i].FromModel(mod)
	}
}
