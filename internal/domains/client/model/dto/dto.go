package dto

import (
	"rentkit/internal/domains/client/model"
	"rentkit/shared"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name            string `json:"name"             validate:"required,max=150"`
	Phone           string `json:"phone"            validate:"omitempty,max=30"`
	Email           string `json:"email"            validate:"required,email,max=150"`
	BillingAddress  string `json:"billing_address"  validate:"omitempty,max=500"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
	TaxID           string `json:"tax_id"           validate:"omitempty,max=50"`
}

func (c *CreateClientRequest) ToModel(user string) model.Client {
	return model.Client{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		TaxID:           c.TaxID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateClientRequest struct {
	Name            string `db:"name"             json:"name"             validate:"omitempty,max=150"`
	Phone           string `db:"phone"            json:"phone"            validate:"omitempty,max=30"`
	Email           string `db:"email"            json:"email"            validate:"omitempty,email,max=150"`
	BillingAddress  string `db:"billing_address"  json:"billing_address"  validate:"omitempty,max=500"`
	ShippingAddress string `db:"shipping_address" json:"shipping_address" validate:"omitempty,max=500"`
	TaxID           string `db:"tax_id"           json:"tax_id"           validate:"omitempty,max=50"`
}

type ClientResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`
	TaxID           string `json:"tax_id"`
	gDto.Metadata
}

func (r *ClientResponse) FromModel(mod model.Client) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Phone = mod.Phone
	r.Email = mod.Email
	r.BillingAddress = mod.BillingAddress
	r.ShippingAddress = mod.ShippingAddress
	r.TaxID = mod.TaxID
	r.Metadata.FromModel(mod.Metadata)
}

type GetClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetClientsResponse) FromModels(models []model.Client, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Clients = make([]ClientResponse, len(models))
	for i, mod := range models {
		r.Clients[i].FromModel(mod)
	}
}
