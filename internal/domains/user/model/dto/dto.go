package dto

import (
	"rentkit/internal/domains/user/model"
	"rentkit/shared"
	gDto "rentkit/shared/dto"
)

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Level       string  `json:"level"`
	FullName    *string `json:"full_name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	LastLogin   *string `json:"last_login,omitempty"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.CompanyName = model.CompanyName
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateProfileRequest struct {
	FullName    *string `db:"full_name"    json:"full_name,omitempty"    validate:"omitempty,max=150"`
	CompanyName *string `db:"company_name" json:"company_name,omitempty" validate:"omitempty,max=200"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
