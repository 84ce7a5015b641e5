package dto

import (
	"rentkit/internal/domains/driver/model"
	"rentkit/shared"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateDriverRequest struct {
	Name        string `json:"name"          validate:"required,max=150"`
	Phone       string `json:"phone"         validate:"omitempty,max=30"`
	NationalID  string `json:"national_id"   validate:"required,max=50"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address"       validate:"omitempty,max=500"`
}

func (c *CreateDriverRequest) ToModel(user string) model.Driver {
	var dateOfBirth *time.Time

	if c.DateOfBirth != "" {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.DateOfBirth); err == nil {
			dateOfBirth = &parsed
		}
	}

	return model.Driver{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Phone:       c.Phone,
		NationalID:  c.NationalID,
		DateOfBirth: dateOfBirth,
		Address:     c.Address,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateDriverRequest struct {
	Name        string `db:"name"          json:"name"          validate:"omitempty,max=150"`
	Phone       string `db:"phone"         json:"phone"         validate:"omitempty,max=30"`
	NationalID  string `db:"national_id"   json:"national_id"   validate:"omitempty,max=50"`
	DateOfBirth string `db:"date_of_birth" json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     string `db:"address"       json:"address"       validate:"omitempty,max=500"`
}

type UploadPhotoRequest struct {
	Photo string `json:"photo" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

type UploadPhotoResponse struct {
	URL string `json:"url"`
}

type DriverResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	NationalID  string `json:"national_id"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address"`
	PhotoURL    string `json:"photo_url,omitempty"`
	gDto.Metadata
}

func (r *DriverResponse) FromModel(mod model.Driver) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Phone = mod.Phone
	r.NationalID = mod.NationalID
	r.Address = mod.Address
	r.PhotoURL = mod.PhotoURL

	if mod.DateOfBirth != nil {
		r.DateOfBirth = mod.DateOfBirth.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetDriversResponse struct {
	Drivers   []DriverResponse `json:"drivers"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetDriversResponse) FromModels(models []model.Driver, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Drivers = make([]DriverResponse, len(models))
	for i, mod := range models {
		r.Drivers[i].FromModel(mod)
	}
}
