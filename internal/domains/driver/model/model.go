package model

import (
	"rentkit/shared/model"
	"time"
)

const (
	TableName  = "drivers"
	EntityName = "driver"

	FieldID         = "id"
	FieldName       = "name"
	FieldNationalID = "national_id"
	FieldPhotoURL   = "photo_url"
)

type Driver struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Phone       string     `db:"phone"`
	NationalID  string     `db:"national_id"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Address     string     `db:"address"`
	PhotoURL    string     `db:"photo_url"`
	model.Metadata
}
