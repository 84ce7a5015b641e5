package dto

import (
	"rentkit/config"
	"rentkit/internal/domains/settings/model"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"

	"github.com/google/uuid"
)

type BankDetailRequest struct {
	BankName      string `json:"bank_name"      validate:"required,max=150"`
	AccountName   string `json:"account_name"   validate:"omitempty,max=150"`
	AccountNumber string `json:"account_number" validate:"required,max=50"`
	IFSC          string `json:"ifsc"           validate:"omitempty,max=20"`
	Branch        string `json:"branch"         validate:"omitempty,max=150"`
}

type TermRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type UpdateSettingsRequest struct {
	CompanyName     string               `db:"company_name"     json:"company_name"     validate:"omitempty,max=200"`
	CompanyAddress  string               `db:"company_address"  json:"company_address"  validate:"omitempty,max=500"`
	CompanyPhone    string               `db:"company_phone"    json:"company_phone"    validate:"omitempty,max=30"`
	CompanyEmail    string               `db:"company_email"    json:"company_email"    validate:"omitempty,email,max=150"`
	CompanyTaxID    string               `db:"company_tax_id"   json:"company_tax_id"   validate:"omitempty,max=50"`
	QuotationPrefix string               `db:"quotation_prefix" json:"quotation_prefix" validate:"omitempty,max=100"`
	QuotationSuffix string               `db:"quotation_suffix" json:"quotation_suffix" validate:"omitempty,max=100"`
	InvoicePrefix   string               `db:"invoice_prefix"   json:"invoice_prefix"   validate:"omitempty,max=100"`
	InvoiceSuffix   string               `db:"invoice_suffix"   json:"invoice_suffix"   validate:"omitempty,max=100"`
	BankDetails     *[]BankDetailRequest `db:"bank_details"     json:"bank_details"     validate:"omitempty,dive"`
	Terms           *[]TermRequest       `db:"terms"            json:"terms"            validate:"omitempty,dive"`
}

// DefaultModel builds the settings row created on an owner's first read.
func DefaultModel(user string, cfg *config.Config) model.Settings {
	return model.Settings{
		ID:              uuid.NewString(),
		QuotationPrefix: cfg.Billing.QuotationPrefix,
		QuotationSuffix: cfg.Billing.QuotationSuffix,
		InvoicePrefix:   cfg.Billing.InvoicePrefix,
		InvoiceSuffix:   cfg.Billing.InvoiceSuffix,
		BankDetails:     model.BankDetails{},
		Terms:           model.Terms{},
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type SettingsResponse struct {
	ID              string            `json:"id"`
	CompanyName     string            `json:"company_name"`
	CompanyAddress  string            `json:"company_address"`
	CompanyPhone    string            `json:"company_phone"`
	CompanyEmail    string            `json:"company_email"`
	CompanyTaxID    string            `json:"company_tax_id"`
	QuotationPrefix string            `json:"quotation_prefix"`
	QuotationSuffix string            `json:"quotation_suffix"`
	InvoicePrefix   string            `json:"invoice_prefix"`
	InvoiceSuffix   string            `json:"invoice_suffix"`
	BankDetails     model.BankDetails `json:"bank_details"`
	Terms           model.Terms       `json:"terms"`
	gDto.Metadata
}

func (r *SettingsResponse) FromModel(mod model.Settings) {
	r.ID = mod.ID
	r.CompanyName = mod.CompanyName
	r.CompanyAddress = mod.CompanyAddress
	r.CompanyPhone = mod.CompanyPhone
	r.CompanyEmail = mod.CompanyEmail
	r.CompanyTaxID = mod.CompanyTaxID
	r.QuotationPrefix = mod.QuotationPrefix
	r.QuotationSuffix = mod.QuotationSuffix
	r.InvoicePrefix = mod.InvoicePrefix
	r.InvoiceSuffix = mod.InvoiceSuffix
	r.BankDetails = mod.BankDetails
	r.Terms = mod.Terms
	r.Metadata.FromModel(mod.Metadata)
}
