package dto

import (
	"rentkit/internal/domains/maintenance/model"
	gDto "rentkit/shared/dto"
	gModel "rentkit/shared/model"
	"rentkit/shared/timezone"

	"github.com/google/uuid"
)

type EntryItemRequest struct {
	Description string  `json:"description" validate:"required,max=300"`
	Cost        float64 `json:"cost"        validate:"omitempty,gte=0"`
}

type AppendEntryRequest struct {
	Date  string             `json:"date"  validate:"required,datetime=2006-01-02"`
	Items []EntryItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *AppendEntryRequest) ToItems() []model.EntryItem {
	items := make([]model.EntryItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = model.EntryItem(item)
	}

	return items
}

// NewLog builds the lazily created log row for a machine's first entry.
func NewLog(machineID, user string) model.MaintenanceLog {
	return model.MaintenanceLog{
		ID:        uuid.NewString(),
		MachineID: machineID,
		Entries:   model.Entries{},
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type EntryResponse struct {
	Date  string            `json:"date"`
	Items []model.EntryItem `json:"items"`
	Total float64           `json:"total"`
}

type MaintenanceLogResponse struct {
	ID        string          `json:"id"`
	MachineID string          `json:"machine_id"`
	Entries   []EntryResponse `json:"entries"`
	Total     float64         `json:"total"`
	gDto.Metadata
}

func (r *MaintenanceLogResponse) FromModel(mod model.MaintenanceLog) {
	r.ID = mod.ID
	r.MachineID = mod.MachineID
	r.Total = mod.Entries.Total()

	r.Entries = make([]EntryResponse, len(mod.Entries))
	for i, entry := range mod.Entries {
		r.Entries[i] = EntryResponse{
			Date:  entry.Date,
			Items: entry.Items,
			Total: entry.Total(),
		}
	}

	r.Metadata.FromModel(mod.Metadata)
}
