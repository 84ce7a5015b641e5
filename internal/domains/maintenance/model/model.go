package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"rentkit/shared/model"
)

const (
	TableName  = "maintenance_logs"
	EntityName = "maintenance"

	FieldID        = "id"
	FieldMachineID = "machine_id"
	FieldEntries   = "entries"
)

type EntryItem struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

type Entry struct {
	// Date is matched verbatim, not parsed; "2024-01-05" and
	// "2024-1-5" are distinct entries.
	Date  string      `json:"date"`
	Items []EntryItem `json:"items"`
}

func (e Entry) Total() float64 {
	var total float64
	for _, item := range e.Items {
		total += item.Cost
	}

	return total
}

type Entries []Entry

func (e Entries) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *Entries) Scan(src any) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for maintenance entries", src)
	}

	return json.Unmarshal(data, e)
}

func (e Entries) Total() float64 {
	var total float64
	for _, entry := range e {
		total += entry.Total()
	}

	return total
}

// Merge appends items into the entry with the same date, or adds a new
// entry when no date matches. Items are never deduplicated.
func (e Entries) Merge(date string, items []EntryItem) Entries {
	for i, entry := range e {
		if entry.Date == date {
			e[i].Items = append(e[i].Items, items...)

			return e
		}
	}

	return append(e, Entry{Date: date, Items: items})
}

type MaintenanceLog struct {
	ID        string  `db:"id"`
	MachineID string  `db:"machine_id"`
	Entries   Entries `db:"entries"`
	model.Metadata
}
