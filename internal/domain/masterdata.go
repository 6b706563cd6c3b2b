package domain

import "time"

// MasterTable names one of the four reference tables.
type MasterTable string

const (
	TablePropertyTypes MasterTable = "property_types"
	TableChains        MasterTable = "chains"
	TableAreas         MasterTable = "areas"
	TableAmenities     MasterTable = "amenities"
)

// MasterEntity is a reference-table row. Icon is only populated for amenities.
type MasterEntity struct {
	ID        int64     `json:"id"`
	NameEN    string    `json:"name_en"`
	NameAR    string    `json:"name_ar"`
	Icon      *string   `json:"icon,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
