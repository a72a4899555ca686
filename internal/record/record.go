// Package record persists the user's farming records. The store handle is
// injected wherever records are read, so there is no ambient connection
// state and tests can substitute an in-memory fake.
package record

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultSoilType is stored when the user leaves soil type blank.
const DefaultSoilType = "Not specified"

// ErrNotFound reports an update against a record ID that does not exist.
var ErrNotFound = eris.New("record: not found")

// FarmingRecord is one planting the user logged. Dates are kept as entered.
type FarmingRecord struct {
	ID              string    `json:"id"`
	CropName        string    `json:"cropName"`
	PlantingDate    string    `json:"plantingDate"`
	ExpectedHarvest string    `json:"expectedHarvest,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	SoilType        string    `json:"soilType"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Store defines persistence operations for farming records.
type Store interface {
	Create(ctx context.Context, r *FarmingRecord) error
	Update(ctx context.Context, r *FarmingRecord) error
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*FarmingRecord, error)

	// List returns records newest-first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]FarmingRecord, error)

	Ping(ctx context.Context) error
	Close() error
}
