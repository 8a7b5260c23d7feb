// Package dto defines the wire-facing request and response shapes of the API
// together with explicit mapping functions to and from the persisted models.
// Mapping is hand-written field by field; there is no reflection-driven
// mapper, so every translation is visible here.
package dto

import (
	"strings"
	"time"

	"github.com/karsvo/villa-rental-api/internal/model"
)

// maxVillaNameLen bounds villa names on create and update.
const maxVillaNameLen = 30

// VillaDTO is the response projection of a villa.
type VillaDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	Rate      float64   `json:"rate"`
	Occupancy int       `json:"occupancy"`
	ImageURL  string    `json:"imageUrl"`
	Sqft      int       `json:"sqft"`
	Amenity   string    `json:"amenity"`
	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"updatedDate"`
}

// VillaCreateDTO carries the client-supplied fields of a new villa. The ID is
// absent on purpose: the server is the sole assigner of the surrogate key.
type VillaCreateDTO struct {
	Name      string  `json:"name"`
	Details   string  `json:"details"`
	Rate      float64 `json:"rate"`
	Occupancy int     `json:"occupancy"`
	ImageURL  string  `json:"imageUrl"`
	Sqft      int     `json:"sqft"`
	Amenity   string  `json:"amenity"`
}

// VillaUpdateDTO is the full-replace shape used by PUT and as the PATCH
// target document. It repeats the ID so the handler can reject mismatches
// against the route parameter.
type VillaUpdateDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Details   string  `json:"details"`
	Rate      float64 `json:"rate"`
	Occupancy int     `json:"occupancy"`
	ImageURL  string  `json:"imageUrl"`
	Sqft      int     `json:"sqft"`
	Amenity   string  `json:"amenity"`
}

// Validate reports the per-field constraint violations of a create request.
func (d VillaCreateDTO) Validate() []string {
	return validateVillaName(d.Name)
}

// Validate reports the per-field constraint violations of an update request.
func (d VillaUpdateDTO) Validate() []string {
	return validateVillaName(d.Name)
}

func validateVillaName(name string) []string {
	var errs []string
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs = append(errs, "name is required")
	} else if len(trimmed) > maxVillaNameLen {
		errs = append(errs, "name must be 30 characters or fewer")
	}
	return errs
}

// VillaToDTO maps a stored villa onto its response shape.
func VillaToDTO(v *model.Villa) VillaDTO {
	return VillaDTO{
		ID:        v.ID,
		Name:      v.Name,
		Details:   v.Details,
		Rate:      v.Rate,
		Occupancy: v.Occupancy,
		ImageURL:  v.ImageURL,
		Sqft:      v.Sqft,
		Amenity:   v.Amenity,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// VillasToDTO maps a page of villas. It always returns a non-nil slice so an
// empty page serializes as [] rather than null.
func VillasToDTO(list []*model.Villa) []VillaDTO {
	out := make([]VillaDTO, 0, len(list))
	for _, v := range list {
		out = append(out, VillaToDTO(v))
	}
	return out
}

// VillaFromCreate builds a model from a create request. Server-assigned
// fields (ID, timestamps) stay zero.
func VillaFromCreate(d VillaCreateDTO) *model.Villa {
	return &model.Villa{
		Name:      strings.TrimSpace(d.Name),
		Details:   d.Details,
		Rate:      d.Rate,
		Occupancy: d.Occupancy,
		ImageURL:  d.ImageURL,
		Sqft:      d.Sqft,
		Amenity:   d.Amenity,
	}
}

// VillaFromUpdate builds a model from a full-replace request.
func VillaFromUpdate(d VillaUpdateDTO) *model.Villa {
	return &model.Villa{
		ID:        d.ID,
		Name:      strings.TrimSpace(d.Name),
		Details:   d.Details,
		Rate:      d.Rate,
		Occupancy: d.Occupancy,
		ImageURL:  d.ImageURL,
		Sqft:      d.Sqft,
		Amenity:   d.Amenity,
	}
}

// VillaToUpdateDTO projects a stored villa into the update shape. PATCH
// fetches the entity, converts it with this function, applies the patch
// operations to the result and maps it back with VillaFromUpdate.
func VillaToUpdateDTO(v *model.Villa) VillaUpdateDTO {
	return VillaUpdateDTO{
		ID:        v.ID,
		Name:      v.Name,
		Details:   v.Details,
		Rate:      v.Rate,
		Occupancy: v.Occupancy,
		ImageURL:  v.ImageURL,
		Sqft:      v.Sqft,
		Amenity:   v.Amenity,
	}
}
