package dto

import (
	"time"

	"github.com/karsvo/villa-rental-api/internal/model"
)

// VillaNumberDTO is the response projection of a villa room number. It embeds
// the owning villa when the handler resolved it, so clients don't need a
// second round trip.
type VillaNumberDTO struct {
	VillaNo        uint64    `json:"villaNo"`
	VillaID        uint64    `json:"villaId"`
	SpecialDetails string    `json:"specialDetails"`
	CreatedAt      time.Time `json:"createdDate"`
	UpdatedAt      time.Time `json:"updatedDate"`
	Villa          *VillaDTO `json:"villa,omitempty"`
}

// VillaNumberCreateDTO carries a new room number. VillaNo is client-assigned
// and must be unique; VillaID must reference an existing villa.
type VillaNumberCreateDTO struct {
	VillaNo        uint64 `json:"villaNo"`
	VillaID        uint64 `json:"villaId"`
	SpecialDetails string `json:"specialDetails"`
}

// VillaNumberUpdateDTO is the full-replace shape for PUT and the PATCH
// target document.
type VillaNumberUpdateDTO struct {
	VillaNo        uint64 `json:"villaNo"`
	VillaID        uint64 `json:"villaId"`
	SpecialDetails string `json:"specialDetails"`
}

// Validate reports constraint violations of a create request.
func (d VillaNumberCreateDTO) Validate() []string {
	var errs []string
	if d.VillaNo == 0 {
		errs = append(errs, "villaNo is required")
	}
	if d.VillaID == 0 {
		errs = append(errs, "villaId is required")
	}
	return errs
}

// Validate reports constraint violations of an update request.
func (d VillaNumberUpdateDTO) Validate() []string {
	var errs []string
	if d.VillaID == 0 {
		errs = append(errs, "villaId is required")
	}
	return errs
}

// VillaNumberToDTO maps a stored room number onto its response shape.
func VillaNumberToDTO(n *model.VillaNumber) VillaNumberDTO {
	return VillaNumberDTO{
		VillaNo:        n.VillaNo,
		VillaID:        n.VillaID,
		SpecialDetails: n.SpecialDetails,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

// VillaNumbersToDTO maps a page of room numbers, never returning nil.
func VillaNumbersToDTO(list []*model.VillaNumber) []VillaNumberDTO {
	out := make([]VillaNumberDTO, 0, len(list))
	for _, n := range list {
		out = append(out, VillaNumberToDTO(n))
	}
	return out
}

// VillaNumberFromCreate builds a model from a create request.
func VillaNumberFromCreate(d VillaNumberCreateDTO) *model.VillaNumber {
	return &model.VillaNumber{
		VillaNo:        d.VillaNo,
		VillaID:        d.VillaID,
		SpecialDetails: d.SpecialDetails,
	}
}

// VillaNumberFromUpdate builds a model from a full-replace request.
func VillaNumberFromUpdate(d VillaNumberUpdateDTO) *model.VillaNumber {
	return &model.VillaNumber{
		VillaNo:        d.VillaNo,
		VillaID:        d.VillaID,
		SpecialDetails: d.SpecialDetails,
	}
}

// VillaNumberToUpdateDTO projects a stored room number into the update shape
// used as the PATCH target.
func VillaNumberToUpdateDTO(n *model.VillaNumber) VillaNumberUpdateDTO {
	return VillaNumberUpdateDTO{
		VillaNo:        n.VillaNo,
		VillaID:        n.VillaID,
		SpecialDetails: n.SpecialDetails,
	}
}
