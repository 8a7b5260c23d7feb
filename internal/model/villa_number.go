package model

import "time"

// VillaNumber is a bookable room number belonging to a villa, mirroring the
// `villa_numbers` table. Unlike villas the key is client-assigned: VillaNo is
// the primary key, not an auto-increment surrogate. A villa may own zero or
// more numbers.
//
// Fields:
//
//	VillaNo        – primary key, the room number itself.
//	VillaID        – foreign key referencing villas.id.
//	SpecialDetails – free-form note about the specific room.
//	CreatedAt      – timestamp when the row was created.
//	UpdatedAt      – timestamp of last update.
type VillaNumber struct {
	VillaNo        uint64    // villa_numbers.villa_no
	VillaID        uint64    // villa_numbers.villa_id
	SpecialDetails string    // villa_numbers.special_details
	CreatedAt      time.Time // villa_numbers.created_at
	UpdatedAt      time.Time // villa_numbers.updated_at
}
