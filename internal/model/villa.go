package model

import "time"

// Villa represents a rentable property as stored in the `villas` table.
// Name is unique across all villas; the column uses a case-insensitive
// collation so "Pool Villa" and "POOL VILLA" collide at the database level
// as well as in the pre-insert check.
//
// Fields:
//
//	ID        – primary key identifier, assigned by the database.
//	Name      – unique display name of the villa.
//	Details   – free-form description.
//	Rate      – nightly rate.
//	Occupancy – maximum number of guests.
//	ImageURL  – URL of a promotional image.
//	Sqft      – floor area in square feet.
//	Amenity   – comma-separated amenity list.
//	CreatedAt – timestamp when the row was created.
//	UpdatedAt – timestamp of last update.
type Villa struct {
	ID        uint64    // villas.id
	Name      string    // villas.name
	Details   string    // villas.details
	Rate      float64   // villas.rate
	Occupancy int       // villas.occupancy
	ImageURL  string    // villas.image_url
	Sqft      int       // villas.sqft
	Amenity   string    // villas.amenity
	CreatedAt time.Time // villas.created_at
	UpdatedAt time.Time // villas.updated_at
}
