package repository

import (
	"context"
	"database/sql"

	"github.com/karsvo/villa-rental-api/internal/model"
)

// villaTable maps model.Villa onto the villas table for the generic store.
var villaTable = Table[model.Villa]{
	Name:    "villas",
	Key:     "id",
	AutoKey: true,
	Columns: []string{"name", "details", "rate", "occupancy", "image_url", "sqft", "amenity"},
	Bind: func(v *model.Villa) []any {
		return []any{v.Name, v.Details, v.Rate, v.Occupancy, v.ImageURL, v.Sqft, v.Amenity}
	},
	Scan: func(row Scanner, v *model.Villa) error {
		return row.Scan(&v.ID, &v.Name, &v.Details, &v.Rate, &v.Occupancy,
			&v.ImageURL, &v.Sqft, &v.Amenity, &v.CreatedAt, &v.UpdatedAt)
	},
	KeyOf:  func(v *model.Villa) any { return v.ID },
	SetKey: func(v *model.Villa, id uint64) { v.ID = id },
}

// VillaRepo encapsulates all database access for villas. Generic reads and
// mutations come from the embedded store; entity-specific SQL (full-replace
// update, case-insensitive name lookup) lives here.
type VillaRepo struct {
	*Store[model.Villa]
}

// NewVillaRepo constructs a VillaRepo over the given connection pool.
func NewVillaRepo(db *sql.DB) *VillaRepo {
	return &VillaRepo{Store: NewStore(db, villaTable)}
}

// GetByID fetches a villa by primary key, ErrNotFound when absent.
func (r *VillaRepo) GetByID(ctx context.Context, id uint64) (*model.Villa, error) {
	return r.GetOne(ctx, &Clause{Expr: "id = ?", Args: []any{id}})
}

// GetByName fetches a villa by name. The comparison is case-insensitive so
// the pre-insert uniqueness check catches "pool villa" vs "Pool Villa".
func (r *VillaRepo) GetByName(ctx context.Context, name string) (*model.Villa, error) {
	return r.GetOne(ctx, &Clause{Expr: "LOWER(name) = LOWER(?)", Args: []any{name}})
}

// Update replaces every client-editable field of the villa. The database
// bumps updated_at itself; the row is re-read afterwards so the caller sees
// the final state. A rename onto an existing name maps to ErrConflict.
func (r *VillaRepo) Update(ctx context.Context, v *model.Villa) error {
	const q = `UPDATE villas
	           SET name = ?, details = ?, rate = ?, occupancy = ?, image_url = ?, sqft = ?, amenity = ?
	           WHERE id = ?`
	res, err := r.DB().ExecContext(ctx, q,
		v.Name, v.Details, v.Rate, v.Occupancy, v.ImageURL, v.Sqft, v.Amenity, v.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so
	// verify existence instead of trusting the count.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return err
		}
	}
	return r.reload(ctx, v)
}
