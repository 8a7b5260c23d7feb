package repository

import (
	"context"
	"database/sql"

	"github.com/karsvo/villa-rental-api/internal/model"
)

// villaNumberTable maps model.VillaNumber onto the villa_numbers table. The
// room number itself is the key and is supplied by the client, so AutoKey is
// off and inserts include it.
var villaNumberTable = Table[model.VillaNumber]{
	Name:    "villa_numbers",
	Key:     "villa_no",
	Columns: []string{"villa_id", "special_details"},
	Bind: func(n *model.VillaNumber) []any {
		return []any{n.VillaID, n.SpecialDetails}
	},
	Scan: func(row Scanner, n *model.VillaNumber) error {
		return row.Scan(&n.VillaNo, &n.VillaID, &n.SpecialDetails, &n.CreatedAt, &n.UpdatedAt)
	},
	KeyOf: func(n *model.VillaNumber) any { return n.VillaNo },
}

// VillaNumberRepo encapsulates database access for villa room numbers.
type VillaNumberRepo struct {
	*Store[model.VillaNumber]
}

// NewVillaNumberRepo constructs a VillaNumberRepo over the given pool.
func NewVillaNumberRepo(db *sql.DB) *VillaNumberRepo {
	return &VillaNumberRepo{Store: NewStore(db, villaNumberTable)}
}

// GetByNumber fetches a room number by key, ErrNotFound when absent.
func (r *VillaNumberRepo) GetByNumber(ctx context.Context, villaNo uint64) (*model.VillaNumber, error) {
	return r.GetOne(ctx, &Clause{Expr: "villa_no = ?", Args: []any{villaNo}})
}

// Update replaces the villa reference and details of a room number.
// Pointing at a villa that does not exist trips the foreign key and is
// surfaced unchanged for the handler to report.
func (r *VillaNumberRepo) Update(ctx context.Context, n *model.VillaNumber) error {
	const q = `UPDATE villa_numbers
	           SET villa_id = ?, special_details = ?
	           WHERE villa_no = ?`
	res, err := r.DB().ExecContext(ctx, q, n.VillaID, n.SpecialDetails, n.VillaNo)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		if _, err := r.GetByNumber(ctx, n.VillaNo); err != nil {
			return err
		}
	}
	return r.reload(ctx, n)
}
