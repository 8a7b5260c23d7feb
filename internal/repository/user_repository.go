package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/karsvo/villa-rental-api/internal/dto"
	"github.com/karsvo/villa-rental-api/internal/model"
	"github.com/karsvo/villa-rental-api/internal/utils"
)

// userTable maps model.User onto the users table.
var userTable = Table[model.User]{
	Name:    "users",
	Key:     "id",
	AutoKey: true,
	Columns: []string{"username", "name", "password_hash", "role"},
	Bind: func(u *model.User) []any {
		return []any{u.Username, u.Name, u.PasswordHash, u.Role}
	},
	Scan: func(row Scanner, u *model.User) error {
		return row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &u.UpdatedAt)
	},
	KeyOf:  func(u *model.User) any { return u.ID },
	SetKey: func(u *model.User, id uint64) { u.ID = id },
}

// UserRepo provides account persistence plus the authentication flows:
// uniqueness check, registration and login with token issuance. Usernames
// are case-insensitive throughout; they are lower-cased here, at the
// repository boundary, so every caller gets one policy.
type UserRepo struct {
	*Store[model.User]
	secret  string // JWT signing secret, from config, never logged
	ttlDays int
	cost    int // bcrypt cost
}

// NewUserRepo constructs a UserRepo. secret signs login tokens, ttlDays is
// their fixed lifetime and cost the bcrypt work factor.
func NewUserRepo(db *sql.DB, secret string, ttlDays, cost int) *UserRepo {
	return &UserRepo{Store: NewStore(db, userTable), secret: secret, ttlDays: ttlDays, cost: cost}
}

// GetByUsername fetches an account by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = normalizeUsername(username)
	return r.GetOne(ctx, &Clause{Expr: "username = ?", Args: []any{username}})
}

// IsUnique reports whether no existing account uses the username.
func (r *UserRepo) IsUnique(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Login verifies the credentials and, on success, returns the public profile
// together with a signed 7-day token whose role claim matches the stored
// role. An unknown username or a wrong password both yield a zero response
// with an empty token and no error; bad credentials are a result, not a
// failure, and only infrastructure problems surface as errors.
func (r *UserRepo) Login(ctx context.Context, req dto.LoginRequestDTO) (dto.LoginResponseDTO, error) {
	u, err := r.GetByUsername(ctx, req.Username)
	if errors.Is(err, ErrNotFound) {
		return dto.LoginResponseDTO{}, nil
	}
	if err != nil {
		return dto.LoginResponseDTO{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return dto.LoginResponseDTO{}, nil
	}
	tok, err := utils.NewLoginToken(r.secret, u.Username, u.Role, r.ttlDays)
	if err != nil {
		return dto.LoginResponseDTO{}, err
	}
	return dto.LoginResponseDTO{
		Token: tok.Token,
		User:  dto.UserToDTO(u),
		Role:  u.Role,
	}, nil
}

// Register creates an account and returns its public profile. The role
// defaults to customer unless the request names one explicitly. A username
// already taken maps to ErrConflict; every other failure is returned as-is
// rather than being swallowed into an empty success.
func (r *UserRepo) Register(ctx context.Context, req dto.RegistrationRequestDTO) (dto.UserDTO, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleCustomer
	}
	hash, err := utils.HashPassword(req.Password, r.cost)
	if err != nil {
		return dto.UserDTO{}, err
	}
	u := &model.User{
		Username:     normalizeUsername(req.Username),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
	}
	if err := r.Create(ctx, u); err != nil {
		return dto.UserDTO{}, err
	}
	return dto.UserToDTO(u), nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
