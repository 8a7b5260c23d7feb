package model

import "time"

// Role values stored in users.role. Registration defaults to RoleCustomer;
// RoleAdmin must be requested explicitly and gates the villa write endpoints.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account record as stored in the `users` table.
// Username is unique and normalized to lower case before storage so that
// uniqueness and login are case-insensitive. PasswordHash holds the bcrypt
// digest; the plain password never touches the model.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique lower-cased login name.
//	Name         – display name.
//	PasswordHash – bcrypt hashed password.
//	Role         – role name (admin or customer).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
