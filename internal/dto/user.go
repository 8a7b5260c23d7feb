package dto

import (
	"strings"

	"github.com/karsvo/villa-rental-api/internal/model"
)

// UserDTO is the public profile of an account. The password hash is never
// part of any response shape.
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"userName"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequestDTO carries login credentials.
type LoginRequestDTO struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponseDTO is returned on a successful login. On bad credentials the
// controller never sees this shape; the repository reports a zero result.
type LoginResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
	Role  string  `json:"role"`
}

// RegistrationRequestDTO carries a new account. Role is optional and
// defaults to customer.
type RegistrationRequestDTO struct {
	Username string `json:"userName"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate reports constraint violations of a registration request.
func (d RegistrationRequestDTO) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Username) == "" {
		errs = append(errs, "userName is required")
	}
	if d.Password == "" {
		errs = append(errs, "password is required")
	}
	if r := strings.ToLower(strings.TrimSpace(d.Role)); r != "" && r != model.RoleAdmin && r != model.RoleCustomer {
		errs = append(errs, "role must be admin or customer")
	}
	return errs
}

// UserToDTO strips the credential fields off an account record.
func UserToDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}
