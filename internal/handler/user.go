package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/karsvo/villa-rental-api/internal/dto"
	"github.com/karsvo/villa-rental-api/internal/repository"
)

// UserStore is the account surface the auth endpoints need. UserRepo
// implements it.
type UserStore interface {
	IsUnique(ctx context.Context, username string) (bool, error)
	Login(ctx context.Context, req dto.LoginRequestDTO) (dto.LoginResponseDTO, error)
	Register(ctx context.Context, req dto.RegistrationRequestDTO) (dto.UserDTO, error)
}

// UserHandler bundles dependencies for the /api/UsersAuth endpoints.
type UserHandler struct {
	Users UserStore
	Log   *zap.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users UserStore, log *zap.Logger) *UserHandler {
	if users == nil || log == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Log: log}
}

// Login handles POST /api/UsersAuth/login. Bad credentials come back from
// the repository as a zero result and map to 400; the response never says
// which of username or password was wrong.
func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequestDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "userName and password are required")
	}

	resp, err := h.Users.Login(c.Request().Context(), req)
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if resp.Token == "" {
		return fail(c, http.StatusBadRequest, "username or password is incorrect")
	}
	h.Log.Info("user logged in", zap.String("user", resp.User.Username))
	return ok(c, http.StatusOK, resp)
}

// Register handles POST /api/UsersAuth/register. A taken username is
// rejected before the insert; any creation failure surfaces in the envelope
// rather than being swallowed into an empty success.
func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegistrationRequestDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	ctx := c.Request().Context()
	unique, err := h.Users.IsUnique(ctx, req.Username)
	if err != nil {
		h.Log.Error("uniqueness check failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if !unique {
		return fail(c, http.StatusBadRequest, "user already exists")
	}

	user, err := h.Users.Register(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, "user already exists")
		}
		h.Log.Error("registration failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	h.Log.Info("user registered", zap.String("user", user.Username), zap.String("role", user.Role))
	return ok(c, http.StatusOK, user)
}
