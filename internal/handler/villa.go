package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/karsvo/villa-rental-api/internal/dto"
	"github.com/karsvo/villa-rental-api/internal/middleware"
	"github.com/karsvo/villa-rental-api/internal/model"
	"github.com/karsvo/villa-rental-api/internal/queue"
	"github.com/karsvo/villa-rental-api/internal/repository"
	"github.com/karsvo/villa-rental-api/internal/utils"
)

// VillaStore is the persistence surface the villa handlers need. VillaRepo
// implements it; tests substitute an in-memory fake.
type VillaStore interface {
	Create(ctx context.Context, v *model.Villa) error
	GetAll(ctx context.Context, filter *repository.Clause, pageSize, pageNumber int) ([]*model.Villa, error)
	GetByID(ctx context.Context, id uint64) (*model.Villa, error)
	GetByName(ctx context.Context, name string) (*model.Villa, error)
	Update(ctx context.Context, v *model.Villa) error
	Remove(ctx context.Context, v *model.Villa) error
	Count(ctx context.Context, filter *repository.Clause) (int64, error)
}

// VillaHandler bundles the dependencies of the villa endpoints.
type VillaHandler struct {
	Villas VillaStore
	Log    *zap.Logger
	Events queue.Publisher // nil disables event publishing
}

// NewVillaHandler constructs a VillaHandler.
func NewVillaHandler(villas VillaStore, log *zap.Logger, events queue.Publisher) *VillaHandler {
	if villas == nil || log == nil {
		panic("nil dependency passed to NewVillaHandler")
	}
	return &VillaHandler{Villas: villas, Log: log, Events: events}
}

// pagination is serialized into the X-Pagination response header on list
// endpoints so clients can page without parsing the body.
type pagination struct {
	PageNumber   int   `json:"pageNumber"`
	PageSize     int   `json:"pageSize"`
	TotalRecords int64 `json:"totalRecords"`
}

// List handles GET /api/VillaAPI. Optional query parameters: pageSize
// (default 3, max 100), pageNumber (default 1), occupancy (exact match) and
// search (substring of the name).
func (h *VillaHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	pageSize := intQuery(c, "pageSize", 0)
	pageNumber := intQuery(c, "pageNumber", 1)
	filter := villaListFilter(c)

	villas, err := h.Villas.GetAll(ctx, filter, pageSize, pageNumber)
	if err != nil {
		h.Log.Error("list villas failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	total, err := h.Villas.Count(ctx, filter)
	if err != nil {
		h.Log.Error("count villas failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	effSize, _ := repository.Window(pageSize, pageNumber)
	if hdr, err := json.Marshal(pagination{PageNumber: max(pageNumber, 1), PageSize: effSize, TotalRecords: total}); err == nil {
		c.Response().Header().Set("X-Pagination", string(hdr))
	}
	return ok(c, http.StatusOK, dto.VillasToDTO(villas))
}

// GetByID handles GET /api/VillaAPI/:id. Id 0 is rejected before the lookup.
func (h *VillaHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if id == 0 {
		return fail(c, http.StatusBadRequest, "id must be nonzero")
	}
	villa, err := h.Villas.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa %d not found", id))
		}
		h.Log.Error("get villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return ok(c, http.StatusOK, dto.VillaToDTO(villa))
}

// Create handles POST /api/VillaAPI. Validation order: body binds, fields
// validate, then the case-insensitive duplicate-name check; nothing is
// inserted unless all three pass. Success is 201 with a Location header.
func (h *VillaHandler) Create(c echo.Context) error {
	var req dto.VillaCreateDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	ctx := c.Request().Context()
	if _, err := h.Villas.GetByName(ctx, req.Name); err == nil {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %q already exists", strings.TrimSpace(req.Name)))
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.Log.Error("duplicate-name check failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	villa := dto.VillaFromCreate(req)
	if err := h.Villas.Create(ctx, villa); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %q already exists", villa.Name))
		}
		h.Log.Error("create villa failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.Log.Info("villa created", zap.Uint64("id", villa.ID), zap.String("name", villa.Name))
	h.publish(c, queue.ActionCreated, villa)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/VillaAPI/%d", villa.ID))
	return ok(c, http.StatusCreated, dto.VillaToDTO(villa))
}

// Update handles PUT /api/VillaAPI/:id, a full replace. The body id must
// match the route id.
func (h *VillaHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req dto.VillaUpdateDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.ID != id {
		return fail(c, http.StatusBadRequest, "id in body does not match route")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	villa := dto.VillaFromUpdate(req)
	if err := h.Villas.Update(c.Request().Context(), villa); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa %d not found", id))
		case errors.Is(err, repository.ErrConflict):
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %q already exists", villa.Name))
		}
		h.Log.Error("update villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.publish(c, queue.ActionUpdated, villa)
	return ok(c, http.StatusOK, dto.VillaToDTO(villa))
}

// PartialUpdate handles PATCH /api/VillaAPI/:id. The body is an RFC 6902
// operation sequence applied in order to the stored villa's update shape;
// a missing villa 404s before any operation is applied, and a patch that
// changes the id is rejected.
func (h *VillaHandler) PartialUpdate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ops, err := io.ReadAll(c.Request().Body)
	if err != nil || len(ops) == 0 {
		return fail(c, http.StatusBadRequest, "patch body is required")
	}

	ctx := c.Request().Context()
	villa, err := h.Villas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa %d not found", id))
		}
		h.Log.Error("get villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	doc := dto.VillaToUpdateDTO(villa)
	if err := utils.ApplyJSONPatch(&doc, ops); err != nil {
		return fail(c, http.StatusBadRequest, "invalid patch: "+err.Error())
	}
	if doc.ID != id {
		return fail(c, http.StatusBadRequest, "id cannot be patched")
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	patched := dto.VillaFromUpdate(doc)
	if err := h.Villas.Update(ctx, patched); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %q already exists", patched.Name))
		}
		h.Log.Error("patch villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.publish(c, queue.ActionUpdated, patched)
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/VillaAPI/:id. The deleted record is returned in
// the envelope.
func (h *VillaHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if id == 0 {
		return fail(c, http.StatusBadRequest, "id must be nonzero")
	}

	ctx := c.Request().Context()
	villa, err := h.Villas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa %d not found", id))
		}
		h.Log.Error("get villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Villas.Remove(ctx, villa); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa %d not found", id))
		}
		h.Log.Error("delete villa failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.Log.Info("villa deleted", zap.Uint64("id", id), zap.String("name", villa.Name))
	h.publish(c, queue.ActionDeleted, villa)
	return ok(c, http.StatusOK, dto.VillaToDTO(villa))
}

// publish emits a villa event, logging and dropping failures; the request
// flow never depends on the broker.
func (h *VillaHandler) publish(c echo.Context, action string, v *model.Villa) {
	if h.Events == nil {
		return
	}
	actor, _ := c.Get(middleware.CtxUsername).(string)
	ev := queue.VillaEvent{
		Action:     action,
		Entity:     "villa",
		ID:         v.ID,
		Name:       v.Name,
		Actor:      actor,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Events.VillaChanged(c.Request().Context(), ev); err != nil {
		h.Log.Warn("publish villa event failed", zap.Error(err))
	}
}

// villaListFilter builds the optional WHERE clause from list query params.
func villaListFilter(c echo.Context) *repository.Clause {
	var exprs []string
	var args []any
	if occ := c.QueryParam("occupancy"); occ != "" {
		if n, err := strconv.Atoi(occ); err == nil {
			exprs = append(exprs, "occupancy = ?")
			args = append(args, n)
		}
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		exprs = append(exprs, "name LIKE ?")
		args = append(args, "%"+search+"%")
	}
	if len(exprs) == 0 {
		return nil
	}
	return &repository.Clause{Expr: strings.Join(exprs, " AND "), Args: args}
}

// intQuery parses an integer query parameter, falling back to def.
func intQuery(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
