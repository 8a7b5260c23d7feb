package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
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

// VillaNumberStore is the persistence surface the room-number handlers need.
type VillaNumberStore interface {
	Create(ctx context.Context, n *model.VillaNumber) error
	GetAll(ctx context.Context, filter *repository.Clause, pageSize, pageNumber int) ([]*model.VillaNumber, error)
	GetByNumber(ctx context.Context, villaNo uint64) (*model.VillaNumber, error)
	Update(ctx context.Context, n *model.VillaNumber) error
	Remove(ctx context.Context, n *model.VillaNumber) error
	Count(ctx context.Context, filter *repository.Clause) (int64, error)
}

// VillaNumberHandler bundles the dependencies of the room-number endpoints.
// It also holds the villa store: creates and updates verify the referenced
// villa exists before touching the row.
type VillaNumberHandler struct {
	Numbers VillaNumberStore
	Villas  VillaStore
	Log     *zap.Logger
	Events  queue.Publisher
}

// NewVillaNumberHandler constructs a VillaNumberHandler.
func NewVillaNumberHandler(numbers VillaNumberStore, villas VillaStore, log *zap.Logger, events queue.Publisher) *VillaNumberHandler {
	if numbers == nil || villas == nil || log == nil {
		panic("nil dependency passed to NewVillaNumberHandler")
	}
	return &VillaNumberHandler{Numbers: numbers, Villas: villas, Log: log, Events: events}
}

// List handles GET /api/VillaNumberAPI with the same paging contract as the
// villa listing.
func (h *VillaNumberHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	pageSize := intQuery(c, "pageSize", 0)
	pageNumber := intQuery(c, "pageNumber", 1)

	numbers, err := h.Numbers.GetAll(ctx, nil, pageSize, pageNumber)
	if err != nil {
		h.Log.Error("list villa numbers failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	total, err := h.Numbers.Count(ctx, nil)
	if err != nil {
		h.Log.Error("count villa numbers failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	effSize, _ := repository.Window(pageSize, pageNumber)
	if hdr, err := json.Marshal(pagination{PageNumber: max(pageNumber, 1), PageSize: effSize, TotalRecords: total}); err == nil {
		c.Response().Header().Set("X-Pagination", string(hdr))
	}
	return ok(c, http.StatusOK, dto.VillaNumbersToDTO(numbers))
}

// GetByNumber handles GET /api/VillaNumberAPI/:villaNo. The owning villa is
// embedded in the response when it resolves.
func (h *VillaNumberHandler) GetByNumber(c echo.Context) error {
	villaNo, err := strconv.ParseUint(c.Param("villaNo"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid villa number")
	}
	if villaNo == 0 {
		return fail(c, http.StatusBadRequest, "villa number must be nonzero")
	}

	ctx := c.Request().Context()
	number, err := h.Numbers.GetByNumber(ctx, villaNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa number %d not found", villaNo))
		}
		h.Log.Error("get villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	resp := dto.VillaNumberToDTO(number)
	if villa, err := h.Villas.GetByID(ctx, number.VillaID); err == nil {
		v := dto.VillaToDTO(villa)
		resp.Villa = &v
	}
	return ok(c, http.StatusOK, resp)
}

// Create handles POST /api/VillaNumberAPI. The room number is client-chosen
// and must be new; the referenced villa must exist.
func (h *VillaNumberHandler) Create(c echo.Context) error {
	var req dto.VillaNumberCreateDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	ctx := c.Request().Context()
	if _, err := h.Numbers.GetByNumber(ctx, req.VillaNo); err == nil {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("villa number %d already exists", req.VillaNo))
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.Log.Error("duplicate-number check failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if _, err := h.Villas.GetByID(ctx, req.VillaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %d does not exist", req.VillaID))
		}
		h.Log.Error("villa lookup failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	number := dto.VillaNumberFromCreate(req)
	if err := h.Numbers.Create(ctx, number); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa number %d already exists", number.VillaNo))
		}
		h.Log.Error("create villa number failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.Log.Info("villa number created", zap.Uint64("villa_no", number.VillaNo), zap.Uint64("villa_id", number.VillaID))
	h.publish(c, queue.ActionCreated, number)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/VillaNumberAPI/%d", number.VillaNo))
	return ok(c, http.StatusCreated, dto.VillaNumberToDTO(number))
}

// Update handles PUT /api/VillaNumberAPI/:villaNo, a full replace.
func (h *VillaNumberHandler) Update(c echo.Context) error {
	villaNo, err := strconv.ParseUint(c.Param("villaNo"), 10, 64)
	if err != nil || villaNo == 0 {
		return fail(c, http.StatusBadRequest, "invalid villa number")
	}
	var req dto.VillaNumberUpdateDTO
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.VillaNo != villaNo {
		return fail(c, http.StatusBadRequest, "villa number in body does not match route")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}

	ctx := c.Request().Context()
	if _, err := h.Villas.GetByID(ctx, req.VillaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %d does not exist", req.VillaID))
		}
		h.Log.Error("villa lookup failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	number := dto.VillaNumberFromUpdate(req)
	if err := h.Numbers.Update(ctx, number); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa number %d not found", villaNo))
		}
		h.Log.Error("update villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.publish(c, queue.ActionUpdated, number)
	return ok(c, http.StatusOK, dto.VillaNumberToDTO(number))
}

// PartialUpdate handles PATCH /api/VillaNumberAPI/:villaNo with RFC 6902
// semantics, mirroring the villa endpoint.
func (h *VillaNumberHandler) PartialUpdate(c echo.Context) error {
	villaNo, err := strconv.ParseUint(c.Param("villaNo"), 10, 64)
	if err != nil || villaNo == 0 {
		return fail(c, http.StatusBadRequest, "invalid villa number")
	}
	ops, err := io.ReadAll(c.Request().Body)
	if err != nil || len(ops) == 0 {
		return fail(c, http.StatusBadRequest, "patch body is required")
	}

	ctx := c.Request().Context()
	number, err := h.Numbers.GetByNumber(ctx, villaNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa number %d not found", villaNo))
		}
		h.Log.Error("get villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	doc := dto.VillaNumberToUpdateDTO(number)
	if err := utils.ApplyJSONPatch(&doc, ops); err != nil {
		return fail(c, http.StatusBadRequest, "invalid patch: "+err.Error())
	}
	if doc.VillaNo != villaNo {
		return fail(c, http.StatusBadRequest, "villa number cannot be patched")
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return fail(c, http.StatusBadRequest, errs...)
	}
	if _, err := h.Villas.GetByID(ctx, doc.VillaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("villa %d does not exist", doc.VillaID))
		}
		h.Log.Error("villa lookup failed", zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	patched := dto.VillaNumberFromUpdate(doc)
	if err := h.Numbers.Update(ctx, patched); err != nil {
		h.Log.Error("patch villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.publish(c, queue.ActionUpdated, patched)
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/VillaNumberAPI/:villaNo.
func (h *VillaNumberHandler) Delete(c echo.Context) error {
	villaNo, err := strconv.ParseUint(c.Param("villaNo"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid villa number")
	}
	if villaNo == 0 {
		return fail(c, http.StatusBadRequest, "villa number must be nonzero")
	}

	ctx := c.Request().Context()
	number, err := h.Numbers.GetByNumber(ctx, villaNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa number %d not found", villaNo))
		}
		h.Log.Error("get villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Numbers.Remove(ctx, number); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("villa number %d not found", villaNo))
		}
		h.Log.Error("delete villa number failed", zap.Uint64("villa_no", villaNo), zap.Error(err))
		return fail(c, http.StatusBadRequest, err.Error())
	}

	h.Log.Info("villa number deleted", zap.Uint64("villa_no", villaNo))
	h.publish(c, queue.ActionDeleted, number)
	return ok(c, http.StatusOK, dto.VillaNumberToDTO(number))
}

func (h *VillaNumberHandler) publish(c echo.Context, action string, n *model.VillaNumber) {
	if h.Events == nil {
		return
	}
	actor, _ := c.Get(middleware.CtxUsername).(string)
	ev := queue.VillaEvent{
		Action:     action,
		Entity:     "villa_number",
		ID:         n.VillaNo,
		Actor:      actor,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Events.VillaChanged(c.Request().Context(), ev); err != nil {
		h.Log.Warn("publish villa event failed", zap.Error(err))
	}
}
