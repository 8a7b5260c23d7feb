package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karsvo/villa-rental-api/internal/dto"
	"github.com/karsvo/villa-rental-api/internal/model"
	"github.com/karsvo/villa-rental-api/internal/repository"
)

// fakeVillaStore is an in-memory VillaStore. It mirrors the repository
// contract: key-ordered paging, case-insensitive name lookup, sentinel
// errors, conflict on duplicate names.
type fakeVillaStore struct {
	nextID uint64
	rows   map[uint64]*model.Villa
}

func newFakeVillaStore() *fakeVillaStore {
	return &fakeVillaStore{nextID: 1, rows: map[uint64]*model.Villa{}}
}

func (f *fakeVillaStore) Create(_ context.Context, v *model.Villa) error {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, v.Name) {
			return repository.ErrConflict
		}
	}
	v.ID = f.nextID
	f.nextID++
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	f.rows[v.ID] = &cp
	return nil
}

func (f *fakeVillaStore) GetAll(_ context.Context, _ *repository.Clause, pageSize, pageNumber int) ([]*model.Villa, error) {
	ids := make([]uint64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	limit, offset := repository.Window(pageSize, pageNumber)
	var out []*model.Villa
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, f.rows[ids[i]])
	}
	return out, nil
}

func (f *fakeVillaStore) GetByID(_ context.Context, id uint64) (*model.Villa, error) {
	v, okv := f.rows[id]
	if !okv {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVillaStore) GetByName(_ context.Context, name string) (*model.Villa, error) {
	for _, v := range f.rows {
		if strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVillaStore) Update(_ context.Context, v *model.Villa) error {
	stored, okv := f.rows[v.ID]
	if !okv {
		return repository.ErrNotFound
	}
	for id, r := range f.rows {
		if id != v.ID && strings.EqualFold(r.Name, v.Name) {
			return repository.ErrConflict
		}
	}
	v.CreatedAt = stored.CreatedAt
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	f.rows[v.ID] = &cp
	return nil
}

func (f *fakeVillaStore) Remove(_ context.Context, v *model.Villa) error {
	if _, okv := f.rows[v.ID]; !okv {
		return repository.ErrNotFound
	}
	delete(f.rows, v.ID)
	return nil
}

func (f *fakeVillaStore) Count(_ context.Context, _ *repository.Clause) (int64, error) {
	return int64(len(f.rows)), nil
}

func newVillaTestHandler() (*VillaHandler, *fakeVillaStore) {
	store := newFakeVillaStore()
	return NewVillaHandler(store, zap.NewNop(), nil), store
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func seedVilla(t *testing.T, store *fakeVillaStore, name string, occupancy int) *model.Villa {
	t.Helper()
	v := &model.Villa{Name: name, Occupancy: occupancy, Rate: 200, Sqft: 550}
	require.NoError(t, store.Create(context.Background(), v))
	return v
}

func TestVillaCreate(t *testing.T) {
	e := echo.New()
	h, _ := newVillaTestHandler()

	c, rec := doJSON(e, http.MethodPost, "/api/VillaAPI",
		`{"name":"Pool Villa","details":"private pool","rate":250,"occupancy":4,"sqft":600,"amenity":"wifi"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/VillaAPI/1", rec.Header().Get(echo.HeaderLocation))

	resp := envelopeOf(t, rec)
	assert.True(t, resp.IsSuccess)
	assert.Empty(t, resp.ErrorMessages)
	result := resp.Result.(map[string]any)
	assert.Equal(t, float64(1), result["id"])
	assert.Equal(t, "Pool Villa", result["name"])
}

func TestVillaCreateValidation(t *testing.T) {
	e := echo.New()
	h, _ := newVillaTestHandler()

	// Missing name.
	c, rec := doJSON(e, http.MethodPost, "/api/VillaAPI", `{"rate":100}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := envelopeOf(t, rec)
	assert.False(t, resp.IsSuccess)
	assert.Contains(t, resp.ErrorMessages, "name is required")

	// Name over the length bound.
	long := strings.Repeat("x", 31)
	c, rec = doJSON(e, http.MethodPost, "/api/VillaAPI", `{"name":"`+long+`"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelopeOf(t, rec).ErrorMessages, "name must be 30 characters or fewer")
}

func TestVillaCreateDuplicateName(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	seedVilla(t, store, "Pool Villa", 4)

	// Duplicate check is case-insensitive.
	c, rec := doJSON(e, http.MethodPost, "/api/VillaAPI", `{"name":"pool villa"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := envelopeOf(t, rec)
	assert.False(t, resp.IsSuccess)
	assert.Contains(t, resp.ErrorMessages[0], "already exists")
}

func TestVillaGetByID(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	v := seedVilla(t, store, "Beach Villa", 6)

	c, rec := doJSON(e, http.MethodGet, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	result := envelopeOf(t, rec).Result.(map[string]any)
	assert.Equal(t, v.Name, result["name"])

	// Zero id is rejected before any lookup.
	c, rec = doJSON(e, http.MethodGet, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("0")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown id.
	c, rec = doJSON(e, http.MethodGet, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, envelopeOf(t, rec).IsSuccess)
}

func TestVillaListPagination(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		seedVilla(t, store, n, 2)
	}

	// Default page size is 3.
	c, rec := doJSON(e, http.MethodGet, "/api/VillaAPI", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	villas := envelopeOf(t, rec).Result.([]any)
	assert.Len(t, villas, 3)

	var page pagination
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("X-Pagination")), &page))
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 3, page.PageSize)
	assert.Equal(t, int64(5), page.TotalRecords)

	// Second page of two carries the remainder, still key-ordered.
	c, rec = doJSON(e, http.MethodGet, "/api/VillaAPI?pageSize=2&pageNumber=2", "")
	require.NoError(t, h.List(c))
	villas = envelopeOf(t, rec).Result.([]any)
	require.Len(t, villas, 2)
	assert.Equal(t, "C", villas[0].(map[string]any)["name"])
	assert.Equal(t, "D", villas[1].(map[string]any)["name"])

	// A page past the data is an empty list, not an error.
	c, rec = doJSON(e, http.MethodGet, "/api/VillaAPI?pageSize=3&pageNumber=9", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, envelopeOf(t, rec).Result)
}

func TestVillaUpdate(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	seedVilla(t, store, "Pool Villa", 4)

	c, rec := doJSON(e, http.MethodPut, "/",
		`{"id":1,"name":"Pool Villa","details":"renovated","rate":300,"occupancy":4,"sqft":600,"amenity":"wifi"}`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	result := envelopeOf(t, rec).Result.(map[string]any)
	assert.Equal(t, "renovated", result["details"])
	assert.Equal(t, float64(300), result["rate"])

	// Body id must match the route.
	c, rec = doJSON(e, http.MethodPut, "/", `{"id":2,"name":"Pool Villa"}`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown id is a 404.
	c, rec = doJSON(e, http.MethodPut, "/", `{"id":99,"name":"Ghost Villa"}`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVillaPartialUpdate(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	v := seedVilla(t, store, "Pool Villa", 4)

	c, rec := doJSON(e, http.MethodPatch, "/",
		`[{"op":"replace","path":"/name","value":"Lagoon Villa"}]`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PartialUpdate(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	got, err := store.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lagoon Villa", got.Name)
	// Untouched fields survive the patch.
	assert.Equal(t, 4, got.Occupancy)
}

func TestVillaPartialUpdateRejections(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	seedVilla(t, store, "Pool Villa", 4)

	// Missing villa 404s before the patch is applied.
	c, rec := doJSON(e, http.MethodPatch, "/", `[{"op":"replace","path":"/name","value":"X"}]`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.PartialUpdate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Patching the id is rejected.
	c, rec = doJSON(e, http.MethodPatch, "/", `[{"op":"replace","path":"/id","value":9}]`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PartialUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed operation sequence.
	c, rec = doJSON(e, http.MethodPatch, "/", `{"name":"not a patch"}`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PartialUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Patching the name to empty fails validation.
	c, rec = doJSON(e, http.MethodPatch, "/", `[{"op":"replace","path":"/name","value":""}]`)
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PartialUpdate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelopeOf(t, rec).ErrorMessages, "name is required")
}

func TestVillaDelete(t *testing.T) {
	e := echo.New()
	h, store := newVillaTestHandler()
	seedVilla(t, store, "Pool Villa", 4)

	// The deleted record comes back in the envelope.
	c, rec := doJSON(e, http.MethodDelete, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	result := envelopeOf(t, rec).Result.(map[string]any)
	assert.Equal(t, "Pool Villa", result["name"])
	_, err := store.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again is a 404, zero id a 400.
	c, rec = doJSON(e, http.MethodDelete, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = doJSON(e, http.MethodDelete, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("0")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVillaListFilter(t *testing.T) {
	e := echo.New()

	c, _ := doJSON(e, http.MethodGet, "/api/VillaAPI?occupancy=4&search=pool", "")
	f := villaListFilter(c)
	require.NotNil(t, f)
	assert.Equal(t, "occupancy = ? AND name LIKE ?", f.Expr)
	assert.Equal(t, []any{4, "%pool%"}, f.Args)

	c, _ = doJSON(e, http.MethodGet, "/api/VillaAPI", "")
	assert.Nil(t, villaListFilter(c))

	// A non-numeric occupancy is ignored rather than failing the request.
	c, _ = doJSON(e, http.MethodGet, "/api/VillaAPI?occupancy=lots", "")
	assert.Nil(t, villaListFilter(c))
}

func TestVillaDTORoundTrip(t *testing.T) {
	v := &model.Villa{ID: 3, Name: "Royal Villa", Details: "sea view", Rate: 400,
		Occupancy: 5, ImageURL: "https://example.com/v.png", Sqft: 900, Amenity: "spa"}

	d := dto.VillaToUpdateDTO(v)
	back := dto.VillaFromUpdate(d)
	assert.Equal(t, v, back)
}
