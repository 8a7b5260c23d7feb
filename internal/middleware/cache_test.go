package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karsvo/villa-rental-api/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": {"application/json"},
		"X-Pagination": {`{"pageNumber":1,"pageSize":3,"totalRecords":5}`},
	}
	body := []byte(`{"statusCode":200,"isSuccess":true}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, okv := decodePayload(bs)
	require.True(t, okv)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPayloadEmptyBody(t *testing.T) {
	bs, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, okv := decodePayload(bs)
	require.True(t, okv)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestDecodePayloadRejectsCorrupt(t *testing.T) {
	// Too short for the fixed prefix.
	_, _, _, okv := decodePayload([]byte{1, 2, 3})
	assert.False(t, okv)

	// Header length pointing past the end.
	bs, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("x"))
	require.NoError(t, err)
	_, _, _, okv = decodePayload(bs[:9])
	assert.False(t, okv)

	// Valid lengths but garbage header JSON.
	bad := append([]byte(nil), bs...)
	copy(bad[8:], "not json!")
	_, _, _, okv = decodePayload(bad)
	assert.False(t, okv)
}

func newCacheCtx(e *echo.Echo, target string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/VillaAPI")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "villa:cache", KeyStrategy: "route_query"}

	base := cacheKeyFrom(cfg, newCacheCtx(e, "/api/VillaAPI"))
	paged := cacheKeyFrom(cfg, newCacheCtx(e, "/api/VillaAPI?pageSize=2&pageNumber=2"))
	samePaged := cacheKeyFrom(cfg, newCacheCtx(e, "/api/VillaAPI?pageSize=2&pageNumber=2"))

	assert.True(t, len(base) > len(cfg.Prefix))
	assert.NotEqual(t, base, paged)
	assert.Equal(t, paged, samePaged)

	// The route strategy collapses query variants into one key.
	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKeyFrom(cfg, newCacheCtx(e, "/api/VillaAPI")),
		cacheKeyFrom(cfg, newCacheCtx(e, "/api/VillaAPI?pageSize=2")))

	for _, key := range []string{base, paged} {
		assert.True(t, len(key) > 0 && key[:len(cfg.Prefix)] == cfg.Prefix)
	}
}

func TestCacheKeyVariesByPathParam(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "villa:cache", KeyStrategy: "route_query"}
	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		// Both requests resolve to the same registered route; the key must
		// still come from the concrete path so entities never share entries.
		c.SetPath("/api/VillaAPI/:id")
		c.SetParamNames("id")
		c.SetParamValues(target[len("/api/VillaAPI/"):])
		return cacheKeyFrom(cfg, c)
	}

	assert.NotEqual(t, keyFor("/api/VillaAPI/1"), keyFor("/api/VillaAPI/2"))
	assert.Equal(t, keyFor("/api/VillaAPI/1"), keyFor("/api/VillaAPI/1"))

	// The route strategy collapses queries, never path params.
	cfg.KeyStrategy = "route"
	assert.NotEqual(t, keyFor("/api/VillaAPI/1"), keyFor("/api/VillaAPI/2"))
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/VillaAPI", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewResponseCache(config.CacheConfig{Enabled: false}, nil)
	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "fresh", rec.Body.String())
	// Pass-through mode never tags responses.
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
