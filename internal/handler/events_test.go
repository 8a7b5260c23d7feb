package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karsvo/villa-rental-api/internal/middleware"
	"github.com/karsvo/villa-rental-api/internal/queue"
)

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	events []queue.VillaEvent
}

func (p *recordingPublisher) VillaChanged(_ context.Context, ev queue.VillaEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func TestVillaMutationsPublishEvents(t *testing.T) {
	e := echo.New()
	store := newFakeVillaStore()
	pub := &recordingPublisher{}
	h := NewVillaHandler(store, zap.NewNop(), pub)

	c, rec := doJSON(e, http.MethodPost, "/api/VillaAPI", `{"name":"Pool Villa"}`)
	c.Set(middleware.CtxUsername, "alice")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodDelete, "/", "")
	c.SetPath("/api/VillaAPI/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set(middleware.CtxUsername, "alice")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, pub.events, 2)

	created := pub.events[0]
	assert.Equal(t, queue.ActionCreated, created.Action)
	assert.Equal(t, "villa", created.Entity)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, "Pool Villa", created.Name)
	assert.Equal(t, "alice", created.Actor)
	assert.NotEmpty(t, created.OccurredAt)

	assert.Equal(t, queue.ActionDeleted, pub.events[1].Action)
}

func TestVillaRejectedMutationPublishesNothing(t *testing.T) {
	e := echo.New()
	store := newFakeVillaStore()
	pub := &recordingPublisher{}
	h := NewVillaHandler(store, zap.NewNop(), pub)
	seedVilla(t, store, "Pool Villa", 4)

	c, rec := doJSON(e, http.MethodPost, "/api/VillaAPI", `{"name":"Pool Villa"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, pub.events)
}
