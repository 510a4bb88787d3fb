package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-cycle-backend/internal/model"
)

func TestBus_SubscribeAndCancel(t *testing.T) {
	bus := NewBus("node-a")
	var got []Event
	cancel := bus.Subscribe(func(e Event) { got = append(got, e) })

	require.NoError(t, bus.Publish(context.Background(), Event{ID: "1", Type: LoadCreated}))
	cancel()
	require.NoError(t, bus.Publish(context.Background(), Event{ID: "2", Type: LoadUpdated}))

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "node-a", got[0].Origin)
}

func TestNewLoadEvent(t *testing.T) {
	dryer := 2
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	e := NewLoadEvent(LoadUpdated, model.Load{ID: "load-1", Status: model.StatusDrying, DryerNumber: &dryer}, at)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "load-1", e.LoadID)
	assert.Equal(t, model.StatusDrying, e.Status)
	assert.Equal(t, 2, *e.DryerNumber)
	assert.Equal(t, at, e.At)
}

type failing struct{}

func (failing) Publish(context.Context, Event) error { return errors.New("down") }

func TestMulti_ContinuesPastFailures(t *testing.T) {
	bus := NewBus("node-a")
	delivered := 0
	bus.Subscribe(func(Event) { delivered++ })

	err := Multi{failing{}, nil, bus}.Publish(context.Background(), Event{ID: "1"})

	assert.EqualError(t, err, "down")
	assert.Equal(t, 1, delivered)
}

func TestRedisPublisher_RelaySkipsOwnEvents(t *testing.T) {
	bus := NewBus("node-a")
	var got []Event
	bus.Subscribe(func(e Event) { got = append(got, e) })
	p := NewRedisPublisher(nil, "laundry.loads", "node-a")

	own, err := json.Marshal(Event{ID: "1", Type: LoadUpdated, Origin: "node-a"})
	require.NoError(t, err)
	remote, err := json.Marshal(Event{ID: "2", Type: LoadUpdated, LoadID: "load-9", Origin: "node-b"})
	require.NoError(t, err)

	assert.False(t, p.relay(bus, string(own)))
	assert.True(t, p.relay(bus, string(remote)))
	assert.False(t, p.relay(bus, "{broken"))

	require.Len(t, got, 1)
	assert.Equal(t, "load-9", got[0].LoadID)
	assert.Equal(t, "node-b", got[0].Origin)
}
