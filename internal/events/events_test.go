package events

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus(nil)

	var received *Event
	calls := 0
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		calls++
		return nil
	})

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{
		BookingID: 1, ItemID: 7, BookerID: 5, OwnerID: 9, Status: "WAITING", Start: start,
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, received.Decode(&decoded))
	assert.Equal(t, int64(7), decoded.ItemID)
	assert.Equal(t, "WAITING", decoded.Status)
	assert.True(t, start.Equal(decoded.Start))
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus(nil)
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })
	bus.Subscribe("other", func(_ *Event) error { t.Fatal("wrong type"); return nil })

	bus.Publish(&Event{Type: "event"})

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestEventBusHandlerErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	bus := NewEventBus(&logger)

	next := false
	bus.Subscribe("event", func(_ *Event) error { return errors.New("boom") })
	bus.Subscribe("event", func(_ *Event) error { next = true; return nil })

	bus.Publish(&Event{Type: "event"})
	assert.True(t, next)
	assert.Contains(t, buf.String(), "boom")
}

func TestNilBusPublishJSON(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON("event", map[string]string{"a": "b"}))
}

func TestPublishJSONMarshalError(t *testing.T) {
	bus := NewEventBus(nil)
	assert.Error(t, bus.PublishJSON("event", make(chan int)))
}
