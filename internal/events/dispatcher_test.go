package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	first := errors.New("first")

	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls = append(calls, "a")
		return first
	})
	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls = append(calls, "b")
		return errors.New("second")
	})
	d.Subscribe(EventRequestDeleted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRequestCreated, RequestID: "REQ-1"})
	assert.ErrorIs(t, err, first)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestAssigned}))
}
